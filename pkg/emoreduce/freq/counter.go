package freq

import "sort"

// Table is the read-only view of label counts the reducer consults.
type Table interface {
	Count(label string) int64
}

// Counter tallies label occurrences across a corpus
type Counter struct {
	rows        int64
	labels      map[string]int64
	order       []string // first-seen order, used to break ties
	cardinality map[int]int64
}

// LabelCount pairs a label with its occurrence count
type LabelCount struct {
	Label string
	Count int64
}

// Bucket counts the records that carry exactly K labels
type Bucket struct {
	K       int
	Records int64
}

// NewCounter creates an empty counter
func NewCounter() *Counter {
	return &Counter{
		labels:      make(map[string]int64),
		cardinality: make(map[int]int64),
	}
}

// Add records one row's labels. A row with several labels contributes to
// each of them.
func (c *Counter) Add(labels []string) {
	c.rows++
	c.cardinality[len(labels)]++
	for _, l := range labels {
		if _, ok := c.labels[l]; !ok {
			c.order = append(c.order, l)
		}
		c.labels[l]++
	}
}

// Count returns the number of occurrences of label
func (c *Counter) Count(label string) int64 {
	return c.labels[label]
}

// Rows returns the number of records added
func (c *Counter) Rows() int64 {
	return c.rows
}

// Total returns the sum of all label occurrences
func (c *Counter) Total() int64 {
	var n int64
	for _, v := range c.labels {
		n += v
	}
	return n
}

// Distinct returns the number of distinct labels seen
func (c *Counter) Distinct() int {
	return len(c.labels)
}

// MostCommon returns up to n labels by descending count. Ties keep the
// order in which labels were first seen. n <= 0 returns every label.
func (c *Counter) MostCommon(n int) []LabelCount {
	out := make([]LabelCount, 0, len(c.order))
	for _, l := range c.order {
		out = append(out, LabelCount{Label: l, Count: c.labels[l]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Cardinality returns the labels-per-record distribution ordered by K
func (c *Counter) Cardinality() []Bucket {
	out := make([]Bucket, 0, len(c.cardinality))
	for k, v := range c.cardinality {
		out = append(out, Bucket{K: k, Records: v})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].K < out[j].K
	})
	return out
}
