// Package reduce collapses a record's emotion labels into a single label.
//
// Selection is biased toward labels that are frequent across the whole
// corpus, with a seeded random fallback to the runner-up so that the most
// common class does not absorb every multilabel record:
//
//  1. A single label is returned as is, without consuming randomness.
//  2. The neutral label is dropped when any other label is present.
//  3. Remaining candidates are ranked by global count (stable, so ties keep
//     their source order).
//  4. With two or more candidates, one draw r decides: r < TopBias picks the
//     top candidate, otherwise a fair coin picks between the top two.
//
// With the default TopBias of 0.7 the top candidate wins 85% of the time and
// the runner-up 15%; lower-ranked candidates are never chosen.
package reduce

import (
	"sort"

	"github.com/cognicore/emoreduce/pkg/emoreduce/freq"
	"github.com/cognicore/emoreduce/pkg/emoreduce/internalerr"
)

// Defaults used by the reduction
const (
	DefaultNeutralLabel = "neutral"
	DefaultTopBias      = 0.7
)

// Options tunes the reducer. Zero values fall back to the defaults.
type Options struct {
	NeutralLabel string
	TopBias      float64
}

// Reducer selects one label per record
type Reducer struct {
	freq    freq.Table
	rng     Source
	neutral string
	topBias float64
}

// New creates a reducer over a frozen frequency table. rng is consumed in
// call order; pass the same seeded source to reproduce a run.
func New(table freq.Table, rng Source, opts Options) *Reducer {
	if opts.NeutralLabel == "" {
		opts.NeutralLabel = DefaultNeutralLabel
	}
	if opts.TopBias <= 0 || opts.TopBias > 1 {
		opts.TopBias = DefaultTopBias
	}
	return &Reducer{
		freq:    table,
		rng:     rng,
		neutral: opts.NeutralLabel,
		topBias: opts.TopBias,
	}
}

// Select returns the chosen label for one record
func (r *Reducer) Select(labels []string) (string, error) {
	switch len(labels) {
	case 0:
		return "", internalerr.ErrEmptyLabels
	case 1:
		return labels[0], nil
	}

	cands := Rank(dropLabel(labels, r.neutral), r.freq)
	if len(cands) == 1 {
		return cands[0], nil
	}
	if r.rng.Float64() < r.topBias {
		return cands[0], nil
	}
	return cands[r.rng.Intn(2)], nil
}

// Rank returns a copy of labels ordered by descending global count
func Rank(labels []string, table freq.Table) []string {
	out := make([]string, len(labels))
	copy(out, labels)
	sort.SliceStable(out, func(i, j int) bool {
		return table.Count(out[i]) > table.Count(out[j])
	})
	return out
}

// dropLabel removes every occurrence of drop unless nothing would be left
func dropLabel(labels []string, drop string) []string {
	kept := make([]string, 0, len(labels))
	for _, l := range labels {
		if l != drop {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		return labels
	}
	return kept
}

