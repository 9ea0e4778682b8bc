package reduce

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/emoreduce/pkg/emoreduce/freq"
	"github.com/cognicore/emoreduce/pkg/emoreduce/internalerr"
)

type countingSource struct {
	Source
	floats, ints int
}

func (c *countingSource) Float64() float64 {
	c.floats++
	return c.Source.Float64()
}

func (c *countingSource) Intn(n int) int {
	c.ints++
	return c.Source.Intn(n)
}

// fixedSource replays scripted draws
type fixedSource struct {
	floats []float64
	ints   []int
}

func (f *fixedSource) Float64() float64 {
	v := f.floats[0]
	f.floats = f.floats[1:]
	return v
}

func (f *fixedSource) Intn(n int) int {
	v := f.ints[0]
	f.ints = f.ints[1:]
	return v
}

type table map[string]int64

func (t table) Count(label string) int64 { return t[label] }

func TestSelectSingleLabelConsumesNoRandomness(t *testing.T) {
	src := &countingSource{Source: NewPySource(DefaultSeed)}
	r := New(table{"joy": 1}, src, Options{})

	for _, label := range []string{"joy", "neutral", "never-seen"} {
		got, err := r.Select([]string{label})
		require.NoError(t, err)
		assert.Equal(t, label, got)
	}
	assert.Zero(t, src.floats)
	assert.Zero(t, src.ints)
}

func TestSelectEmptyLabels(t *testing.T) {
	src := &countingSource{Source: NewPySource(DefaultSeed)}
	r := New(table{}, src, Options{})

	_, err := r.Select(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerr.ErrEmptyLabels))
	assert.Zero(t, src.floats)
}

func TestSelectOnlyNeutral(t *testing.T) {
	r := New(table{"neutral": 10}, NewPySource(DefaultSeed), Options{})
	got, err := r.Select([]string{"neutral"})
	require.NoError(t, err)
	assert.Equal(t, "neutral", got)
}

func TestSelectDuplicateNeutralKeepsNeutral(t *testing.T) {
	r := New(table{"neutral": 10}, NewPySource(DefaultSeed), Options{})
	got, err := r.Select([]string{"neutral", "neutral"})
	require.NoError(t, err)
	assert.Equal(t, "neutral", got)
}

func TestSelectNeverNeutralWhenOthersPresent(t *testing.T) {
	tbl := table{"neutral": 1000, "joy": 5, "anger": 3}
	r := New(tbl, NewPySource(DefaultSeed), Options{})

	inputs := [][]string{
		{"neutral", "joy"},
		{"joy", "neutral"},
		{"neutral", "anger", "joy"},
	}
	for i := 0; i < 500; i++ {
		for _, in := range inputs {
			got, err := r.Select(in)
			require.NoError(t, err)
			assert.NotEqual(t, "neutral", got)
		}
	}
}

func TestSelectNeutralPlusOneSkipsDraw(t *testing.T) {
	src := &countingSource{Source: NewPySource(DefaultSeed)}
	r := New(table{"neutral": 9, "joy": 1}, src, Options{})

	got, err := r.Select([]string{"neutral", "joy"})
	require.NoError(t, err)
	assert.Equal(t, "joy", got)
	assert.Zero(t, src.floats, "one candidate left after filtering")
}

func TestSelectBranches(t *testing.T) {
	tbl := table{"love": 10, "admiration": 5, "joy": 1}

	// r < 0.7 picks the most frequent candidate
	r := New(tbl, &fixedSource{floats: []float64{0.69}}, Options{})
	got, err := r.Select([]string{"joy", "admiration", "love"})
	require.NoError(t, err)
	assert.Equal(t, "love", got)

	// r >= 0.7 flips between the top two
	r = New(tbl, &fixedSource{floats: []float64{0.7, 0.9}, ints: []int{1, 0}}, Options{})
	got, err = r.Select([]string{"joy", "admiration", "love"})
	require.NoError(t, err)
	assert.Equal(t, "admiration", got)
	got, err = r.Select([]string{"joy", "admiration", "love"})
	require.NoError(t, err)
	assert.Equal(t, "love", got)
}

func TestSelectCustomOptions(t *testing.T) {
	tbl := table{"none": 100, "joy": 2, "fear": 1}
	r := New(tbl, &fixedSource{floats: []float64{0.95}}, Options{NeutralLabel: "none", TopBias: 0.99})

	got, err := r.Select([]string{"none", "fear", "joy"})
	require.NoError(t, err)
	assert.Equal(t, "joy", got)
}

func TestSelectMarginals(t *testing.T) {
	tbl := table{"a": 100, "b": 50, "c": 10, "d": 1}
	r := New(tbl, NewPySource(DefaultSeed), Options{})

	const n = 100000
	hits := map[string]int{}
	for i := 0; i < n; i++ {
		got, err := r.Select([]string{"d", "c", "b", "a"})
		require.NoError(t, err)
		hits[got]++
	}

	assert.InDelta(t, 0.85, float64(hits["a"])/n, 0.01)
	assert.InDelta(t, 0.15, float64(hits["b"])/n, 0.01)
	assert.Zero(t, hits["c"])
	assert.Zero(t, hits["d"])
}

func TestSelectScenario(t *testing.T) {
	counter := freq.NewCounter()
	rows := [][]string{{"joy"}, {"neutral"}, {"love", "admiration"}, {"love"}}
	for _, row := range rows {
		counter.Add(row)
	}

	// First draw of seed 42 is 0.639..., below the bias, so the top label wins.
	r := New(counter, NewPySource(DefaultSeed), Options{})
	var got []string
	for _, row := range rows[:3] {
		l, err := r.Select(row)
		require.NoError(t, err)
		got = append(got, l)
	}
	assert.Equal(t, []string{"joy", "neutral", "love"}, got)
}

func TestSelectReproducible(t *testing.T) {
	tbl := table{"a": 3, "b": 3, "c": 2}
	rows := [][]string{{"a", "b"}, {"c", "b"}, {"b", "a", "c"}, {"a"}, {"neutral", "c"}}

	run := func() []string {
		r := New(tbl, NewPySource(DefaultSeed), Options{})
		var out []string
		for i := 0; i < 200; i++ {
			for _, row := range rows {
				l, err := r.Select(row)
				require.NoError(t, err)
				out = append(out, l)
			}
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestRankStableForTies(t *testing.T) {
	tbl := table{"x": 1, "y": 1, "z": 5}
	assert.Equal(t, []string{"z", "x", "y"}, Rank([]string{"x", "y", "z"}, tbl))
	assert.Equal(t, []string{"z", "y", "x"}, Rank([]string{"y", "x", "z"}, tbl))

	in := []string{"x", "z"}
	Rank(in, tbl)
	assert.Equal(t, []string{"x", "z"}, in, "input must not be reordered")
}
