package freq

import (
	"testing"
)

func TestCounterBasic(t *testing.T) {
	counter := NewCounter()
	counter.Add([]string{"joy"})

	if counter.Rows() != 1 {
		t.Errorf("Expected 1 row, got %d", counter.Rows())
	}
	if counter.Count("joy") != 1 {
		t.Error("Label 'joy' should have count 1")
	}
	if counter.Count("anger") != 0 {
		t.Error("Unseen label should have count 0")
	}
}

func TestCounterMultilabelRows(t *testing.T) {
	counter := NewCounter()
	counter.Add([]string{"love", "admiration"})
	counter.Add([]string{"love"})
	counter.Add([]string{"neutral"})

	if counter.Count("love") != 2 {
		t.Errorf("love: expected 2, got %d", counter.Count("love"))
	}
	if counter.Count("admiration") != 1 {
		t.Errorf("admiration: expected 1, got %d", counter.Count("admiration"))
	}
	if counter.Total() != 4 {
		t.Errorf("Expected 4 occurrences, got %d", counter.Total())
	}
	if counter.Distinct() != 3 {
		t.Errorf("Expected 3 distinct labels, got %d", counter.Distinct())
	}
}

func TestCounterOrderIndependent(t *testing.T) {
	a := NewCounter()
	a.Add([]string{"joy", "love"})
	a.Add([]string{"fear"})

	b := NewCounter()
	b.Add([]string{"fear"})
	b.Add([]string{"love", "joy"})

	for _, l := range []string{"joy", "love", "fear"} {
		if a.Count(l) != b.Count(l) {
			t.Errorf("%s: counts differ %d vs %d", l, a.Count(l), b.Count(l))
		}
	}
}

func TestCounterMostCommon(t *testing.T) {
	counter := NewCounter()
	counter.Add([]string{"sadness"})
	counter.Add([]string{"joy", "sadness"})
	counter.Add([]string{"anger"})
	counter.Add([]string{"joy", "anger", "sadness"})

	top := counter.MostCommon(2)
	if len(top) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(top))
	}
	if top[0].Label != "sadness" || top[0].Count != 3 {
		t.Errorf("Expected sadness=3 first, got %+v", top[0])
	}
	// joy and anger tie at 2; joy was seen first
	if top[1].Label != "joy" {
		t.Errorf("Expected joy to win the tie, got %+v", top[1])
	}

	all := counter.MostCommon(0)
	if len(all) != 3 {
		t.Errorf("MostCommon(0) should return all labels, got %d", len(all))
	}
}

func TestCounterCardinality(t *testing.T) {
	counter := NewCounter()
	counter.Add([]string{"a", "b", "c"})
	counter.Add([]string{"a"})
	counter.Add([]string{"b"})
	counter.Add([]string{"a", "b"})

	got := counter.Cardinality()
	want := []Bucket{{K: 1, Records: 2}, {K: 2, Records: 1}, {K: 3, Records: 1}}
	if len(got) != len(want) {
		t.Fatalf("Expected %d buckets, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bucket %d: want %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestCounterEmpty(t *testing.T) {
	counter := NewCounter()
	if counter.Rows() != 0 || counter.Total() != 0 || counter.Distinct() != 0 {
		t.Error("Empty counter should report zeros")
	}
	if len(counter.MostCommon(10)) != 0 {
		t.Error("Empty counter should have no labels")
	}
	if len(counter.Cardinality()) != 0 {
		t.Error("Empty counter should have no buckets")
	}
}
