package report

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"gonum.org/v1/gonum/stat"

	"github.com/cognicore/emoreduce/pkg/emoreduce/freq"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewRunID returns a sortable unique run identifier
func NewRunID(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// Summary describes one reduction run
type Summary struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	Seed      int64     `json:"seed"`

	Rows            int64        `json:"rows"`
	Cardinality     []Bucket     `json:"cardinality"`
	SourceLabels    []LabelShare `json:"source_labels"`
	ReducedLabels   []LabelShare `json:"reduced_labels"`
	DistinctSource  int          `json:"distinct_source"`
	DistinctReduced int          `json:"distinct_reduced"`
	SourceEntropy   float64      `json:"source_entropy"`
	ReducedEntropy  float64      `json:"reduced_entropy"`
}

// Bucket is the share of records carrying Labels labels
type Bucket struct {
	Labels  int     `json:"labels"`
	Records int64   `json:"records"`
	Percent float64 `json:"percent"`
}

// LabelShare is a label's count and its share of the relevant total
type LabelShare struct {
	Label   string  `json:"label"`
	Count   int64   `json:"count"`
	Percent float64 `json:"percent"`
}

// Meta identifies a run
type Meta struct {
	RunID     string
	CreatedAt time.Time
	Input     string
	Output    string
	Seed      int64
}

// Build summarizes the source label counts and the reduced label counts.
// Source shares are relative to all label occurrences, reduced shares to the
// number of rows. topN limits the source list; 0 keeps every label.
func Build(meta Meta, source, reduced *freq.Counter, topN int) Summary {
	s := Summary{
		RunID:           meta.RunID,
		CreatedAt:       meta.CreatedAt,
		Input:           meta.Input,
		Output:          meta.Output,
		Seed:            meta.Seed,
		Rows:            source.Rows(),
		DistinctSource:  source.Distinct(),
		DistinctReduced: reduced.Distinct(),
		SourceEntropy:   Entropy(source.MostCommon(0)),
		ReducedEntropy:  Entropy(reduced.MostCommon(0)),
	}

	for _, b := range source.Cardinality() {
		s.Cardinality = append(s.Cardinality, Bucket{
			Labels:  b.K,
			Records: b.Records,
			Percent: percent(b.Records, source.Rows()),
		})
	}
	total := source.Total()
	for _, lc := range source.MostCommon(topN) {
		s.SourceLabels = append(s.SourceLabels, LabelShare{
			Label:   lc.Label,
			Count:   lc.Count,
			Percent: percent(lc.Count, total),
		})
	}
	for _, lc := range reduced.MostCommon(0) {
		s.ReducedLabels = append(s.ReducedLabels, LabelShare{
			Label:   lc.Label,
			Count:   lc.Count,
			Percent: percent(lc.Count, reduced.Rows()),
		})
	}
	return s
}

// Entropy is the Shannon entropy (nats) of a label distribution
func Entropy(counts []freq.LabelCount) float64 {
	var total int64
	for _, lc := range counts {
		total += lc.Count
	}
	if total == 0 {
		return 0
	}
	p := make([]float64, len(counts))
	for i, lc := range counts {
		p[i] = float64(lc.Count) / float64(total)
	}
	return stat.Entropy(p)
}

func percent(n, of int64) float64 {
	if of == 0 {
		return 0
	}
	return float64(n) / float64(of) * 100
}

// WriteJSON writes the summary with 2-space indentation
func WriteJSON(path string, s Summary) error {
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	return os.WriteFile(path, append(out, '\n'), 0o644)
}
