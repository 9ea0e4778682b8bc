// Package pipeline runs the single-label conversion end to end.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/cognicore/emoreduce/internal/dataset"
	"github.com/cognicore/emoreduce/pkg/emoreduce/config"
	"github.com/cognicore/emoreduce/pkg/emoreduce/freq"
	"github.com/cognicore/emoreduce/pkg/emoreduce/reduce"
	"github.com/cognicore/emoreduce/pkg/emoreduce/report"
	"github.com/cognicore/emoreduce/pkg/emoreduce/store"
	"github.com/cognicore/emoreduce/pkg/emoreduce/textclean"
)

// Pipeline converts a multilabel dataset into a single-label dataset
type Pipeline struct {
	cfg    config.Reduce
	logger *log.Logger
	store  store.Store
	open   func(context.Context) (store.Store, error)
	now    func() time.Time
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithLogger sets the progress logger. A nil logger discards output.
func WithLogger(l *log.Logger) Option {
	return func(p *Pipeline) {
		if l == nil {
			l = log.New(io.Discard, "", 0)
		}
		p.logger = l
	}
}

// WithStore records each run's summary in st
func WithStore(st store.Store) Option {
	return func(p *Pipeline) { p.store = st }
}

// WithStoreOpener defers opening the run ledger until the output has been
// written, so an aborted run leaves no ledger file behind. The pipeline
// closes the store it opened.
func WithStoreOpener(open func(context.Context) (store.Store, error)) Option {
	return func(p *Pipeline) { p.open = open }
}

// WithClock overrides the run timestamp source
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a pipeline for cfg
func New(cfg config.Reduce, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:    cfg,
		logger: log.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run loads, counts, reduces and writes. Nothing is written to the output
// path unless every row reduces successfully.
func (p *Pipeline) Run(ctx context.Context) (report.Summary, error) {
	cfg := p.cfg
	started := p.now()

	p.logger.Printf("Loading dataset: %s", cfg.Input)
	records, err := dataset.Load(cfg.Input)
	if err != nil {
		return report.Summary{}, fmt.Errorf("load dataset: %w", err)
	}
	p.logger.Printf("Loaded %d samples", len(records))

	source := Count(records)
	p.logDistribution(source)

	reduced, err := p.reduce(ctx, records, source)
	if err != nil {
		return report.Summary{}, err
	}

	counts := freq.NewCounter()
	for _, r := range reduced {
		counts.Add([]string{r.Label})
	}
	p.logger.Printf("Original: %d multilabel samples", len(records))
	p.logger.Printf("Result: %d single-label samples", len(reduced))
	p.logger.Printf("Single-label distribution:")
	for _, lc := range counts.MostCommon(cfg.TopN) {
		p.logger.Printf("  %s: %d samples (%.1f%%)", lc.Label, lc.Count, share(lc.Count, counts.Rows()))
	}

	if err := dataset.Write(cfg.Output, reduced); err != nil {
		return report.Summary{}, fmt.Errorf("write dataset: %w", err)
	}
	p.logger.Printf("Saved new dataset to: %s", cfg.Output)
	p.logger.Printf("Unique labels: %d", counts.Distinct())

	sum := report.Build(report.Meta{
		RunID:     report.NewRunID(started),
		CreatedAt: started,
		Input:     cfg.Input,
		Output:    cfg.Output,
		Seed:      cfg.Seed,
	}, source, counts, cfg.TopN)

	if cfg.ReportPath != "" {
		if err := report.WriteJSON(cfg.ReportPath, sum); err != nil {
			return sum, fmt.Errorf("write report: %w", err)
		}
		p.logger.Printf("Saved report to: %s", cfg.ReportPath)
	}
	if err := p.record(ctx, sum); err != nil {
		return sum, err
	}

	return sum, nil
}

func (p *Pipeline) record(ctx context.Context, sum report.Summary) error {
	st := p.store
	if st == nil && p.open != nil {
		opened, err := p.open(ctx)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer opened.Close()
		st = opened
	}
	if st == nil {
		return nil
	}

	if err := st.SaveRun(ctx, sum); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	p.logger.Printf("Recorded run %s", sum.RunID)
	return nil
}

// Count tallies labels over the whole corpus
func Count(records []dataset.Record) *freq.Counter {
	c := freq.NewCounter()
	for _, r := range records {
		c.Add(r.Labels)
	}
	return c
}

func (p *Pipeline) reduce(ctx context.Context, records []dataset.Record, table freq.Table) ([]dataset.ReducedRecord, error) {
	cfg := p.cfg
	r := reduce.New(table, reduce.NewPySource(cfg.Seed), reduce.Options{
		NeutralLabel: cfg.NeutralLabel,
		TopBias:      cfg.TopBias,
	})

	out := make([]dataset.ReducedRecord, 0, len(records))
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		label, err := r.Select(rec.Labels)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		text := rec.Text
		if cfg.StripHTML {
			text = textclean.StripHTML(text)
		}
		out = append(out, dataset.ReducedRecord{Text: text, Label: label})

		if cfg.ProgressEvery > 0 && i%cfg.ProgressEvery == 0 {
			p.logger.Printf("  Processed %d/%d samples...", i, len(records))
		}
	}
	return out, nil
}

func (p *Pipeline) logDistribution(c *freq.Counter) {
	p.logger.Printf("Distribution:")
	for _, b := range c.Cardinality() {
		p.logger.Printf("  %d emotion(s): %d texts (%.1f%%)", b.K, b.Records, share(b.Records, c.Rows()))
	}

	p.logger.Printf("Top %d most frequent emotions:", p.cfg.TopN)
	for _, lc := range c.MostCommon(p.cfg.TopN) {
		p.logger.Printf("  %s: %d occurrences (%.1f%%)", lc.Label, lc.Count, share(lc.Count, c.Total()))
	}
}

func share(n, of int64) float64 {
	if of == 0 {
		return 0
	}
	return float64(n) / float64(of) * 100
}
