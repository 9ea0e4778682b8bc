// Command emoreduce converts a multilabel emotion dataset into a
// single-label dataset. With no arguments it reads
// data/goemotions_text_label.csv and writes data/goemotions_single_label.csv.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cognicore/emoreduce/pkg/emoreduce/config"
	"github.com/cognicore/emoreduce/pkg/emoreduce/pipeline"
	"github.com/cognicore/emoreduce/pkg/emoreduce/report"
	"github.com/cognicore/emoreduce/pkg/emoreduce/store"
	"github.com/cognicore/emoreduce/pkg/emoreduce/store/sqlite"
)

func main() {
	if _, err := run(context.Background(), os.Args[1:], log.Default()); err != nil {
		log.Fatalf("Dataset creation failed: %v", err)
	}
	log.Printf("Single-label dataset creation complete")
}

func run(ctx context.Context, args []string, logger *log.Logger) (report.Summary, error) {
	cfg, err := parseConfig(args, io.Discard)
	if err != nil {
		return report.Summary{}, err
	}

	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	if cfg.StorePath != "" {
		opts = append(opts, pipeline.WithStoreOpener(func(ctx context.Context) (store.Store, error) {
			return sqlite.OpenSQLite(ctx, cfg.StorePath)
		}))
	}

	return pipeline.New(cfg, opts...).Run(ctx)
}

// parseConfig loads the optional config file and applies explicit flags on top
func parseConfig(args []string, output io.Writer) (config.Reduce, error) {
	fs := flag.NewFlagSet("emoreduce", flag.ContinueOnError)
	fs.SetOutput(output)
	var (
		cfgPath   = fs.String("config", config.DefaultPath, "Optional YAML config file")
		input     = fs.String("input", "", "Input CSV with text and label columns")
		out       = fs.String("output", "", "Output CSV path")
		seed      = fs.Int64("seed", 0, "Random seed")
		stripHTML = fs.Bool("strip-html", false, "Strip HTML markup from text")
		reportOut = fs.String("report", "", "Optional JSON report path")
		storePath = fs.String("store", "", "Optional SQLite run ledger path")
	)
	if err := fs.Parse(args); err != nil {
		return config.Reduce{}, err
	}

	full, err := config.LoadOrDefault(*cfgPath)
	if err != nil {
		return config.Reduce{}, fmt.Errorf("load config: %w", err)
	}
	cfg := full.Reduce

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input = *input
		case "output":
			cfg.Output = *out
		case "seed":
			cfg.Seed = *seed
		case "strip-html":
			cfg.StripHTML = *stripHTML
		case "report":
			cfg.ReportPath = *reportOut
		case "store":
			cfg.StorePath = *storePath
		}
	})

	full.Reduce = cfg
	if err := full.Validate(); err != nil {
		return config.Reduce{}, err
	}
	return cfg, nil
}
