// Command emopalette writes the emotion color table as JSON and as a Go
// reference package.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cognicore/emoreduce/pkg/emoreduce/config"
	"github.com/cognicore/emoreduce/pkg/emoreduce/palette"
)

func main() {
	if err := run(os.Args[1:], log.Default()); err != nil {
		log.Fatalf("write palette: %v", err)
	}
}

func run(args []string, logger *log.Logger) error {
	fs := flag.NewFlagSet("emopalette", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		cfgPath = fs.String("config", config.DefaultPath, "Optional YAML config file")
		jsonOut = fs.String("json", "", "JSON mapping output path")
		refOut  = fs.String("reference", "", "Go reference source output path")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	full, err := config.LoadOrDefault(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg := full.Palette
	if *jsonOut != "" {
		cfg.JSONPath = *jsonOut
	}
	if *refOut != "" {
		cfg.ReferencePath = *refOut
	}

	var written []string
	if cfg.JSONPath != "" {
		if err := palette.WriteJSON(cfg.JSONPath); err != nil {
			return err
		}
		written = append(written, cfg.JSONPath)
	}
	if cfg.ReferencePath != "" {
		if err := palette.WriteReference(cfg.ReferencePath, cfg.Package); err != nil {
			return err
		}
		written = append(written, cfg.ReferencePath)
	}

	logger.Printf("Emotion-color mapping created")
	logger.Printf("Total emotions mapped: %d", palette.Len())
	for _, path := range written {
		logger.Printf("- %s", path)
	}
	logger.Printf("Color mapping preview:")
	for _, e := range palette.Entries() {
		logger.Printf("%15s: %s", e.Emotion, e.Hex)
	}
	return nil
}
