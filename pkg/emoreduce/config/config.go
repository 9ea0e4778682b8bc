package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/emoreduce/pkg/emoreduce/internalerr"
	"github.com/cognicore/emoreduce/pkg/emoreduce/reduce"
)

// DefaultPath is where the commands look for an optional config file
const DefaultPath = "configs/emoreduce.yaml"

// Config holds every tunable of a run. Defaults reproduce the long-standing
// fixed paths and constants.
type Config struct {
	Reduce  Reduce  `yaml:"reduce"`
	Palette Palette `yaml:"palette"`
}

// Reduce configures the single-label conversion
type Reduce struct {
	Input         string  `yaml:"input"`
	Output        string  `yaml:"output"`
	Seed          int64   `yaml:"seed"`
	NeutralLabel  string  `yaml:"neutral_label"`
	TopBias       float64 `yaml:"top_bias"`
	ProgressEvery int     `yaml:"progress_every"`
	TopN          int     `yaml:"top_n"`
	StripHTML     bool    `yaml:"strip_html"`
	ReportPath    string  `yaml:"report_path"` // empty disables the JSON report
	StorePath     string  `yaml:"store_path"`  // empty disables the run ledger
}

// Palette configures the color table artifacts
type Palette struct {
	JSONPath      string `yaml:"json_path"`
	ReferencePath string `yaml:"reference_path"`
	Package       string `yaml:"package"`
}

// Default returns the configuration used when no file is present
func Default() Config {
	return Config{
		Reduce: Reduce{
			Input:         "data/goemotions_text_label.csv",
			Output:        "data/goemotions_single_label.csv",
			Seed:          reduce.DefaultSeed,
			NeutralLabel:  reduce.DefaultNeutralLabel,
			TopBias:       reduce.DefaultTopBias,
			ProgressEvery: 5000,
			TopN:          10,
		},
		Palette: Palette{
			JSONPath:      "data/emotion_color_mapping.json",
			ReferencePath: "emotioncolors/emotion_colors.go",
			Package:       "emotioncolors",
		},
	}
}

// Load reads a YAML config file over the defaults
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks that the config describes a runnable job
func (c Config) Validate() error {
	r := c.Reduce
	switch {
	case r.Input == "":
		return fmt.Errorf("%w: reduce.input is empty", internalerr.ErrInvalidConfig)
	case r.Output == "":
		return fmt.Errorf("%w: reduce.output is empty", internalerr.ErrInvalidConfig)
	case r.Input == r.Output:
		return fmt.Errorf("%w: reduce.input and reduce.output are the same file", internalerr.ErrInvalidConfig)
	case r.NeutralLabel == "":
		return fmt.Errorf("%w: reduce.neutral_label is empty", internalerr.ErrInvalidConfig)
	case r.TopBias <= 0 || r.TopBias > 1:
		return fmt.Errorf("%w: reduce.top_bias must be in (0, 1], got %v", internalerr.ErrInvalidConfig, r.TopBias)
	case r.ProgressEvery < 0:
		return fmt.Errorf("%w: reduce.progress_every must not be negative", internalerr.ErrInvalidConfig)
	case r.TopN < 0:
		return fmt.Errorf("%w: reduce.top_n must not be negative", internalerr.ErrInvalidConfig)
	}
	if c.Palette.JSONPath == "" && c.Palette.ReferencePath == "" {
		return fmt.Errorf("%w: palette has no outputs", internalerr.ErrInvalidConfig)
	}
	return nil
}
