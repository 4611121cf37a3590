// Package config parses and validates the CLI's batch-decode config file.
//
// Grounded on bobbydeveaux-starbucks-mugs/agent/internal/config: a
// Parse([]byte) (*Config, error) entrypoint built on gopkg.in/yaml.v3,
// a package-level Validate that returns every problem found instead of
// stopping at the first, and defaulting applied after unmarshal rather
// than via struct tags.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// BatchConfig controls the CLI's multi-file decode mode (SPEC_FULL.md §9.2).
type BatchConfig struct {
	OutputDir       string        `yaml:"output_dir"`
	JSONIndent      string        `yaml:"json_indent"`
	Concurrency     int           `yaml:"concurrency"`
	ContinueOnError bool          `yaml:"continue_on_error"`
	Timeout         time.Duration `yaml:"timeout"`
}

func defaults() BatchConfig {
	return BatchConfig{
		OutputDir:       ".",
		JSONIndent:      "  ",
		Concurrency:     4,
		ContinueOnError: true,
		Timeout:         30 * time.Second,
	}
}

// Parse decodes YAML bytes into a validated BatchConfig, applying
// defaults for anything left unset.
func Parse(data []byte) (*BatchConfig, error) {
	cfg := defaults()

	if len(data) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse batch config: %w", err)
		}
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, fmt.Errorf("invalid batch config: %v", errs)
	}
	return &cfg, nil
}

// ParseFile reads path and parses it as a BatchConfig.
func ParseFile(path string) (*BatchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch config: %w", err)
	}
	return Parse(data)
}

// Validate returns every validation problem found in cfg, rather than
// stopping at the first.
func Validate(cfg *BatchConfig) []string {
	var errs []string

	if cfg.OutputDir == "" {
		errs = append(errs, "output_dir must not be empty")
	}
	if cfg.Concurrency <= 0 {
		errs = append(errs, "concurrency must be positive")
	}
	if cfg.Timeout <= 0 {
		errs = append(errs, "timeout must be positive")
	}
	return errs
}
