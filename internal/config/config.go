// Package config loads the small YAML document that configures the
// cmd/logprobe front door: worker-pool sizing, failure-handling policy,
// verbosity, and a log file path. The extraction core itself never reads a file —
// this package exists only to build an extract.Options value and hand it
// to the caller, the way the teacher's internal/config.Config builds an
// in-memory settings record from an optional YAML file with built-in
// defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"codenerd/logprobe/internal/extract"
)

// Config is the on-disk shape of logprobe.yaml. Every field mirrors an
// extract.Options knob or a front-door concern (worker count, verbosity,
// log file) that Options itself has no opinion about.
type Config struct {
	Workers int `yaml:"workers"`

	EnhancedErrors        bool `yaml:"enhanced_errors"`
	LogExtractionAttempts bool `yaml:"log_extraction_attempts"`
	LogExtractionFailures bool `yaml:"log_extraction_failures"`
	ContinueOnFailure     bool `yaml:"continue_on_failure"`
	CollectErrorStats     bool `yaml:"collect_error_stats"`

	Verbose bool `yaml:"verbose"`
	// LogFile is loaded but not used by cmd/logprobe; log output goes to
	// zap's production default destination (stderr).
	LogFile string `yaml:"log_file"`
}

// Default returns the built-in configuration used when no file is present
// or a field is left unset in one that is.
func Default() *Config {
	opts := extract.DefaultOptions()
	return &Config{
		Workers:               8,
		EnhancedErrors:        opts.EnhancedErrors,
		LogExtractionAttempts: opts.LogExtractionAttempts,
		LogExtractionFailures: opts.LogExtractionFailures,
		ContinueOnFailure:     opts.ContinueOnFailure,
		CollectErrorStats:     opts.CollectErrorStats,
	}
}

// Load reads path as YAML into a Default configuration. A missing file is
// not an error: Load returns the defaults unchanged, mirroring the
// teacher's "no config file yet" fallback.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Options builds the extract.Options value this configuration describes.
func (c *Config) Options() extract.Options {
	return extract.Options{
		EnhancedErrors:        c.EnhancedErrors,
		LogExtractionAttempts: c.LogExtractionAttempts,
		LogExtractionFailures: c.LogExtractionFailures,
		ContinueOnFailure:     c.ContinueOnFailure,
		CollectErrorStats:     c.CollectErrorStats,
		Workers:               c.Workers,
	}
}
