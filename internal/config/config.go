// Package config loads seqprep configuration from a YAML file, falling back
// to defaults when no file is present.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents seqprep configuration options
type Config struct {
	// InputTypes selects which input files a run expects (fastq, fasta, vcf, bam)
	InputTypes []string `yaml:"input_types"`

	// MinNumLines is the minimum line count a file must have to be enlisted
	// (0 = any non-empty file qualifies)
	MinNumLines int `yaml:"min_num_lines"`

	// ExclusionFile is the path to a file with one sample name per line to exclude
	ExclusionFile string `yaml:"exclusion_file"`

	// MetadataFile is the path to a per-sample metadata CSV (empty = probe the
	// conventional location inside the input directory)
	MetadataFile string `yaml:"metadata_file"`

	// OutputDir is the directory where sample sheet and audit trail are written
	OutputDir string `yaml:"output_dir"`

	// HistoryDB is the path to the discovery-run history database
	HistoryDB string `yaml:"history_db"`

	// LogLevel sets the logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		InputTypes:  []string{"fastq"},
		MinNumLines: 0,
		OutputDir:   "output",
		HistoryDB:   ".seqprep/history.db",
		LogLevel:    "info",
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration values for consistency
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}
	if c.MinNumLines < 0 {
		return fmt.Errorf("invalid min_num_lines %d: must be zero or positive", c.MinNumLines)
	}
	return nil
}
