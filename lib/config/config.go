// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "GENOMEENCODE_CONFIG"

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for interactive use on a workstation.
	Development Environment = "development"
	// Staging is for pre-production pipeline runs.
	Staging Environment = "staging"
	// Production is for unattended batch runs.
	Production Environment = "production"
)

// Accepted values for enumerated fields.
var (
	payloadValues   = []string{"none", "lz4", "zstd", "auto"}
	alphabetValues  = []string{"iupac", "acgt", "acgtn"}
	transformValues = []string{"bwt", "none"}
	levelValues     = []string{"debug", "info", "warn", "error"}
	formatValues    = []string{"auto", "text", "json"}
)

// Config is the master configuration for genomeencode.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// Compression configures the compression pipeline.
	Compression CompressionConfig `yaml:"compression"`

	// Batch configures multi-record runs.
	Batch BatchConfig `yaml:"batch"`

	// Paths configures file locations.
	Paths PathsConfig `yaml:"paths"`

	// Log configures diagnostic output.
	Log LogConfig `yaml:"log"`

	// EnvironmentOverrides contains per-environment overrides.
	// These are applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Compression *CompressionConfig `yaml:"compression,omitempty"`
	Batch       *BatchConfig       `yaml:"batch,omitempty"`
	Paths       *PathsConfig       `yaml:"paths,omitempty"`
	Log         *LogConfig         `yaml:"log,omitempty"`
}

// CompressionConfig configures the compression pipeline.
type CompressionConfig struct {
	// Payload is the second-stage codec for the packed Huffman
	// payload: none, lz4, zstd, or auto.
	// Default: auto
	Payload string `yaml:"payload"`

	// Alphabet is the symbol set input must use: iupac, acgt, or acgtn.
	// Default: iupac
	Alphabet string `yaml:"alphabet"`

	// Transform is the permutation applied before Huffman coding:
	// bwt or none.
	// Default: bwt
	Transform string `yaml:"transform"`

	// FoldCase upper-cases soft-masked residues before validation.
	// Default: true
	FoldCase bool `yaml:"fold_case"`
}

// BatchConfig configures multi-record runs.
type BatchConfig struct {
	// Workers is the number of records compressed concurrently.
	// Zero means one per CPU.
	Workers int `yaml:"workers"`
}

// PathsConfig configures file locations.
type PathsConfig struct {
	// OutputDir is where compress and decompress write their results
	// when no explicit output path is given. Empty means next to the
	// input file.
	OutputDir string `yaml:"output_dir"`
}

// LogConfig configures diagnostic output.
type LogConfig struct {
	// Level is the minimum level logged: debug, info, warn, or error.
	// Default: info
	Level string `yaml:"level"`

	// Format is text, json, or auto (text on a terminal, JSON
	// otherwise).
	// Default: auto
	Format string `yaml:"format"`
}

// Default returns the default configuration. Unlike daemon
// configuration, a genomeencode config file is optional: the CLI runs
// on these defaults when neither --config nor GENOMEENCODE_CONFIG is
// given.
func Default() *Config {
	return &Config{
		Environment: Development,
		Compression: CompressionConfig{
			Payload:   "auto",
			Alphabet:  "iupac",
			Transform: "bwt",
			FoldCase:  true,
		},
		Batch: BatchConfig{
			Workers: 0,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// ErrNoConfig is returned by [Load] when GENOMEENCODE_CONFIG is unset.
var ErrNoConfig = errors.New(EnvironmentVariable + " environment variable not set")

// Load loads configuration from the file named by GENOMEENCODE_CONFIG.
// Returns [ErrNoConfig] if the variable is unset; callers that can run
// on defaults check for it with errors.Is.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, ErrNoConfig
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. Files ending
// in .json or .jsonc are read as JSON with comments; anything else is
// YAML.
//
// The config file is the single source of truth. Environment variables
// do not override config values; the only expansion performed is
// ${VAR:-default} in path fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// JSON is a subset of YAML, so once comments and trailing commas
	// are stripped the YAML decoder handles it with the same tags.
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		// Production defaults: machine-readable logs.
		if overrides == nil {
			overrides = &ConfigOverrides{
				Log: &LogConfig{Format: "json"},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Compression != nil {
		if overrides.Compression.Payload != "" {
			c.Compression.Payload = overrides.Compression.Payload
		}
		if overrides.Compression.Alphabet != "" {
			c.Compression.Alphabet = overrides.Compression.Alphabet
		}
		if overrides.Compression.Transform != "" {
			c.Compression.Transform = overrides.Compression.Transform
		}
		// FoldCase is a bool, so we always apply it from overrides.
		c.Compression.FoldCase = overrides.Compression.FoldCase
	}

	if overrides.Batch != nil && overrides.Batch.Workers != 0 {
		c.Batch.Workers = overrides.Batch.Workers
	}

	if overrides.Paths != nil && overrides.Paths.OutputDir != "" {
		c.Paths.OutputDir = overrides.Paths.OutputDir
	}

	if overrides.Log != nil {
		if overrides.Log.Level != "" {
			c.Log.Level = overrides.Log.Level
		}
		if overrides.Log.Format != "" {
			c.Log.Format = overrides.Log.Format
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Paths.OutputDir = expandVars(c.Paths.OutputDir, vars)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	for _, field := range []struct {
		name  string
		value string
		valid []string
	}{
		{"compression.payload", c.Compression.Payload, payloadValues},
		{"compression.alphabet", strings.ToLower(c.Compression.Alphabet), alphabetValues},
		{"compression.transform", c.Compression.Transform, transformValues},
		{"log.level", c.Log.Level, levelValues},
		{"log.format", c.Log.Format, formatValues},
	} {
		if !slices.Contains(field.valid, field.value) {
			errs = append(errs, fmt.Errorf("%s must be one of: %v (got %q)", field.name, field.valid, field.value))
		}
	}

	if c.Batch.Workers < 0 {
		errs = append(errs, fmt.Errorf("batch.workers must not be negative (got %d)", c.Batch.Workers))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// SlogLevel returns Log.Level as a slog.Level. Validate must have
// accepted the config.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// OutputPath returns where a result derived from inputPath should be
// written: in Paths.OutputDir when set, else next to the input, with
// the input's extension replaced by extension.
func (c *Config) OutputPath(inputPath, extension string) string {
	base := filepath.Base(inputPath)
	for _, suffix := range []string{".gz", ".zst", ".genome", ".fasta", ".fa", ".fna"} {
		base = strings.TrimSuffix(base, suffix)
	}
	directory := filepath.Dir(inputPath)
	if c.Paths.OutputDir != "" {
		directory = c.Paths.OutputDir
	}
	return filepath.Join(directory, base+extension)
}

// EnsurePaths creates the configured output directory if it does not
// exist.
func (c *Config) EnsurePaths() error {
	if c.Paths.OutputDir == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.OutputDir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", c.Paths.OutputDir, err)
	}
	return nil
}
