// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bureau-foundation/genomeencode/cmd/genomeencode/cli"
	"github.com/bureau-foundation/genomeencode/lib/artifact"
	"github.com/bureau-foundation/genomeencode/lib/bwt"
	"github.com/bureau-foundation/genomeencode/lib/config"
	"github.com/bureau-foundation/genomeencode/lib/fasta"
	"github.com/bureau-foundation/genomeencode/lib/pipeline"
	"github.com/bureau-foundation/genomeencode/lib/sequence"
)

const (
	artifactExtension = ".genome"
	fastaExtension    = ".fa"
)

// commonParams are the flags every data command accepts.
type commonParams struct {
	ConfigPath string `json:"-" flag:"config" desc:"config file (YAML, or JSON with comments); default $GENOMEENCODE_CONFIG"`
	Verbose    bool   `json:"-" flag:"verbose,v" desc:"log per-stage debug output"`
}

// loadConfig returns the validated configuration: the --config file,
// else the GENOMEENCODE_CONFIG file, else the defaults.
func (p *commonParams) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if p.ConfigPath != "" {
		cfg, err = config.LoadFile(p.ConfigPath)
	} else {
		cfg, err = config.Load()
		if errors.Is(err, config.ErrNoConfig) {
			cfg, err = config.Default(), nil
		}
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cli.NotFound("loading config: %w", err)
		}
		return nil, cli.Validation("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid config: %w", err)
	}
	return cfg, nil
}

// logger builds the command logger from the config's level and format.
// --verbose lowers the level to debug.
func (p *commonParams) logger(cfg *config.Config, command string) *slog.Logger {
	level := cfg.SlogLevel()
	if p.Verbose {
		level = slog.LevelDebug
	}
	return cli.NewCommandLogger(level, cfg.Log.Format).With("command", command)
}

// pipelineParams override the compression section of the config.
// Empty values leave the config untouched.
type pipelineParams struct {
	Payload   string `json:"payload"   flag:"payload"   desc:"payload codec: none, lz4, zstd, or auto (overrides config)"`
	Alphabet  string `json:"alphabet"  flag:"alphabet"  desc:"input alphabet: iupac, acgt, or acgtn (overrides config)"`
	Transform string `json:"transform" flag:"transform" desc:"transform before coding: bwt or none (overrides config)"`
}

func (p *pipelineParams) apply(cfg *config.Config) error {
	if p.Payload != "" {
		cfg.Compression.Payload = p.Payload
	}
	if p.Alphabet != "" {
		cfg.Compression.Alphabet = p.Alphabet
	}
	if p.Transform != "" {
		cfg.Compression.Transform = p.Transform
	}
	if err := cfg.Validate(); err != nil {
		return cli.Validation("%w", err)
	}
	return nil
}

// newCompressor builds a pipeline from the compression config.
func newCompressor(cfg *config.Config, logger *slog.Logger) (*pipeline.Compressor, error) {
	alphabet, err := sequence.ParseAlphabet(cfg.Compression.Alphabet)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	transform, err := artifact.ParseTransform(cfg.Compression.Transform)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	payload, err := artifact.ParseCompressionTag(cfg.Compression.Payload)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	compressor, err := pipeline.New(pipeline.Options{
		Logger:             logger,
		Alphabet:           alphabet,
		FoldCase:           cfg.Compression.FoldCase,
		Transform:          transform,
		PayloadCompression: payload,
	})
	if err != nil {
		return nil, cli.Internal("%w", err)
	}
	return compressor, nil
}

// classify wraps err in the CLI error category matching its cause.
func classify(subject string, err error) *cli.ToolError {
	var parseError *fasta.ParseError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cli.NotFound("%s: %w", subject, err)
	case errors.Is(err, artifact.ErrCorrupt):
		return cli.Corrupt("%s: %w", subject, err)
	case errors.Is(err, sequence.ErrAlphabetViolation):
		return cli.Validation("%s: %w", subject, err).
			WithHint("Choose a wider alphabet with --alphabet, or enable fold_case for soft-masked input.")
	case errors.Is(err, bwt.ErrTooLong), errors.Is(err, fasta.ErrNotSingle), errors.As(err, &parseError):
		return cli.Validation("%s: %w", subject, err)
	default:
		return cli.Internal("%s: %w", subject, err)
	}
}

// checkWritable returns a conflict error if path exists and force is
// not set.
func checkWritable(path string, force bool) error {
	if force {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return cli.Conflict("%s already exists", path).WithHint("Pass --force to overwrite it.")
	} else if !errors.Is(err, fs.ErrNotExist) {
		return cli.Internal("checking %s: %w", path, err)
	}
	return nil
}

// fileLabel turns a record name into something safe to embed in a
// file name.
func fileLabel(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
}

// artifactPath returns where the record at index of a file holding
// total records is written. A single-record file maps to one artifact
// named after the file; multi-record files add the record name.
func artifactPath(cfg *config.Config, input string, record fasta.Record, index, total int) string {
	if total == 1 {
		return cfg.OutputPath(input, artifactExtension)
	}
	label := fileLabel(record.Name())
	if label == "" {
		label = fmt.Sprintf("record%d", index+1)
	}
	return cfg.OutputPath(input, "."+label+artifactExtension)
}

// recordHeader returns the FASTA header for a decompressed artifact:
// its stored name, else the artifact's file name without extension.
func recordHeader(a *artifact.Artifact, path string) string {
	if a.Name != "" {
		return a.Name
	}
	return strings.TrimSuffix(filepath.Base(path), artifactExtension)
}
