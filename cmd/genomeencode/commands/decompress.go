// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/bureau-foundation/genomeencode/cmd/genomeencode/cli"
	"github.com/bureau-foundation/genomeencode/lib/artifact"
	"github.com/bureau-foundation/genomeencode/lib/fasta"
	"github.com/bureau-foundation/genomeencode/lib/pipeline"
)

type decompressParams struct {
	commonParams
	Output    string `json:"output"     flag:"output,o"   desc:"FASTA path for all records, or - for stdout"`
	LineWidth int    `json:"line_width" flag:"line-width" desc:"residues per FASTA line" default:"60"`
	Workers   int    `json:"workers"    flag:"workers"    desc:"artifacts decompressed concurrently (0: use config, then one per CPU)"`
	Force     bool   `json:"force"      flag:"force,f"    desc:"overwrite existing FASTA files"`
}

func decompressCommand() *cli.Command {
	var params decompressParams

	return &cli.Command{
		Name:    "decompress",
		Summary: "Restore FASTA records from .genome artifacts",
		Description: `Decompress artifacts back to FASTA.

Each artifact is structurally validated, decoded, inverted, and checked
against its stored checksum before anything is written; a damaged
artifact is reported and produces no output. By default each artifact
is written to <name>.fa next to it (or in paths.output_dir). With
--output, all records go to one file, in argument order.`,
		Usage: "genomeencode decompress [flags] <file.genome>...",
		Examples: []cli.Example{
			{
				Description: "Restore a chromosome",
				Command:     "genomeencode decompress chr21.genome",
			},
			{
				Description: "Stream several artifacts as one FASTA",
				Command:     "genomeencode decompress -o - chr*.genome | grep -c '>'",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) == 0 {
				return cli.Validation("at least one artifact is required")
			}
			return runDecompress(ctx, args, &params)
		},
	}
}

func runDecompress(ctx context.Context, paths []string, params *decompressParams) error {
	cfg, err := params.loadConfig()
	if err != nil {
		return err
	}
	logger := params.logger(cfg, "decompress")
	compressor, err := newCompressor(cfg, logger)
	if err != nil {
		return err
	}

	encoded := make([]pipeline.Encoded, len(paths))
	for i, path := range paths {
		decoded, err := artifact.ReadFile(path)
		if err != nil {
			return classify(path, err)
		}
		encoded[i] = pipeline.Encoded{Name: path, Artifact: decoded}
	}

	outputs := make([]string, len(paths))
	for i, path := range paths {
		outputs[i] = cfg.OutputPath(path, fastaExtension)
	}
	switch params.Output {
	case "":
		for _, output := range outputs {
			if err := checkWritable(output, params.Force); err != nil {
				return err
			}
		}
		if err := cfg.EnsurePaths(); err != nil {
			return cli.Internal("%w", err)
		}
	case "-":
	default:
		if err := checkWritable(params.Output, params.Force); err != nil {
			return err
		}
	}

	workers := params.Workers
	if workers == 0 {
		workers = cfg.Batch.Workers
	}
	results, err := compressor.DecompressBatch(ctx, encoded, workers)
	if err != nil {
		return cli.Internal("decompress: %w", err)
	}

	records := make([]fasta.Record, 0, len(results))
	var failures []error
	for i, result := range results {
		if result.Err != nil {
			logger.Error("artifact failed", "artifact", paths[i], "error", result.Err)
			failures = append(failures, classify(paths[i], result.Err))
			continue
		}
		record := fasta.Record{
			Header:   recordHeader(encoded[i].Artifact, paths[i]),
			Sequence: result.Sequence,
		}
		if params.Output != "" {
			records = append(records, record)
			continue
		}
		if err := writeFASTA(outputs[i], []fasta.Record{record}, params.LineWidth); err != nil {
			failures = append(failures, cli.Internal("%s: %w", outputs[i], err))
			continue
		}
		logger.Info("artifact decompressed", "artifact", paths[i], "output", outputs[i], "bases", len(result.Sequence))
	}

	if len(failures) > 0 && params.Output != "" {
		// A combined output is all-or-nothing.
		return errors.Join(failures...)
	}
	switch params.Output {
	case "":
	case "-":
		if err := fasta.Write(cli.Stdout, records, params.LineWidth); err != nil {
			return cli.Internal("writing FASTA: %w", err)
		}
	default:
		if err := writeFASTA(params.Output, records, params.LineWidth); err != nil {
			return cli.Internal("%s: %w", params.Output, err)
		}
		logger.Info("artifacts decompressed", "count", len(records), "output", params.Output)
	}
	return errors.Join(failures...)
}

// writeFASTA writes records to path, removing a partially written file
// on failure.
func writeFASTA(path string, records []fasta.Record, lineWidth int) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(path)
		}
	}()
	if err := fasta.Write(file, records, lineWidth); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing: %w", err)
	}
	return nil
}
