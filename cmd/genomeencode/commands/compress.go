// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/bureau-foundation/genomeencode/cmd/genomeencode/cli"
	"github.com/bureau-foundation/genomeencode/lib/artifact"
	"github.com/bureau-foundation/genomeencode/lib/fasta"
	"github.com/bureau-foundation/genomeencode/lib/pipeline"
)

type compressParams struct {
	cli.JSONOutput
	commonParams
	pipelineParams
	Output  string `json:"output"  flag:"output,o" desc:"artifact path (only when the input holds a single record)"`
	Workers int    `json:"workers" flag:"workers"  desc:"records compressed concurrently (0: use config, then one per CPU)"`
	Force   bool   `json:"force"   flag:"force,f"  desc:"overwrite existing artifacts"`
}

// compressResult is one row of compress output.
type compressResult struct {
	Input  string         `json:"input"`
	Record string         `json:"record"`
	Output string         `json:"output"`
	Stats  pipeline.Stats `json:"stats"`
}

// compressJob pairs a FASTA record with where its artifact goes.
type compressJob struct {
	input  string
	record fasta.Record
	output string
}

func compressCommand() *cli.Command {
	var params compressParams

	return &cli.Command{
		Name:    "compress",
		Summary: "Compress FASTA records into .genome artifacts",
		Description: `Compress every record in one or more FASTA files.

Input may be plain, gzip, or zstd compressed; the format is detected
from the leading bytes. Each record becomes one artifact. A file with a
single record produces <name>.genome next to the input (or in
paths.output_dir); a multi-record file produces <name>.<record>.genome
per record. The record header is stored in the artifact and restored by
decompress.

Records are compressed concurrently. A record with a symbol outside the
configured alphabet fails on its own; the others are still written.`,
		Usage: "genomeencode compress [flags] <file.fa>...",
		Examples: []cli.Example{
			{
				Description: "Compress a chromosome",
				Command:     "genomeencode compress chr21.fa",
			},
			{
				Description: "Huffman coding only, no payload codec",
				Command:     "genomeencode compress --transform none --payload none chr21.fa",
			},
			{
				Description: "Compress a multi-record assembly on 8 workers",
				Command:     "genomeencode compress --workers 8 assembly.fa.zst",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) == 0 {
				return cli.Validation("at least one FASTA file is required")
			}
			return runCompress(ctx, args, &params)
		},
	}
}

func runCompress(ctx context.Context, inputs []string, params *compressParams) error {
	cfg, err := params.loadConfig()
	if err != nil {
		return err
	}
	if err := params.pipelineParams.apply(cfg); err != nil {
		return err
	}
	logger := params.logger(cfg, "compress")
	compressor, err := newCompressor(cfg, logger)
	if err != nil {
		return err
	}

	var jobs []compressJob
	for _, input := range inputs {
		records, err := fasta.ReadFile(input)
		if err != nil {
			return classify(input, err)
		}
		if len(records) == 0 {
			return cli.Validation("%s: no FASTA records", input)
		}
		for index, record := range records {
			jobs = append(jobs, compressJob{
				input:  input,
				record: record,
				output: artifactPath(cfg, input, record, index, len(records)),
			})
		}
	}

	if params.Output != "" {
		if len(jobs) != 1 {
			return cli.Validation("--output requires exactly one input record, got %d", len(jobs))
		}
		jobs[0].output = params.Output
	}

	seen := make(map[string]string, len(jobs))
	for _, job := range jobs {
		if previous, duplicate := seen[job.output]; duplicate {
			return cli.Validation("records %q and %q would both be written to %s", previous, job.record.Name(), job.output)
		}
		seen[job.output] = job.record.Name()
		if err := checkWritable(job.output, params.Force); err != nil {
			return err
		}
	}
	if err := cfg.EnsurePaths(); err != nil {
		return cli.Internal("%w", err)
	}

	batch := make([]pipeline.Input, len(jobs))
	for i, job := range jobs {
		batch[i] = pipeline.Input{Name: job.record.Header, Sequence: job.record.Sequence}
	}

	workers := params.Workers
	if workers == 0 {
		workers = cfg.Batch.Workers
	}

	start := time.Now()
	results, err := compressor.CompressBatch(ctx, batch, workers)
	if err != nil {
		return cli.Internal("compress: %w", err)
	}

	var rows []compressResult
	var failures []error
	var totalBases, totalBytes int
	for i, result := range results {
		job := jobs[i]
		subject := fmt.Sprintf("%s record %q", job.input, job.record.Name())
		if result.Err != nil {
			logger.Error("record failed", "input", job.input, "record", job.record.Name(), "error", result.Err)
			failures = append(failures, classify(subject, result.Err))
			continue
		}
		if err := artifact.WriteFile(job.output, result.Artifact); err != nil {
			failures = append(failures, cli.Internal("%s: %w", subject, err))
			continue
		}
		stats := pipeline.StatsOf(result.Artifact)
		totalBases += stats.OriginalBytes
		totalBytes += stats.ArtifactBytes
		logger.Info("record compressed",
			"record", job.record.Name(),
			"output", job.output,
			"bases", stats.OriginalBytes,
			"ratio", stats.Ratio,
		)
		rows = append(rows, compressResult{
			Input:  job.input,
			Record: job.record.Name(),
			Output: job.output,
			Stats:  stats,
		})
	}
	elapsed := time.Since(start)

	if done, err := params.EmitJSON(rows); done {
		if err != nil {
			return err
		}
		return errors.Join(failures...)
	}

	if len(rows) > 0 {
		writer := tabwriter.NewWriter(cli.Stdout, 2, 0, 2, ' ', 0)
		fmt.Fprintln(writer, "RECORD\tBASES\tBYTES\tRATIO\tBITS/BASE\tPAYLOAD\tOUTPUT")
		for _, row := range rows {
			fmt.Fprintf(writer, "%s\t%d\t%d\t%.3f\t%.3f\t%s\t%s\n",
				row.Record, row.Stats.OriginalBytes, row.Stats.ArtifactBytes,
				row.Stats.Ratio, row.Stats.BitsPerBase, row.Stats.PayloadCompression, row.Output)
		}
		writer.Flush()
		fmt.Fprintf(cli.Stdout, "\ncompressed %d record(s), %d bases into %d bytes in %s\n",
			len(rows), totalBases, totalBytes, elapsed.Round(time.Millisecond))
	}

	return errors.Join(failures...)
}
