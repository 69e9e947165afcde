// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/bureau-foundation/genomeencode/cmd/genomeencode/cli"
	"github.com/bureau-foundation/genomeencode/lib/artifact"
	"github.com/bureau-foundation/genomeencode/lib/codec"
	"github.com/bureau-foundation/genomeencode/lib/pipeline"
)

type inspectParams struct {
	cli.JSONOutput
	Diag bool `json:"diag" flag:"diag" desc:"include the metadata block in CBOR diagnostic notation"`
}

// inspectReport describes one artifact.
type inspectReport struct {
	Path           string         `json:"path"`
	Name           string         `json:"name,omitempty"`
	Stats          pipeline.Stats `json:"stats"`
	PrimaryIndex   int            `json:"primary_index"`
	PaddingBits    int            `json:"padding_bits"`
	PayloadRawSize int            `json:"payload_raw_size"`
	Codes          []codeEntry    `json:"codes"`
	Diagnostic     string         `json:"diagnostic,omitempty"`
}

// codeEntry is one row of the code table.
type codeEntry struct {
	Symbol string `json:"symbol"`
	Length uint8  `json:"length"`
	Code   string `json:"code"`
}

func inspectCommand() *cli.Command {
	var params inspectParams

	return &cli.Command{
		Name:    "inspect",
		Summary: "Show statistics and the code table of an artifact",
		Description: `Print what an artifact holds: lengths, compression ratio, bits per
base, the transform and payload codec used, the checksum, and the
canonical Huffman code assigned to each symbol.

inspect parses and validates the container but does not decode the
payload; use verify to check that an artifact reproduces its sequence.`,
		Usage: "genomeencode inspect [flags] <file.genome>",
		Examples: []cli.Example{
			{
				Description: "Summarise an artifact",
				Command:     "genomeencode inspect chr21.genome",
			},
			{
				Description: "Dump the raw metadata block",
				Command:     "genomeencode inspect --diag chr21.genome",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("inspect takes exactly one artifact, got %d", len(args))
			}
			return runInspect(args[0], &params)
		},
	}
}

func runInspect(path string, params *inspectParams) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return classify(path, err)
	}
	decoded, err := artifact.Unmarshal(data)
	if err != nil {
		return classify(path, err)
	}
	table, err := decoded.Table()
	if err != nil {
		return classify(path, err)
	}

	report := inspectReport{
		Path:           path,
		Name:           decoded.Name,
		Stats:          pipeline.StatsOf(decoded),
		PrimaryIndex:   decoded.PrimaryIndex,
		PaddingBits:    decoded.PaddingBits,
		PayloadRawSize: decoded.PayloadRawSize,
		Codes:          []codeEntry{},
	}
	for _, entry := range table.Lengths() {
		code, _ := table.Code(entry.Symbol)
		report.Codes = append(report.Codes, codeEntry{
			Symbol: string(rune(entry.Symbol)),
			Length: entry.Length,
			Code:   strings.Trim(code.String(), `"`),
		})
	}
	if params.Diag {
		metadata, err := artifact.MetadataBytes(data)
		if err != nil {
			return classify(path, err)
		}
		report.Diagnostic, err = codec.Diagnose(metadata)
		if err != nil {
			return cli.Internal("%s: diagnosing metadata: %w", path, err)
		}
	}

	if done, err := params.EmitJSON(report); done {
		return err
	}

	writer := tabwriter.NewWriter(cli.Stdout, 2, 0, 2, ' ', 0)
	fmt.Fprintf(writer, "Artifact:\t%s\n", report.Path)
	if report.Name != "" {
		fmt.Fprintf(writer, "Record:\t%s\n", report.Name)
	}
	fmt.Fprintf(writer, "Original:\t%d bases\n", report.Stats.OriginalBytes)
	fmt.Fprintf(writer, "Artifact size:\t%d bytes (payload %d)\n", report.Stats.ArtifactBytes, report.Stats.PayloadBytes)
	fmt.Fprintf(writer, "Ratio:\t%.3f\n", report.Stats.Ratio)
	fmt.Fprintf(writer, "Bits per base:\t%.3f\n", report.Stats.BitsPerBase)
	fmt.Fprintf(writer, "Transform:\t%s (primary index %d)\n", report.Stats.Transform, report.PrimaryIndex)
	fmt.Fprintf(writer, "Payload codec:\t%s (%d raw bytes, %d padding bits)\n",
		report.Stats.PayloadCompression, report.PayloadRawSize, report.PaddingBits)
	fmt.Fprintf(writer, "Checksum:\t%s\n", report.Stats.Checksum)
	writer.Flush()

	if len(report.Codes) > 0 {
		fmt.Fprintf(cli.Stdout, "\nCodes (%d symbols):\n", len(report.Codes))
		writer = tabwriter.NewWriter(cli.Stdout, 2, 0, 2, ' ', 0)
		fmt.Fprintln(writer, "  SYMBOL\tLENGTH\tCODE")
		for _, entry := range report.Codes {
			fmt.Fprintf(writer, "  %s\t%d\t%s\n", entry.Symbol, entry.Length, entry.Code)
		}
		writer.Flush()
	}

	if report.Diagnostic != "" {
		fmt.Fprintf(cli.Stdout, "\nMetadata:\n%s\n", report.Diagnostic)
	}
	return nil
}
