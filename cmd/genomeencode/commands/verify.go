// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/genomeencode/cmd/genomeencode/cli"
	"github.com/bureau-foundation/genomeencode/lib/artifact"
	"github.com/bureau-foundation/genomeencode/lib/fasta"
	"github.com/bureau-foundation/genomeencode/lib/sequence"
)

type verifyParams struct {
	cli.JSONOutput
	commonParams
	Against string `json:"against" flag:"against" desc:"FASTA file the artifacts must reproduce, matched by record header"`
}

// verifyResult is the outcome for one artifact.
type verifyResult struct {
	Artifact string `json:"artifact"`
	Record   string `json:"record,omitempty"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
}

func verifyCommand() *cli.Command {
	var params verifyParams

	return &cli.Command{
		Name:    "verify",
		Summary: "Check that artifacts decompress intact",
		Description: `Decompress each artifact and check the result against the checksum it
carries. With --against, also compare each reconstructed sequence with
the FASTA record of the same header (or the only record, when the file
holds one), after applying the configured case folding.

Prints one line per artifact and exits 1 if any artifact fails.`,
		Usage: "genomeencode verify [flags] <file.genome>...",
		Examples: []cli.Example{
			{
				Description: "Check artifacts are intact",
				Command:     "genomeencode verify *.genome",
			},
			{
				Description: "Check an artifact against its source",
				Command:     "genomeencode verify --against chr21.fa chr21.genome",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) == 0 {
				return cli.Validation("at least one artifact is required")
			}
			return runVerify(args, &params)
		},
	}
}

func runVerify(paths []string, params *verifyParams) error {
	cfg, err := params.loadConfig()
	if err != nil {
		return err
	}
	logger := params.logger(cfg, "verify")
	compressor, err := newCompressor(cfg, logger)
	if err != nil {
		return err
	}
	alphabet, err := sequence.ParseAlphabet(cfg.Compression.Alphabet)
	if err != nil {
		return cli.Validation("%w", err)
	}

	var reference []fasta.Record
	if params.Against != "" {
		reference, err = fasta.ReadFile(params.Against)
		if err != nil {
			return classify(params.Against, err)
		}
	}

	results := make([]verifyResult, 0, len(paths))
	failed := 0
	for _, path := range paths {
		result := verifyResult{Artifact: path}
		err := verifyOne(path, &result, compressor.Decompress, reference, func(seq []byte) []byte {
			if cfg.Compression.FoldCase {
				return alphabet.Normalize(seq)
			}
			return seq
		})
		if err != nil {
			result.Error = err.Error()
			failed++
			logger.Warn("verification failed", "artifact", path, "error", err)
		} else {
			result.OK = true
		}
		results = append(results, result)
	}

	if done, err := params.EmitJSON(results); done {
		if err != nil {
			return err
		}
	} else {
		for _, result := range results {
			if result.OK {
				fmt.Fprintf(cli.Stdout, "OK    %s\n", result.Artifact)
			} else {
				fmt.Fprintf(cli.Stdout, "FAIL  %s: %s\n", result.Artifact, result.Error)
			}
		}
	}

	if failed > 0 {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

// verifyOne decompresses the artifact at path and, when reference
// records are given, compares the result with the matching record.
func verifyOne(
	path string,
	result *verifyResult,
	decompress func(*artifact.Artifact) ([]byte, error),
	reference []fasta.Record,
	normalize func([]byte) []byte,
) error {
	decoded, err := artifact.ReadFile(path)
	if err != nil {
		return err
	}
	result.Record = decoded.Name

	reconstructed, err := decompress(decoded)
	if err != nil {
		return err
	}
	if reference == nil {
		return nil
	}

	record, ok := matchRecord(reference, decoded.Name)
	if !ok {
		return fmt.Errorf("no record with header %q in reference", decoded.Name)
	}
	expected := normalize(record.Sequence)
	if !bytes.Equal(reconstructed, expected) {
		return fmt.Errorf("sequence differs from reference at position %d", firstDifference(reconstructed, expected))
	}
	return nil
}

// matchRecord finds the record whose header equals name. A reference
// with a single record matches any name.
func matchRecord(records []fasta.Record, name string) (fasta.Record, bool) {
	if len(records) == 1 {
		return records[0], true
	}
	for _, record := range records {
		if record.Header == name {
			return record, true
		}
	}
	return fasta.Record{}, false
}

// firstDifference returns the first index where a and b differ, or the
// shorter length when one is a prefix of the other.
func firstDifference(a, b []byte) int {
	for i := 0; i < min(len(a), len(b)); i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return min(len(a), len(b))
}
