// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the genomeencode command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/genomeencode/cmd/genomeencode/cli"
	"github.com/bureau-foundation/genomeencode/lib/version"
)

// Root builds and returns the complete genomeencode command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "genomeencode",
		Description: `genomeencode: lossless compression for nucleotide sequences.

Each FASTA record is permuted with the Burrows-Wheeler transform, coded
with a canonical Huffman code built from its own symbol frequencies, and
written as a self-contained .genome artifact carrying everything needed
to reconstruct it. Configuration is read from --config or
$GENOMEENCODE_CONFIG; without either, built-in defaults apply.`,
		Subcommands: []*cli.Command{
			compressCommand(),
			decompressCommand(),
			inspectCommand(),
			verifyCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					if len(args) > 0 {
						return cli.Validation("unexpected argument: %s", args[0])
					}
					fmt.Fprintf(cli.Stdout, "genomeencode %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Compress every record of a gzipped FASTA file",
				Command:     "genomeencode compress hg38_chr21.fa.gz",
			},
			{
				Description: "Restore the FASTA from its artifact",
				Command:     "genomeencode decompress hg38_chr21.genome",
			},
			{
				Description: "Show compression statistics and the code table",
				Command:     "genomeencode inspect hg38_chr21.genome",
			},
			{
				Description: "Check an artifact reproduces its source",
				Command:     "genomeencode verify --against hg38_chr21.fa.gz hg38_chr21.genome",
			},
		},
	}
}
