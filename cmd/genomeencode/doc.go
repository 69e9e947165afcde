// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Genomeencode compresses nucleotide sequences with a block-sort
// transform followed by canonical Huffman coding.
//
// Subcommands:
//
//   - compress: FASTA (plain, gzip, or zstd) to .genome artifacts
//   - decompress: .genome artifacts back to FASTA
//   - inspect: statistics, code table, and raw metadata of an artifact
//   - verify: decompress and check artifacts, optionally against a FASTA
//   - version: build information
//
// Configuration is read from --config or $GENOMEENCODE_CONFIG; see
// lib/config. Exit codes: 0 success, 1 internal error or failed
// verification, 2 invalid input, 3 missing file, 4 output exists,
// 5 corrupt artifact.
package main
