// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipeline orchestrates the compressor: alphabet validation,
// the block-sort transform, canonical Huffman coding, bit packing,
// optional payload compression, and checksumming on the way in; the
// same stages reversed and verified on the way out.
//
// [Compress] and [Decompress] use the default configuration (IUPAC
// alphabet, block-sort transform, automatic payload compression). A
// [Compressor] built with [New] carries a different configuration and
// an optional logger. Neither holds state between calls; every call
// builds its own table and scratch space, so a Compressor is safe for
// concurrent use.
//
// Decompress never returns wrong bytes silently. Every inconsistency
// in an artifact, from an out-of-range primary index to a checksum
// mismatch, is reported as an [*artifact.CorruptError] wrapping the
// stage error that detected it.
//
// [Compressor.CompressBatch] and [Compressor.DecompressBatch] run
// independent sequences on a bounded pool of goroutines.
package pipeline
