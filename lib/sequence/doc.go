// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sequence defines the symbol model shared by every stage of the
// genome compressor: the declared [Alphabet] a sequence must conform to,
// the reserved [Sentinel] used by the block-sort transform, and the
// symbol frequency counter ([Count]) that drives Huffman construction.
//
// A sequence is a plain []byte of single-letter residue codes. Stages
// never mutate their input; anything that must change a sequence
// ([Alphabet.Normalize]) returns a copy.
//
// Validation failures are reported as [*AlphabetError], which carries
// the offending index and symbol and matches [ErrAlphabetViolation]
// under errors.Is.
//
// This package depends on no other packages in this module.
package sequence
