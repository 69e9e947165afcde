// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package huffman implements the static canonical Huffman coder used as
// the second stage of the genome compressor.
//
// [Build] counts symbol frequencies, combines the two lightest nodes of
// a min-heap until a single root remains, and reads each symbol's code
// length off the tree. Ties on weight break on a fixed secondary key
// (first-seen order for leaves, creation order for internal nodes), so
// identical input always yields an identical table. The tree is then
// discarded: codes are reassigned canonically (RFC 1951 §3.2.2: shorter
// codes first, ties by symbol value), which makes the table fully
// described by its code lengths. [NewTable] rebuilds a table from those
// lengths on the decoding side and rejects any length set that is not a
// complete prefix code.
//
// A table with a single symbol uses the 1-bit code "0". Zero-length
// codes never occur.
//
// Bits are MSB-first throughout. [BitWriter] and [BitStream.Reader]
// wrap github.com/icza/bitio; the padding count skipped when the writer
// aligns to a byte boundary is what [Pack] reports for the final unit.
//
// References:
//
//	https://www.rfc-editor.org/rfc/rfc1951.html, Section 3.2.2
//	https://en.wikipedia.org/wiki/Canonical_Huffman_code
package huffman
