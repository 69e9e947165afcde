// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bwt implements the Burrows–Wheeler block-sort transform used
// as the first stage of the genome compressor.
//
// [Forward] conceptually appends the reserved sentinel (ordered before
// every symbol) and sorts all rotations of the augmented sequence. The
// rotations are never materialised: sorting rotations of a sequence that
// ends in a unique smallest symbol is the same as sorting its suffixes,
// so the transform is read straight off a suffix array built by prefix
// doubling with radix sort (O(n log n) time, O(n) memory).
//
// The sentinel itself is elided from the output. The sentinel's own row
// (the suffix consisting of just the sentinel) is dropped, and the
// sentinel symbol in the last column is replaced by the final input
// symbol. What remains is a true permutation of the input plus a primary
// index in [0, n): the rank of the un-rotated sequence among the n
// remaining rows. [Inverse] re-inserts the sentinel at the position the
// primary index names and walks the LF mapping backwards.
//
// Symbol order is byte order. Both the order and the primary index are
// part of the transform's state; an artifact that loses either cannot
// be inverted.
package bwt
