// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package artifact defines the compressed-sequence artifact and its
// persisted binary form.
//
// An [Artifact] carries everything needed to reconstruct a sequence:
// the original and transformed lengths, the block-sort primary index,
// the canonical Huffman code lengths, the packed bit payload with its
// padding count, and a checksum of the original sequence.
//
// The package is organized in layers, each usable independently:
//
//   - Hashing: BLAKE3 in keyed mode with a fixed domain key. The
//     checksum covers the uncompressed sequence so a decoder that
//     reconstructs the wrong bytes is caught regardless of which
//     stage went wrong.
//
//   - Payload compression: an optional general-purpose stage (none,
//     LZ4, zstd) applied to the packed Huffman units. Incompressible
//     payloads are stored as-is so the stage never grows an artifact.
//
//   - Container: an 8-byte magic, a length-prefixed CBOR metadata
//     block (Core Deterministic Encoding via lib/codec), then the
//     stored payload bytes. Identical artifacts serialise to identical
//     bytes.
//
// Every structural problem found while reading or validating an
// artifact is reported as a [*CorruptError], which matches
// [ErrCorrupt] with errors.Is.
package artifact
