// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR configuration shared by every
// package that writes or reads binary metadata.
//
// The artifact container stores its metadata block as CBOR. Two
// properties matter for that block:
//
//   - Encoding is Core Deterministic (RFC 8949 §4.2): sorted map keys,
//     smallest integer encoding, no indefinite-length items. The same
//     metadata always produces the same bytes, so compressing the same
//     sequence twice yields byte-identical artifacts.
//   - Decoding is strict. Artifacts arrive from disk and may be
//     truncated or tampered with, so the decoder rejects duplicate map
//     keys, unknown fields, indefinite-length items, CBOR tags, and
//     trailing bytes, and caps array and nesting sizes well below
//     anything a hostile length prefix could use to force a large
//     allocation.
//
// Usage:
//
//	data, err := codec.Marshal(metadata)
//	err = codec.Unmarshal(data, &metadata)
//
// # Struct Tag Rules
//
// Types that only ever appear inside an artifact use `cbor` tags with
// small integer-like keys chosen for compactness. Types that are also
// printed by the CLI's --json output use `json` tags; fxamacker/cbor
// reads `json` tags when `cbor` tags are absent, so one tag controls
// both formats. Never put both tags on the same field.
package codec
