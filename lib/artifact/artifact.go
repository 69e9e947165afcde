// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"fmt"

	"github.com/bureau-foundation/genomeencode/lib/bwt"
	"github.com/bureau-foundation/genomeencode/lib/huffman"
)

// Transform identifies the reversible permutation applied before
// Huffman coding. The numeric values are format constants.
type Transform uint8

const (
	// TransformNone codes the sequence directly.
	TransformNone Transform = 0

	// TransformBWT applies the block-sort transform first. This is the
	// default.
	TransformBWT Transform = 1
)

// String returns the human-readable name of a transform.
func (t Transform) String() string {
	switch t {
	case TransformNone:
		return "none"
	case TransformBWT:
		return "bwt"
	default:
		return fmt.Sprintf("unknown(%d)", t)
	}
}

// ParseTransform parses a transform from its string representation.
func ParseTransform(name string) (Transform, error) {
	switch name {
	case "bwt":
		return TransformBWT, nil
	case "none":
		return TransformNone, nil
	default:
		return 0, fmt.Errorf("unknown transform: %q (valid: bwt, none)", name)
	}
}

// Artifact is a compressed sequence. Field values are what the pipeline
// produced; nothing is derived lazily.
type Artifact struct {
	// OriginalLength is the number of symbols in the source sequence.
	OriginalLength int

	// TransformedLength is the number of symbols in the transformed
	// sequence, which is the number of codes in the payload. Both
	// transforms preserve length, so it equals OriginalLength in every
	// valid artifact.
	TransformedLength int

	// Transform is the permutation applied before Huffman coding.
	Transform Transform

	// PrimaryIndex is the block-sort row of the un-rotated sequence.
	// Always 0 for TransformNone and for an empty sequence.
	PrimaryIndex int

	// CodeLengths is the canonical Huffman code table, sorted by
	// symbol.
	CodeLengths []huffman.SymbolLength

	// PaddingBits is the number of zero bits (0 to 7) appended to the
	// final packed unit.
	PaddingBits int

	// PayloadRawSize is the number of packed units before payload
	// compression.
	PayloadRawSize int

	// PayloadCompression is the codec applied to the packed units.
	PayloadCompression CompressionTag

	// Payload is the stored payload: packed units, compressed per
	// PayloadCompression.
	Payload []byte

	// Checksum is [HashSequence] of the original sequence.
	Checksum Hash

	// Name is the source record's header line, if any. It plays no
	// part in reconstruction.
	Name string
}

// Validate checks the artifact's fields against each other without
// decoding the payload. Every failure is a [*CorruptError] naming the
// offending field.
func (a *Artifact) Validate() error {
	n := a.OriginalLength
	if n < 0 || n > bwt.MaxLength {
		return corrupt("original_length", "%d outside [0, %d]", n, bwt.MaxLength)
	}
	if a.TransformedLength != n {
		return corrupt("transformed_length", "%d does not match original length %d", a.TransformedLength, n)
	}

	switch a.Transform {
	case TransformBWT:
		if n == 0 && a.PrimaryIndex != 0 || n > 0 && (a.PrimaryIndex < 0 || a.PrimaryIndex >= n) {
			return &CorruptError{Field: "primary_index", Err: &bwt.IndexError{Index: a.PrimaryIndex, Length: n}}
		}
	case TransformNone:
		if a.PrimaryIndex != 0 {
			return corrupt("primary_index", "%d with no transform (want 0)", a.PrimaryIndex)
		}
	default:
		return corrupt("transform", "unknown transform %d", uint8(a.Transform))
	}

	if !a.PayloadCompression.Stored() {
		return corrupt("payload_compression", "unknown tag %d", uint8(a.PayloadCompression))
	}
	if a.PaddingBits < 0 || a.PaddingBits > 7 {
		return corrupt("padding_bits", "%d outside [0, 7]", a.PaddingBits)
	}
	if len(a.Name) > maxNameLength {
		return corrupt("name", "%d bytes (max %d)", len(a.Name), maxNameLength)
	}
	if a.PayloadRawSize < 0 {
		return corrupt("payload_raw_size", "negative size %d", a.PayloadRawSize)
	}
	if a.PayloadCompression == CompressionNone && len(a.Payload) != a.PayloadRawSize {
		return corrupt("payload", "stored %d bytes uncompressed, raw size says %d", len(a.Payload), a.PayloadRawSize)
	}

	if n == 0 {
		if len(a.CodeLengths) != 0 || a.PayloadRawSize != 0 || a.PaddingBits != 0 {
			return corrupt("payload", "empty sequence with non-empty code table or payload")
		}
		return nil
	}
	if len(a.CodeLengths) == 0 {
		return corrupt("code_lengths", "empty code table for %d symbols", n)
	}

	// Every symbol costs between the shortest and longest code length,
	// which bounds the payload before anything is allocated for it.
	shortest, longest := int(huffman.MaxCodeLength), 0
	for _, entry := range a.CodeLengths {
		shortest = min(shortest, int(entry.Length))
		longest = max(longest, int(entry.Length))
	}
	bits := int64(a.PayloadRawSize)*8 - int64(a.PaddingBits)
	if bits < int64(n)*int64(shortest) || bits > int64(n)*int64(longest) {
		return corrupt("payload_raw_size", "%d bits cannot hold %d codes of %d to %d bits",
			bits, n, shortest, longest)
	}
	return nil
}

// Table rebuilds the Huffman code table from CodeLengths. An invalid
// table is a [*CorruptError].
func (a *Artifact) Table() (*huffman.Table, error) {
	table, err := huffman.NewTable(a.CodeLengths)
	if err != nil {
		return nil, &CorruptError{Field: "code_lengths", Err: err}
	}
	return table, nil
}

// Size returns the serialised length of the artifact in bytes.
func (a *Artifact) Size() int {
	return headerSize + len(a.encodeMetadata()) + len(a.Payload)
}

// Ratio returns the serialised size divided by the original length,
// in bytes per input symbol. Zero for an empty sequence.
func (a *Artifact) Ratio() float64 {
	if a.OriginalLength == 0 {
		return 0
	}
	return float64(a.Size()) / float64(a.OriginalLength)
}

// BitsPerSymbol returns the payload cost in bits per input symbol,
// excluding the header and metadata. Zero for an empty sequence.
func (a *Artifact) BitsPerSymbol() float64 {
	if a.OriginalLength == 0 {
		return 0
	}
	return float64(len(a.Payload)*8) / float64(a.OriginalLength)
}
