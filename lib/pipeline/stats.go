// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"github.com/bureau-foundation/genomeencode/lib/artifact"
)

// Stats summarises how well a sequence compressed. These are the
// figures the measurement tooling reports when comparing transforms.
type Stats struct {
	// OriginalBytes is the input length, one byte per symbol.
	OriginalBytes int `json:"original_bytes"`

	// ArtifactBytes is the serialised artifact length.
	ArtifactBytes int `json:"artifact_bytes"`

	// PayloadBytes is the stored payload length, excluding header and
	// metadata.
	PayloadBytes int `json:"payload_bytes"`

	// Ratio is ArtifactBytes / OriginalBytes. Zero for empty input.
	Ratio float64 `json:"ratio"`

	// BitsPerBase is the payload cost per input symbol. Zero for
	// empty input.
	BitsPerBase float64 `json:"bits_per_base"`

	// DistinctSymbols is the number of entries in the code table.
	DistinctSymbols int `json:"distinct_symbols"`

	Transform          string `json:"transform"`
	PayloadCompression string `json:"payload_compression"`
	Checksum           string `json:"checksum"`
}

// StatsOf computes the statistics for a.
func StatsOf(a *artifact.Artifact) Stats {
	return Stats{
		OriginalBytes:      a.OriginalLength,
		ArtifactBytes:      a.Size(),
		PayloadBytes:       len(a.Payload),
		Ratio:              a.Ratio(),
		BitsPerBase:        a.BitsPerSymbol(),
		DistinctSymbols:    len(a.CodeLengths),
		Transform:          a.Transform.String(),
		PayloadCompression: a.PayloadCompression.String(),
		Checksum:           a.Checksum.String(),
	}
}
