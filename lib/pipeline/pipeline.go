// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/bureau-foundation/genomeencode/lib/artifact"
	"github.com/bureau-foundation/genomeencode/lib/bwt"
	"github.com/bureau-foundation/genomeencode/lib/huffman"
	"github.com/bureau-foundation/genomeencode/lib/sequence"
)

// Options configures a [Compressor]. The zero value disables the
// block-sort transform and payload compression; start from
// [DefaultOptions] for the standard pipeline.
type Options struct {
	// Logger receives per-stage debug messages. If nil, a no-op
	// logger is used.
	Logger *slog.Logger

	// Alphabet is the symbol set input sequences must use. If nil,
	// [sequence.IUPAC] is used.
	Alphabet *sequence.Alphabet

	// FoldCase upper-cases input before validation, so soft-masked
	// (lower-case) regions are accepted. The artifact then
	// reconstructs the upper-cased sequence.
	FoldCase bool

	// Transform is the permutation applied before Huffman coding.
	Transform artifact.Transform

	// PayloadCompression is the codec requested for the packed
	// payload. [artifact.CompressionAuto] probes the payload.
	PayloadCompression artifact.CompressionTag
}

// DefaultOptions returns the standard configuration: IUPAC alphabet,
// block-sort transform, automatic payload compression.
func DefaultOptions() Options {
	return Options{
		Alphabet:           sequence.IUPAC,
		Transform:          artifact.TransformBWT,
		PayloadCompression: artifact.CompressionAuto,
	}
}

// Compressor runs the compression pipeline with a fixed configuration.
type Compressor struct {
	logger    *slog.Logger
	alphabet  *sequence.Alphabet
	foldCase  bool
	transform artifact.Transform
	payload   artifact.CompressionTag
}

// New returns a Compressor for options. Returns an error if the
// transform or payload compression is unknown.
func New(options Options) (*Compressor, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	alphabet := options.Alphabet
	if alphabet == nil {
		alphabet = sequence.IUPAC
	}
	if options.Transform != artifact.TransformBWT && options.Transform != artifact.TransformNone {
		return nil, fmt.Errorf("pipeline: unknown transform %s", options.Transform)
	}
	if !options.PayloadCompression.Stored() && options.PayloadCompression != artifact.CompressionAuto {
		return nil, fmt.Errorf("pipeline: unknown payload compression %s", options.PayloadCompression)
	}
	return &Compressor{
		logger:    logger,
		alphabet:  alphabet,
		foldCase:  options.FoldCase,
		transform: options.Transform,
		payload:   options.PayloadCompression,
	}, nil
}

var defaultCompressor = func() *Compressor {
	compressor, err := New(DefaultOptions())
	if err != nil {
		panic("pipeline: default options rejected: " + err.Error())
	}
	return compressor
}()

// Compress compresses seq with the default configuration.
func Compress(seq []byte) (*artifact.Artifact, error) {
	return defaultCompressor.Compress(seq)
}

// Decompress reconstructs the sequence held in a. The artifact's own
// fields select the transform and payload codec, so any artifact
// decompresses regardless of the configuration that produced it.
func Decompress(a *artifact.Artifact) ([]byte, error) {
	return defaultCompressor.Decompress(a)
}

// Compress validates seq against the alphabet and runs the forward
// pipeline. seq is not modified. Returns an error matching
// [sequence.ErrAlphabetViolation] before any transform runs if seq
// contains a symbol outside the alphabet.
func (c *Compressor) Compress(seq []byte) (*artifact.Artifact, error) {
	if c.foldCase {
		seq = c.alphabet.Normalize(seq)
	}
	if err := c.alphabet.Validate(seq); err != nil {
		return nil, err
	}

	transformed := seq
	primaryIndex := 0
	if c.transform == artifact.TransformBWT {
		result, err := bwt.Forward(seq)
		if err != nil {
			return nil, fmt.Errorf("block-sort transform: %w", err)
		}
		transformed = result.Transformed
		primaryIndex = result.PrimaryIndex
	}

	frequencies := sequence.Count(transformed)
	table, err := huffman.BuildFromFrequencies(frequencies)
	if err != nil {
		return nil, fmt.Errorf("building code table: %w", err)
	}
	stream, err := table.Encode(transformed)
	if err != nil {
		return nil, fmt.Errorf("encoding: %w", err)
	}
	units, padding := huffman.Pack(stream)

	stored, used, err := artifact.CompressPayload(units, c.payload)
	if err != nil {
		return nil, fmt.Errorf("compressing payload: %w", err)
	}

	result := &artifact.Artifact{
		OriginalLength:     len(seq),
		TransformedLength:  len(transformed),
		Transform:          c.transform,
		PrimaryIndex:       primaryIndex,
		CodeLengths:        table.Lengths(),
		PaddingBits:        padding,
		PayloadRawSize:     len(units),
		PayloadCompression: used,
		Payload:            stored,
		Checksum:           artifact.HashSequence(seq),
	}

	c.logger.Debug("sequence compressed",
		"length", len(seq),
		"transform", c.transform,
		"primary_index", primaryIndex,
		"distinct_symbols", frequencies.Distinct(),
		"encoded_bits", stream.Len(),
		"payload_compression", used,
		"payload_bytes", len(stored),
	)
	return result, nil
}

// Decompress validates a and runs the inverse pipeline. Every failure
// is an [*artifact.CorruptError].
func (c *Compressor) Decompress(a *artifact.Artifact) ([]byte, error) {
	if a == nil {
		return nil, &artifact.CorruptError{Field: "artifact", Err: errors.New("nil artifact")}
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	units, err := artifact.DecompressPayload(a.Payload, a.PayloadCompression, a.PayloadRawSize)
	if err != nil {
		return nil, &artifact.CorruptError{Field: "payload", Err: err}
	}
	table, err := a.Table()
	if err != nil {
		return nil, err
	}
	stream, err := huffman.Unpack(units, a.PaddingBits)
	if err != nil {
		return nil, &artifact.CorruptError{Field: "padding_bits", Err: err}
	}
	transformed, err := table.DecodeN(stream, a.TransformedLength)
	if err != nil {
		return nil, &artifact.CorruptError{Field: "payload", Err: err}
	}

	output := transformed
	if a.Transform == artifact.TransformBWT {
		output, err = bwt.Inverse(transformed, a.PrimaryIndex)
		if err != nil {
			return nil, &artifact.CorruptError{Field: "primary_index", Err: err}
		}
	}

	if checksum := artifact.HashSequence(output); checksum != a.Checksum {
		return nil, &artifact.CorruptError{
			Field: "checksum",
			Err:   fmt.Errorf("reconstructed sequence hashes to %s, artifact records %s", checksum, a.Checksum),
		}
	}

	c.logger.Debug("sequence decompressed",
		"length", len(output),
		"transform", a.Transform,
		"payload_compression", a.PayloadCompression,
	)
	return output, nil
}
