// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/bureau-foundation/genomeencode/lib/bwt"
)

// CompressionTag identifies the general-purpose codec applied to the
// packed Huffman payload. Tags are stored in artifact metadata; the
// numeric values are format constants.
type CompressionTag uint8

const (
	// CompressionNone stores the packed units unchanged. The Huffman
	// stage already removes most first-order redundancy, so this is
	// the common outcome for diverse sequences.
	CompressionNone CompressionTag = 0

	// CompressionLZ4 indicates LZ4 block compression. Cheap to decode
	// and effective on long exact repeats that survive the BWT as runs
	// of identical codes.
	CompressionLZ4 CompressionTag = 1

	// CompressionZstd indicates zstd at the default level. Better
	// ratios than LZ4 on highly repetitive payloads.
	CompressionZstd CompressionTag = 2

	// CompressionAuto is a request, never a stored tag: probe the
	// payload and pick the best of the three codecs above.
	CompressionAuto CompressionTag = 0xff
)

// String returns the human-readable name of a compression tag.
func (tag CompressionTag) String() string {
	switch tag {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	case CompressionAuto:
		return "auto"
	default:
		return fmt.Sprintf("unknown(%d)", tag)
	}
}

// Stored reports whether the tag may appear in a persisted artifact.
func (tag CompressionTag) Stored() bool {
	return tag == CompressionNone || tag == CompressionLZ4 || tag == CompressionZstd
}

// ParseCompressionTag parses a compression tag from its string
// representation, including "auto".
func ParseCompressionTag(name string) (CompressionTag, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	case "auto":
		return CompressionAuto, nil
	default:
		return 0, fmt.Errorf("unknown compression tag: %q (valid: none, lz4, zstd, auto)", name)
	}
}

// CompressPayload compresses data with the requested codec and returns
// the stored bytes and the tag actually used. CompressionAuto selects a
// codec with [SelectCompression]. When a codec does not make the
// payload strictly smaller, the payload is stored uncompressed with
// CompressionNone.
func CompressPayload(data []byte, tag CompressionTag) ([]byte, CompressionTag, error) {
	if len(data) == 0 {
		return data, CompressionNone, nil
	}
	if tag == CompressionAuto {
		tag = SelectCompression(data)
	}

	var compressed []byte
	var err error
	switch tag {
	case CompressionNone:
		return data, CompressionNone, nil
	case CompressionLZ4:
		compressed, err = compressLZ4(data)
	case CompressionZstd:
		compressed, err = compressZstd(data)
	default:
		return nil, 0, fmt.Errorf("unsupported compression tag: %d", tag)
	}
	if err != nil {
		if IsIncompressible(err) {
			return data, CompressionNone, nil
		}
		return nil, 0, err
	}
	return compressed, tag, nil
}

// DecompressPayload reverses [CompressPayload]. The rawSize must match
// the decompressed length exactly; a mismatch is an error.
func DecompressPayload(stored []byte, tag CompressionTag, rawSize int) ([]byte, error) {
	switch tag {
	case CompressionNone:
		if len(stored) != rawSize {
			return nil, fmt.Errorf("uncompressed payload: size %d does not match expected %d",
				len(stored), rawSize)
		}
		return stored, nil

	case CompressionLZ4:
		return decompressLZ4(stored, rawSize)

	case CompressionZstd:
		return decompressZstd(stored, rawSize)

	default:
		return nil, fmt.Errorf("unsupported compression tag: %d", tag)
	}
}

// LZ4 compression: block-mode LZ4.

func compressLZ4(data []byte) ([]byte, error) {
	destination := make([]byte, lz4.CompressBlockBound(len(data)))

	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}

	// CompressBlock returns 0 for incompressible input.
	if written == 0 || written >= len(data) {
		return nil, errIncompressible
	}
	return destination[:written], nil
}

// lz4MaxExpansion is the largest ratio an LZ4 block can reach: each
// extra byte of a match length encodes at most 255 output bytes.
const lz4MaxExpansion = 255

func decompressLZ4(compressed []byte, rawSize int) ([]byte, error) {
	if rawSize < 0 || int64(rawSize) > int64(len(compressed))*lz4MaxExpansion {
		return nil, fmt.Errorf("lz4 decompress: %d stored bytes cannot expand to %d", len(compressed), rawSize)
	}
	destination := make([]byte, rawSize)
	read, err := lz4.UncompressBlock(compressed, destination)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if read != rawSize {
		return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, rawSize)
	}
	return destination, nil
}

const (
	// zstdMaxExpansion is the largest ratio a zstd frame can reach: a
	// 4-byte RLE block produces at most one 128 KiB block.
	zstdMaxExpansion = 128 << 10 / 4

	// maxPayloadRawSize bounds any decoded payload. A Huffman code over
	// byte symbols averages under 9 bits per symbol.
	maxPayloadRawSize = (uint64(bwt.MaxLength)*9 + 7) / 8
)

// zstdEncoder and zstdDecoder are shared across calls. Both are safe
// for concurrent use through EncodeAll and DecodeAll.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("artifact: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil,
		zstd.WithDecoderMaxMemory(maxPayloadRawSize),
	)
	if err != nil {
		panic("artifact: zstd decoder initialization failed: " + err.Error())
	}
}

func compressZstd(data []byte) ([]byte, error) {
	compressed := zstdEncoder.EncodeAll(data, nil)
	if len(compressed) >= len(data) {
		return nil, errIncompressible
	}
	return compressed, nil
}

func decompressZstd(compressed []byte, rawSize int) ([]byte, error) {
	if rawSize < 0 || int64(rawSize) > int64(len(compressed))*zstdMaxExpansion {
		return nil, fmt.Errorf("zstd decompress: %d stored bytes cannot expand to %d", len(compressed), rawSize)
	}
	result, err := zstdDecoder.DecodeAll(compressed, make([]byte, 0, rawSize))
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	if len(result) != rawSize {
		return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), rawSize)
	}
	return result, nil
}

// errIncompressible is returned by compression functions when the
// compressed output is not smaller than the input.
var errIncompressible = errors.New("data is incompressible")

// IsIncompressible reports whether err indicates that data could not be
// compressed smaller than its original size.
func IsIncompressible(err error) bool {
	return errors.Is(err, errIncompressible)
}

// SelectCompression probes data with zstd. A ratio of at least 1.5x
// selects zstd, at least 1.1x selects LZ4, and anything less is stored
// uncompressed.
func SelectCompression(data []byte) CompressionTag {
	if len(data) == 0 {
		return CompressionNone
	}

	compressed := zstdEncoder.EncodeAll(data, nil)
	ratio := float64(len(data)) / float64(len(compressed))

	switch {
	case ratio >= 1.5:
		return CompressionZstd
	case ratio >= 1.1:
		return CompressionLZ4
	default:
		return CompressionNone
	}
}
