// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package huffman

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/icza/bitio"
)

// BitStream is an immutable sequence of bits held in whole bytes, the
// first bit in the most significant bit of the first byte. The padding
// bits after Len in the final byte are always zero.
type BitStream struct {
	data    []byte
	padding uint8
}

// Len returns the number of bits in the stream.
func (s *BitStream) Len() int {
	return len(s.data)*8 - int(s.padding)
}

// Reader returns a bit reader positioned at the first bit. Reads past
// Len return the zero padding bits, then io.EOF.
func (s *BitStream) Reader() *bitio.Reader {
	return bitio.NewReader(bytes.NewReader(s.data))
}

// Equal reports whether two streams hold the same bits.
func (s *BitStream) Equal(other *BitStream) bool {
	return s.padding == other.padding && bytes.Equal(s.data, other.data)
}

// String returns the stream as a string of '0' and '1'.
func (s *BitStream) String() string {
	length := s.Len()
	reader := s.Reader()
	var builder strings.Builder
	builder.Grow(length)
	for i := 0; i < length; i++ {
		if reader.TryReadBool() {
			builder.WriteByte('1')
		} else {
			builder.WriteByte('0')
		}
	}
	return builder.String()
}

// BitWriter accumulates bits, most significant first, into a
// [BitStream].
type BitWriter struct {
	buffer bytes.Buffer
	writer *bitio.Writer
}

// NewBitWriter returns an empty writer with room for capacityBits bits.
func NewBitWriter(capacityBits int) *BitWriter {
	w := &BitWriter{}
	w.buffer.Grow((capacityBits + 7) / 8)
	w.writer = bitio.NewWriter(&w.buffer)
	return w
}

// WriteBit appends a single bit. Any non-zero value is a 1.
func (w *BitWriter) WriteBit(bit uint8) {
	w.writer.TryWriteBool(bit != 0)
}

// WriteCode appends the bits of code, most significant first.
func (w *BitWriter) WriteCode(code Code) {
	w.writer.TryWriteBits(code.Bits, code.Length)
}

// Finish zero-pads the final byte and returns the stream. The writer
// must not be used afterwards.
func (w *BitWriter) Finish() (*BitStream, error) {
	padding := w.writer.TryAlign()
	if err := w.writer.TryError; err != nil {
		return nil, fmt.Errorf("huffman: writing bit stream: %w", err)
	}
	data := w.buffer.Bytes()
	if data == nil {
		data = []byte{}
	}
	return &BitStream{data: data, padding: padding}, nil
}

// ParseBits builds a stream from a string of '0' and '1'.
func ParseBits(text string) (*BitStream, error) {
	writer := NewBitWriter(len(text))
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '0':
			writer.WriteBit(0)
		case '1':
			writer.WriteBit(1)
		default:
			return nil, fmt.Errorf("huffman: invalid bit character %q at offset %d", text[i], i)
		}
	}
	return writer.Finish()
}

// Pack returns the stream as 8-bit transport units and the number of
// zero padding bits appended to the final unit (0 to 7). The returned
// slice is a copy.
func Pack(stream *BitStream) (units []byte, paddingBits int) {
	units = bytes.Clone(stream.data)
	if units == nil {
		units = []byte{}
	}
	return units, int(stream.padding)
}

// Unpack reverses [Pack]. paddingBits must be between 0 and 7, may
// only be non-zero when units is non-empty, and the padding bits
// themselves must be zero.
func Unpack(units []byte, paddingBits int) (*BitStream, error) {
	if paddingBits < 0 || paddingBits > 7 {
		return nil, &MalformedStreamError{
			BitOffset: len(units) * 8,
			Reason:    fmt.Sprintf("padding count %d outside [0,7]", paddingBits),
		}
	}
	if len(units) == 0 {
		if paddingBits != 0 {
			return nil, &MalformedStreamError{
				BitOffset: 0,
				Reason:    fmt.Sprintf("padding count %d with no transport units", paddingBits),
			}
		}
		return &BitStream{data: []byte{}}, nil
	}
	length := len(units)*8 - paddingBits
	if paddingBits > 0 {
		reader := bitio.NewReader(bytes.NewReader(units[len(units)-1:]))
		reader.TryReadBits(uint8(8 - paddingBits))
		if tail := reader.TryReadBits(uint8(paddingBits)); tail != 0 || reader.TryError != nil {
			return nil, &MalformedStreamError{
				BitOffset: length,
				Reason:    "non-zero padding bits in final transport unit",
			}
		}
	}
	return &BitStream{data: bytes.Clone(units), padding: uint8(paddingBits)}, nil
}
