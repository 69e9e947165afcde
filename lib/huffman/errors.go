// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package huffman

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSymbol is matched by every [*UnknownSymbolError].
	ErrUnknownSymbol = errors.New("symbol not in code table")

	// ErrMalformedStream is matched by every [*MalformedStreamError].
	ErrMalformedStream = errors.New("malformed bit stream")

	// ErrInvalidTable is returned when a set of code lengths does not
	// describe a complete prefix code.
	ErrInvalidTable = errors.New("invalid code table")

	// ErrCodeTooLong is returned by [Build] when a symbol's code would
	// exceed [MaxCodeLength] bits.
	ErrCodeTooLong = errors.New("code length exceeds maximum")
)

// UnknownSymbolError reports an encode-time lookup miss.
type UnknownSymbolError struct {
	Index  int
	Symbol byte
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("symbol %q at index %d has no code", e.Symbol, e.Index)
}

// Unwrap lets errors.Is match [ErrUnknownSymbol].
func (e *UnknownSymbolError) Unwrap() error { return ErrUnknownSymbol }

// MalformedStreamError reports a structural problem found while
// decoding or unpacking a bit stream.
type MalformedStreamError struct {
	// BitOffset is the position in the stream where the problem was
	// detected. For a truncated code it is the offset where the
	// incomplete code began.
	BitOffset int

	// Reason describes the problem.
	Reason string
}

func (e *MalformedStreamError) Error() string {
	return fmt.Sprintf("malformed bit stream at bit %d: %s", e.BitOffset, e.Reason)
}

// Unwrap lets errors.Is match [ErrMalformedStream].
func (e *MalformedStreamError) Unwrap() error { return ErrMalformedStream }
