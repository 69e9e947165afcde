// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bwt

import (
	"errors"
	"fmt"
	"math"

	"github.com/bureau-foundation/genomeencode/lib/sequence"
)

// MaxLength is the longest sequence the transform accepts. Suffix
// arrays and LF tables use int32 offsets, and the sentinel occupies one
// extra slot.
const MaxLength = math.MaxInt32 - 1

// ErrIndexOutOfRange is matched (via errors.Is) by every [*IndexError].
var ErrIndexOutOfRange = errors.New("primary index out of range")

// ErrInconsistent is returned by [Inverse] when the transformed
// sequence and primary index do not describe a single rotation cycle,
// so no sequence can have produced them.
var ErrInconsistent = errors.New("transform is not invertible")

// ErrTooLong is returned for inputs longer than [MaxLength].
var ErrTooLong = errors.New("sequence too long for block-sort transform")

// IndexError reports a primary index outside [0, Length).
type IndexError struct {
	Index  int
	Length int
}

func (e *IndexError) Error() string {
	if e.Length == 0 {
		return fmt.Sprintf("primary index %d for empty sequence (want 0)", e.Index)
	}
	return fmt.Sprintf("primary index %d out of range [0, %d)", e.Index, e.Length)
}

// Unwrap lets errors.Is match [ErrIndexOutOfRange].
func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// Result is the output of the forward transform.
type Result struct {
	// Transformed is the last column of the sorted rotation matrix,
	// a permutation of the input.
	Transformed []byte

	// PrimaryIndex is the row of the un-rotated input in sorted order.
	PrimaryIndex int

	// Length is len(Transformed).
	Length int
}

// Forward computes the block-sort transform of seq. seq is not
// modified. Returns an [*sequence.AlphabetError] if seq contains the
// reserved sentinel.
func Forward(seq []byte) (Result, error) {
	if err := sequence.CheckSentinel(seq); err != nil {
		return Result{}, err
	}
	length := len(seq)
	if length > MaxLength {
		return Result{}, fmt.Errorf("%w: %d symbols (max %d)", ErrTooLong, length, MaxLength)
	}
	if length == 0 {
		return Result{Transformed: []byte{}}, nil
	}

	suffixes := SuffixArray(seq)

	// Row 0 of the suffix array is the sentinel suffix and is dropped.
	// For every other row the last-column symbol is the one preceding
	// the suffix; for the un-rotated row that would be the sentinel,
	// which is replaced by the final input symbol.
	transformed := make([]byte, length)
	primary := 0
	for row := 1; row <= length; row++ {
		offset := suffixes[row]
		if offset == 0 {
			primary = row - 1
			transformed[row-1] = seq[length-1]
			continue
		}
		transformed[row-1] = seq[offset-1]
	}

	return Result{
		Transformed:  transformed,
		PrimaryIndex: primary,
		Length:       length,
	}, nil
}

// Inverse reconstructs the original sequence from a forward transform.
// Returns an [*IndexError] if primaryIndex is outside [0, n) (or is not
// 0 for an empty input), and [ErrInconsistent] if the pair cannot have
// been produced by [Forward].
func Inverse(transformed []byte, primaryIndex int) ([]byte, error) {
	length := len(transformed)
	if length == 0 {
		if primaryIndex != 0 {
			return nil, &IndexError{Index: primaryIndex, Length: 0}
		}
		return []byte{}, nil
	}
	if primaryIndex < 0 || primaryIndex >= length {
		return nil, &IndexError{Index: primaryIndex, Length: length}
	}
	if length > MaxLength {
		return nil, fmt.Errorf("%w: %d symbols (max %d)", ErrTooLong, length, MaxLength)
	}

	// Rebuild the full last column with the sentinel restored:
	// row 0 is the sentinel suffix (preceded by the final symbol,
	// which Forward stored at the primary row), and row primary+1 is
	// the un-rotated row whose predecessor is the sentinel.
	sentinelRow := primaryIndex + 1
	lastColumn := make([]byte, length+1)
	lastColumn[0] = transformed[primaryIndex]
	copy(lastColumn[1:], transformed)
	lastColumn[sentinelRow] = 0 // placeholder; the row is handled by index

	// starts[c] is the first row whose suffix begins with c. The
	// sentinel sorts first and occupies row 0.
	var counts [256]int32
	for _, symbol := range transformed {
		counts[symbol]++
	}
	var starts [256]int32
	next := int32(1)
	for symbol := range counts {
		starts[symbol] = next
		next += counts[symbol]
	}

	// LF mapping: the row reached by stepping one symbol backwards
	// from each row. Occurrence ranks are stable (row order).
	stepBack := make([]int32, length+1)
	var seen [256]int32
	for row := 0; row <= length; row++ {
		if row == sentinelRow {
			stepBack[row] = 0
			continue
		}
		symbol := lastColumn[row]
		stepBack[row] = starts[symbol] + seen[symbol]
		seen[symbol]++
	}

	// Walk from the sentinel row backwards through the sequence,
	// filling the output from its end.
	output := make([]byte, length)
	row := int32(0)
	for position := length - 1; position >= 0; position-- {
		if int(row) == sentinelRow {
			return nil, fmt.Errorf("%w: reached the sentinel after %d of %d symbols",
				ErrInconsistent, length-1-position, length)
		}
		output[position] = lastColumn[row]
		row = stepBack[row]
	}
	if int(row) != sentinelRow {
		return nil, fmt.Errorf("%w: rotation cycle does not close at the primary row", ErrInconsistent)
	}

	return output, nil
}
