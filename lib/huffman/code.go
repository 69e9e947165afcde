// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package huffman

import (
	"fmt"
	"strconv"
)

// MaxCodeLength is the longest code a table may contain. A Huffman code
// of length L needs a sequence of at least Fib(L+2) symbols, so this
// bound is unreachable for any sequence the block-sort stage accepts.
const MaxCodeLength = 63

// Code is a sequence of 1 to [MaxCodeLength] bits. The low Length bits
// of Bits hold the code, most significant bit first on the wire.
type Code struct {
	Length uint8
	Bits   uint64
}

// Bit returns the i-th bit of the code in transmission order.
func (c Code) Bit(i int) uint8 {
	return uint8(c.Bits>>(int(c.Length)-1-i)) & 1
}

// IsPrefixOf reports whether c is a (non-strict) prefix of other.
func (c Code) IsPrefixOf(other Code) bool {
	if c.Length == 0 || c.Length > other.Length {
		return false
	}
	return other.Bits>>(other.Length-c.Length) == c.Bits
}

// String returns the code as a quoted string of '0' and '1'.
func (c Code) String() string {
	if c.Length == 0 {
		return `""`
	}
	format := "%0" + strconv.Itoa(int(c.Length)) + "b"
	return strconv.Quote(fmt.Sprintf(format, c.Bits))
}

var _ fmt.Stringer = Code{}

// SymbolLength pairs a symbol with its canonical code length. A slice
// of these is the serialisable form of a [Table].
type SymbolLength struct {
	Symbol byte  `json:"symbol"`
	Length uint8 `json:"length"`
}
