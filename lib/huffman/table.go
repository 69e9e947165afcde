// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package huffman

import (
	"fmt"
	"slices"
	"strings"

	"github.com/chronos-tachyon/assert"
)

// Table maps symbols to canonical codes and back. Build one with
// [Build] on the encoding side or [NewTable] on the decoding side; both
// produce identical tables for identical lengths. A Table is immutable
// and safe for concurrent use.
type Table struct {
	codes   [256]Code
	lengths []SymbolLength // sorted by symbol
	trie    []trieNode
}

// trieNode is a decode-trie entry. Internal nodes have child indices
// (-1 for a missing branch); leaves carry a symbol.
type trieNode struct {
	child  [2]int32
	symbol byte
	leaf   bool
}

// NewTable builds a table from canonical code lengths. Lengths must be
// between 1 and [MaxCodeLength], each symbol may appear once, and the
// lengths must describe a complete prefix code (Kraft sum exactly 1).
// The single exception is a one-symbol table, which must use length 1.
// An empty slice yields an empty table that can encode and decode only
// the empty sequence.
func NewTable(lengths []SymbolLength) (*Table, error) {
	table := &Table{
		trie: []trieNode{{child: [2]int32{-1, -1}}},
	}
	if len(lengths) == 0 {
		return table, nil
	}

	var seen [256]bool
	for _, entry := range lengths {
		if entry.Length == 0 || entry.Length > MaxCodeLength {
			return nil, fmt.Errorf("%w: symbol %q has length %d (want 1..%d)",
				ErrInvalidTable, entry.Symbol, entry.Length, MaxCodeLength)
		}
		if seen[entry.Symbol] {
			return nil, fmt.Errorf("%w: symbol %q appears more than once", ErrInvalidTable, entry.Symbol)
		}
		seen[entry.Symbol] = true
	}

	sorted := slices.Clone(lengths)
	slices.SortFunc(sorted, func(a, b SymbolLength) int {
		if a.Length != b.Length {
			return int(a.Length) - int(b.Length)
		}
		return int(a.Symbol) - int(b.Symbol)
	})

	if len(sorted) == 1 && sorted[0].Length != 1 {
		return nil, fmt.Errorf("%w: single-symbol table must use a 1-bit code, got %d bits",
			ErrInvalidTable, sorted[0].Length)
	}

	// Canonical assignment. next overflowing its length means the
	// lengths are over-subscribed (some code would be a prefix of
	// another); ending below 2^maxLength means the code is incomplete.
	var next uint64
	previous := sorted[0].Length
	for i, entry := range sorted {
		if i > 0 {
			next++
			next <<= entry.Length - previous
			previous = entry.Length
		}
		if next >= uint64(1)<<entry.Length {
			return nil, fmt.Errorf("%w: code lengths are over-subscribed at symbol %q (not prefix-free)",
				ErrInvalidTable, entry.Symbol)
		}
		table.codes[entry.Symbol] = Code{Length: entry.Length, Bits: next}
	}
	if len(sorted) > 1 && next+1 != uint64(1)<<previous {
		return nil, fmt.Errorf("%w: code lengths are incomplete", ErrInvalidTable)
	}

	for _, entry := range sorted {
		if err := table.insert(entry.Symbol, table.codes[entry.Symbol]); err != nil {
			return nil, err
		}
	}

	table.lengths = slices.Clone(lengths)
	slices.SortFunc(table.lengths, func(a, b SymbolLength) int {
		return int(a.Symbol) - int(b.Symbol)
	})
	return table, nil
}

// insert adds a code to the decode trie, rejecting any code that
// passes through or ends on an existing leaf.
func (t *Table) insert(symbol byte, code Code) error {
	current := int32(0)
	for i := 0; i < int(code.Length); i++ {
		assert.Assertf(!t.trie[current].leaf, "canonical code for %q passes through a leaf", symbol)
		bit := code.Bit(i)
		child := t.trie[current].child[bit]
		if child < 0 {
			t.trie = append(t.trie, trieNode{child: [2]int32{-1, -1}})
			child = int32(len(t.trie) - 1)
			t.trie[current].child[bit] = child
		}
		current = child
	}
	if t.trie[current].leaf || t.trie[current].child != [2]int32{-1, -1} {
		return fmt.Errorf("%w: code %s for %q collides with another code", ErrInvalidTable, code, symbol)
	}
	t.trie[current].leaf = true
	t.trie[current].symbol = symbol
	return nil
}

// Code returns the code for symbol and whether the symbol is present.
func (t *Table) Code(symbol byte) (Code, bool) {
	code := t.codes[symbol]
	return code, code.Length != 0
}

// Lengths returns the canonical code lengths sorted by symbol. This is
// everything needed to rebuild the table with [NewTable].
func (t *Table) Lengths() []SymbolLength {
	return slices.Clone(t.lengths)
}

// Symbols returns the symbols in the table in ascending order.
func (t *Table) Symbols() []byte {
	out := make([]byte, len(t.lengths))
	for i, entry := range t.lengths {
		out[i] = entry.Symbol
	}
	return out
}

// Len returns the number of symbols in the table.
func (t *Table) Len() int {
	return len(t.lengths)
}

// Equal reports whether two tables assign identical codes.
func (t *Table) Equal(other *Table) bool {
	return t.codes == other.codes
}

// String returns a programmer-readable listing of the table, one
// symbol per line in ascending symbol order.
func (t *Table) String() string {
	var builder strings.Builder
	builder.WriteString("Table{\n")
	for _, entry := range t.lengths {
		fmt.Fprintf(&builder, "\t%q: %s\n", entry.Symbol, t.codes[entry.Symbol])
	}
	builder.WriteString("}\n")
	return builder.String()
}

// EncodedBits returns the number of bits seq will occupy once encoded.
// Symbols missing from the table are ignored.
func (t *Table) EncodedBits(seq []byte) int {
	var total int
	for _, symbol := range seq {
		total += int(t.codes[symbol].Length)
	}
	return total
}

// Encode concatenates the code of each symbol in seq. Returns an
// [*UnknownSymbolError] for the first symbol with no code.
func (t *Table) Encode(seq []byte) (*BitStream, error) {
	writer := NewBitWriter(t.EncodedBits(seq))
	for i, symbol := range seq {
		code := t.codes[symbol]
		if code.Length == 0 {
			return nil, &UnknownSymbolError{Index: i, Symbol: symbol}
		}
		writer.WriteCode(code)
	}
	return writer.Finish()
}

// Decode walks the decode trie bit by bit, emitting a symbol at each
// leaf. Returns a [*MalformedStreamError] if a bit path leads nowhere
// or the stream ends in the middle of a code.
func (t *Table) Decode(stream *BitStream) ([]byte, error) {
	length := stream.Len()
	if length == 0 {
		return []byte{}, nil
	}
	if len(t.lengths) == 0 {
		return nil, &MalformedStreamError{BitOffset: 0, Reason: "empty code table cannot decode a non-empty stream"}
	}

	output := make([]byte, 0, length/int(t.maxLength()))
	reader := stream.Reader()
	current := int32(0)
	codeStart := 0
	for offset := 0; offset < length; offset++ {
		bit, err := reader.ReadBool()
		if err != nil {
			return nil, &MalformedStreamError{BitOffset: offset, Reason: fmt.Sprintf("reading bit: %v", err)}
		}
		var branch int
		if bit {
			branch = 1
		}
		next := t.trie[current].child[branch]
		if next < 0 {
			return nil, &MalformedStreamError{BitOffset: offset, Reason: "bit sequence matches no code"}
		}
		if t.trie[next].leaf {
			output = append(output, t.trie[next].symbol)
			current = 0
			codeStart = offset + 1
			continue
		}
		current = next
	}
	if current != 0 {
		return nil, &MalformedStreamError{BitOffset: codeStart, Reason: "stream ends mid-code"}
	}
	return output, nil
}

// DecodeN decodes stream and requires exactly n symbols. A stream
// holding more or fewer complete codes is malformed.
func (t *Table) DecodeN(stream *BitStream, n int) ([]byte, error) {
	output, err := t.Decode(stream)
	if err != nil {
		return nil, err
	}
	if len(output) != n {
		return nil, &MalformedStreamError{
			BitOffset: stream.Len(),
			Reason:    fmt.Sprintf("decoded %d symbols, expected %d", len(output), n),
		}
	}
	return output, nil
}

func (t *Table) maxLength() uint8 {
	var longest uint8
	for _, entry := range t.lengths {
		longest = max(longest, entry.Length)
	}
	return longest
}
