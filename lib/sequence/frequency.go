// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sequence

// Frequencies holds per-symbol occurrence counts for one sequence,
// together with the order in which each distinct symbol was first
// seen. First-seen order is the deterministic tie-break key for
// Huffman construction.
type Frequencies struct {
	counts [256]int
	order  []byte
	total  int
}

// Count tallies symbol occurrences over seq.
func Count(seq []byte) *Frequencies {
	frequencies := &Frequencies{total: len(seq)}
	for _, symbol := range seq {
		if frequencies.counts[symbol] == 0 {
			frequencies.order = append(frequencies.order, symbol)
		}
		frequencies.counts[symbol]++
	}
	return frequencies
}

// Of returns the number of occurrences of symbol.
func (f *Frequencies) Of(symbol byte) int {
	return f.counts[symbol]
}

// Symbols returns the distinct symbols in first-seen order.
func (f *Frequencies) Symbols() []byte {
	out := make([]byte, len(f.order))
	copy(out, f.order)
	return out
}

// Distinct returns the number of distinct symbols.
func (f *Frequencies) Distinct() int {
	return len(f.order)
}

// Total returns the length of the counted sequence.
func (f *Frequencies) Total() int {
	return f.total
}

// FirstSeen returns the first-seen rank of symbol, or -1 if the
// symbol does not occur.
func (f *Frequencies) FirstSeen(symbol byte) int {
	if f.counts[symbol] == 0 {
		return -1
	}
	for i, s := range f.order {
		if s == symbol {
			return i
		}
	}
	return -1
}
