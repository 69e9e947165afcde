// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sequence

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel is the reserved end-of-sequence symbol. It orders before
// every alphabet symbol in the block-sort transform and must never
// appear in input. No alphabet may contain it.
const Sentinel byte = '$'

// ErrAlphabetViolation is matched (via errors.Is) by every
// [*AlphabetError].
var ErrAlphabetViolation = errors.New("alphabet violation")

// AlphabetError reports a symbol outside the declared alphabet, or a
// collision with the reserved [Sentinel].
type AlphabetError struct {
	// Index is the position of the offending symbol in the input.
	Index int

	// Symbol is the offending byte.
	Symbol byte

	// Alphabet is the name of the alphabet the input was checked
	// against. Empty when the check was a sentinel-only check.
	Alphabet string
}

func (e *AlphabetError) Error() string {
	if e.Symbol == Sentinel {
		return fmt.Sprintf("reserved sentinel %q at index %d", e.Symbol, e.Index)
	}
	if e.Alphabet == "" {
		return fmt.Sprintf("symbol %q at index %d is not permitted", e.Symbol, e.Index)
	}
	return fmt.Sprintf("symbol %q at index %d is not in alphabet %s", e.Symbol, e.Index, e.Alphabet)
}

// Unwrap lets errors.Is match [ErrAlphabetViolation].
func (e *AlphabetError) Unwrap() error { return ErrAlphabetViolation }

// Alphabet is a finite set of permitted symbols. The zero value permits
// nothing; use one of the predefined alphabets or [NewAlphabet].
type Alphabet struct {
	name    string
	allowed [256]bool
	symbols []byte
}

// NewAlphabet builds an alphabet from the given symbols. Duplicate
// symbols are ignored. Returns an error if symbols contains the
// [Sentinel] or is empty.
func NewAlphabet(name string, symbols string) (*Alphabet, error) {
	if symbols == "" {
		return nil, fmt.Errorf("alphabet %q has no symbols", name)
	}
	alphabet := &Alphabet{name: name}
	for i := 0; i < len(symbols); i++ {
		symbol := symbols[i]
		if symbol == Sentinel {
			return nil, fmt.Errorf("alphabet %q contains the reserved sentinel %q", name, Sentinel)
		}
		if alphabet.allowed[symbol] {
			continue
		}
		alphabet.allowed[symbol] = true
		alphabet.symbols = append(alphabet.symbols, symbol)
	}
	return alphabet, nil
}

func mustAlphabet(name, symbols string) *Alphabet {
	alphabet, err := NewAlphabet(name, symbols)
	if err != nil {
		panic("sequence: " + err.Error())
	}
	return alphabet
}

// Predefined alphabets. IUPAC is the default: the four bases, uracil,
// the eleven ambiguity codes, and the gap symbol.
var (
	ACGT  = mustAlphabet("acgt", "ACGT")
	ACGTN = mustAlphabet("acgtn", "ACGTN")
	IUPAC = mustAlphabet("iupac", "ACGTURYSWKMBDHVN-")
)

// ParseAlphabet returns the predefined alphabet with the given name.
func ParseAlphabet(name string) (*Alphabet, error) {
	switch strings.ToLower(name) {
	case "acgt":
		return ACGT, nil
	case "acgtn":
		return ACGTN, nil
	case "iupac", "":
		return IUPAC, nil
	default:
		return nil, fmt.Errorf("unknown alphabet: %q", name)
	}
}

// Name returns the alphabet's name.
func (a *Alphabet) Name() string { return a.name }

// Symbols returns the alphabet's symbols in declaration order.
func (a *Alphabet) Symbols() []byte {
	out := make([]byte, len(a.symbols))
	copy(out, a.symbols)
	return out
}

// Contains reports whether symbol belongs to the alphabet.
func (a *Alphabet) Contains(symbol byte) bool {
	return a.allowed[symbol]
}

// Validate returns an [*AlphabetError] for the first symbol in seq that
// is the sentinel or lies outside the alphabet.
func (a *Alphabet) Validate(seq []byte) error {
	for i, symbol := range seq {
		if !a.allowed[symbol] {
			return &AlphabetError{Index: i, Symbol: symbol, Alphabet: a.name}
		}
	}
	return nil
}

// Normalize returns a copy of seq with lower-case letters folded to
// upper case when the alphabet contains the upper-case form. Lower-case
// residues are conventionally soft-masked repeats in FASTA files; the
// mask carries no sequence information the compressor preserves. Other
// letters are left as they are so [Alphabet.Validate] reports them
// verbatim.
func (a *Alphabet) Normalize(seq []byte) []byte {
	out := make([]byte, len(seq))
	for i, symbol := range seq {
		if symbol >= 'a' && symbol <= 'z' && a.Contains(symbol-('a'-'A')) {
			symbol -= 'a' - 'A'
		}
		out[i] = symbol
	}
	return out
}

// CheckSentinel returns an [*AlphabetError] if seq contains the
// [Sentinel]. This is the minimal precondition of the block-sort
// transform, independent of any declared alphabet.
func CheckSentinel(seq []byte) error {
	for i, symbol := range seq {
		if symbol == Sentinel {
			return &AlphabetError{Index: i, Symbol: symbol}
		}
	}
	return nil
}
