// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sequence

import (
	"bytes"
	"errors"
	"testing"
)

func TestAlphabetValidate(t *testing.T) {
	tests := []struct {
		name      string
		alphabet  *Alphabet
		input     string
		wantIndex int
		wantOK    bool
	}{
		{"empty", ACGT, "", 0, true},
		{"acgt", ACGT, "ACGTTGCA", 0, true},
		{"ambiguity rejected by acgt", ACGT, "ACGNT", 3, false},
		{"ambiguity accepted by iupac", IUPAC, "ACGNTRYKM-", 0, true},
		{"lower case rejected", IUPAC, "ACgT", 2, false},
		{"sentinel rejected", IUPAC, "AC$T", 2, false},
		{"digit rejected", ACGTN, "ACGTN1", 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.alphabet.Validate([]byte(tt.input))
			if tt.wantOK {
				if err != nil {
					t.Fatalf("Validate(%q) = %v, want nil", tt.input, err)
				}
				return
			}
			if !errors.Is(err, ErrAlphabetViolation) {
				t.Fatalf("Validate(%q) = %v, want ErrAlphabetViolation", tt.input, err)
			}
			var alphabetError *AlphabetError
			if !errors.As(err, &alphabetError) {
				t.Fatalf("Validate(%q) error is %T, want *AlphabetError", tt.input, err)
			}
			if alphabetError.Index != tt.wantIndex {
				t.Errorf("Index = %d, want %d", alphabetError.Index, tt.wantIndex)
			}
			if alphabetError.Symbol != tt.input[tt.wantIndex] {
				t.Errorf("Symbol = %q, want %q", alphabetError.Symbol, tt.input[tt.wantIndex])
			}
		})
	}
}

func TestNewAlphabetRejectsSentinel(t *testing.T) {
	if _, err := NewAlphabet("bad", "AC$"); err == nil {
		t.Fatal("NewAlphabet with sentinel should fail")
	}
	if _, err := NewAlphabet("empty", ""); err == nil {
		t.Fatal("NewAlphabet with no symbols should fail")
	}
}

func TestNewAlphabetDeduplicates(t *testing.T) {
	alphabet, err := NewAlphabet("dup", "AACCA")
	if err != nil {
		t.Fatalf("NewAlphabet: %v", err)
	}
	if got := string(alphabet.Symbols()); got != "AC" {
		t.Errorf("Symbols() = %q, want %q", got, "AC")
	}
}

func TestParseAlphabet(t *testing.T) {
	for _, name := range []string{"acgt", "acgtn", "iupac", "IUPAC"} {
		alphabet, err := ParseAlphabet(name)
		if err != nil {
			t.Fatalf("ParseAlphabet(%q): %v", name, err)
		}
		if alphabet.Contains(Sentinel) {
			t.Errorf("alphabet %s contains the sentinel", alphabet.Name())
		}
	}
	if _, err := ParseAlphabet("protein"); err == nil {
		t.Error("ParseAlphabet(\"protein\") should fail")
	}
}

func TestNormalize(t *testing.T) {
	input := []byte("acgTNn")
	got := IUPAC.Normalize(input)
	if !bytes.Equal(got, []byte("ACGTNN")) {
		t.Errorf("Normalize = %q, want %q", got, "ACGTNN")
	}
	if string(input) != "acgTNn" {
		t.Error("Normalize mutated its input")
	}

	// Only letters the alphabet knows are folded.
	folded := ACGT.Normalize([]byte("acgtn"))
	if string(folded) != "ACGTn" {
		t.Errorf("ACGT.Normalize = %q, want %q", folded, "ACGTn")
	}
	err := ACGT.Validate(folded)
	var alphabetErr *AlphabetError
	if !errors.As(err, &alphabetErr) || alphabetErr.Symbol != 'n' || alphabetErr.Index != 4 {
		t.Errorf("Validate after Normalize = %v, want violation for 'n' at 4", err)
	}
}

func TestCheckSentinel(t *testing.T) {
	if err := CheckSentinel([]byte("ACGT")); err != nil {
		t.Errorf("CheckSentinel(ACGT) = %v", err)
	}
	err := CheckSentinel([]byte("A$"))
	var alphabetError *AlphabetError
	if !errors.As(err, &alphabetError) || alphabetError.Index != 1 {
		t.Fatalf("CheckSentinel(A$) = %v, want AlphabetError at index 1", err)
	}
}

func TestCount(t *testing.T) {
	frequencies := Count([]byte("GATTACA"))

	if frequencies.Total() != 7 {
		t.Errorf("Total() = %d, want 7", frequencies.Total())
	}
	if frequencies.Distinct() != 4 {
		t.Errorf("Distinct() = %d, want 4", frequencies.Distinct())
	}
	want := map[byte]int{'A': 3, 'T': 2, 'G': 1, 'C': 1, 'N': 0}
	for symbol, count := range want {
		if got := frequencies.Of(symbol); got != count {
			t.Errorf("Of(%q) = %d, want %d", symbol, got, count)
		}
	}
	if got := string(frequencies.Symbols()); got != "GATC" {
		t.Errorf("Symbols() = %q, want first-seen order %q", got, "GATC")
	}
	if got := frequencies.FirstSeen('T'); got != 2 {
		t.Errorf("FirstSeen('T') = %d, want 2", got)
	}
	if got := frequencies.FirstSeen('N'); got != -1 {
		t.Errorf("FirstSeen('N') = %d, want -1", got)
	}
}

func TestCountEmpty(t *testing.T) {
	frequencies := Count(nil)
	if frequencies.Total() != 0 || frequencies.Distinct() != 0 {
		t.Errorf("Count(nil) = total %d distinct %d, want 0 0",
			frequencies.Total(), frequencies.Distinct())
	}
}
