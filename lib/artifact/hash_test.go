// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"strings"
	"testing"

	"github.com/zeebo/blake3"
)

func TestHashSequenceDeterministic(t *testing.T) {
	first := HashSequence([]byte("ACGTACGT"))
	second := HashSequence([]byte("ACGTACGT"))
	if first != second {
		t.Error("HashSequence produced different results for the same input")
	}
	if first == HashSequence([]byte("ACGTACGA")) {
		t.Error("HashSequence collided on a one-symbol change")
	}
}

func TestHashSequenceIsKeyed(t *testing.T) {
	// The domain key must change the digest relative to unkeyed BLAKE3.
	input := []byte("ACGT")
	unkeyed := blake3.Sum256(input)
	if HashSequence(input) == Hash(unkeyed) {
		t.Error("HashSequence matches unkeyed BLAKE3; domain key not applied")
	}
}

func TestDomainKeyPadding(t *testing.T) {
	name := string(sequenceDomainKey[:21])
	if name != "genomeencode.sequence" {
		t.Errorf("domain key prefix = %q", name)
	}
	for i, b := range sequenceDomainKey[21:] {
		if b != 0 {
			t.Errorf("domain key byte %d = %#x, want zero padding", 21+i, b)
		}
	}
}

func TestHashStringParseRoundtrip(t *testing.T) {
	hash := HashSequence([]byte("GATTACA"))
	text := hash.String()
	if len(text) != 64 {
		t.Fatalf("String() length = %d, want 64", len(text))
	}
	parsed, err := ParseHash(text)
	if err != nil {
		t.Fatalf("ParseHash: %v", err)
	}
	if parsed != hash {
		t.Errorf("ParseHash(String()) = %s, want %s", parsed, hash)
	}
}

func TestParseHashErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not hex", strings.Repeat("zz", 32)},
		{"too short", strings.Repeat("ab", 16)},
		{"too long", strings.Repeat("ab", 33)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := ParseHash(test.input); err == nil {
				t.Errorf("ParseHash(%q) should fail", test.input)
			}
		})
	}
}

func TestHashIsZero(t *testing.T) {
	if !(Hash{}).IsZero() {
		t.Error("zero Hash reports non-zero")
	}
	if HashSequence(nil).IsZero() {
		t.Error("HashSequence(nil) is all zeros")
	}
}
