// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
)

// sampleHeader mirrors the shape of artifact metadata: integer-keyed
// cbor tags and a nested list.
type sampleHeader struct {
	Length  int           `cbor:"1,keyasint"`
	Index   int           `cbor:"2,keyasint"`
	Lengths []sampleEntry `cbor:"3,keyasint"`
	Name    string        `cbor:"4,keyasint,omitempty"`
}

type sampleEntry struct {
	Symbol byte  `cbor:"1,keyasint"`
	Length uint8 `cbor:"2,keyasint"`
}

// sampleReport uses json tags, the convention for types that also
// appear in CLI --json output.
type sampleReport struct {
	Ratio float64 `json:"ratio"`
	Name  string  `json:"name"`
}

func sample() sampleHeader {
	return sampleHeader{
		Length:  12,
		Index:   3,
		Lengths: []sampleEntry{{'A', 1}, {'C', 3}, {'G', 2}, {'T', 3}},
		Name:    "chr1",
	}
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sample()

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Marshal produced empty output")
	}

	var decoded sampleHeader
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Length != original.Length || decoded.Index != original.Index || decoded.Name != original.Name {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
	if len(decoded.Lengths) != len(original.Lengths) {
		t.Fatalf("roundtrip lost entries: got %d, want %d", len(decoded.Lengths), len(original.Lengths))
	}
	for i := range original.Lengths {
		if decoded.Lengths[i] != original.Lengths[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, decoded.Lengths[i], original.Lengths[i])
		}
	}
}

func TestMarshalDeterministic(t *testing.T) {
	first, err := Marshal(sample())
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	second, err := Marshal(sample())
	if err != nil {
		t.Fatalf("second Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("deterministic encoding violated: %x != %x", first, second)
	}
}

func TestMarshalSortedMapKeys(t *testing.T) {
	// Core Deterministic Encoding sorts map keys bytewise on their
	// encoded form, independent of Go map iteration order.
	data, err := Marshal(map[string]int{"zeta": 1, "alpha": 2, "mid": 3})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	diagnostic, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	want := `{"mid": 3, "zeta": 1, "alpha": 2}`
	if diagnostic != want {
		t.Errorf("Diagnose = %s, want %s", diagnostic, want)
	}
}

func TestJSONTagFallback(t *testing.T) {
	original := sampleReport{Ratio: 0.25, Name: "chrM"}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded sampleReport
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("json-tag roundtrip mismatch: got %+v, want %+v", decoded, original)
	}

	diagnostic, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(diagnostic, `"ratio"`) || !strings.Contains(diagnostic, `"name"`) {
		t.Errorf("expected json tag names as map keys, got %s", diagnostic)
	}
}

func TestUnmarshalRejectsTrailingBytes(t *testing.T) {
	data, err := Marshal(sample())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	data = append(data, 0x00)

	var decoded sampleHeader
	if err := Unmarshal(data, &decoded); err == nil {
		t.Fatal("Unmarshal accepted trailing bytes")
	}
}

func TestUnmarshalRejectsUnknownField(t *testing.T) {
	type extended struct {
		Length int `cbor:"1,keyasint"`
		Extra  int `cbor:"99,keyasint"`
	}
	data, err := Marshal(extended{Length: 1, Extra: 2})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleHeader
	if err := Unmarshal(data, &decoded); err == nil {
		t.Fatal("Unmarshal accepted an unknown field")
	}
}

func TestUnmarshalRejectsDuplicateKeys(t *testing.T) {
	// {1: 5, 1: 6}
	data := []byte{0xa2, 0x01, 0x05, 0x01, 0x06}

	var decoded sampleHeader
	if err := Unmarshal(data, &decoded); err == nil {
		t.Fatal("Unmarshal accepted duplicate map keys")
	}
}

func TestUnmarshalRejectsOversizedArray(t *testing.T) {
	// Array header claiming MaxArrayElements+1 items (0x9a = 4-byte
	// length) with no content. Must fail on the length check rather
	// than attempting the allocation.
	count := uint32(MaxArrayElements + 1)
	data := []byte{0x9a, byte(count >> 24), byte(count >> 16), byte(count >> 8), byte(count)}

	var decoded []int
	if err := Unmarshal(data, &decoded); err == nil {
		t.Fatal("Unmarshal accepted an array longer than MaxArrayElements")
	}
}

func TestUnmarshalRejectsTruncated(t *testing.T) {
	data, err := Marshal(sample())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleHeader
	if err := Unmarshal(data[:len(data)-1], &decoded); err == nil {
		t.Fatal("Unmarshal accepted truncated input")
	}
}
