// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestCompressionTagString(t *testing.T) {
	tests := []struct {
		tag  CompressionTag
		want string
	}{
		{CompressionNone, "none"},
		{CompressionLZ4, "lz4"},
		{CompressionZstd, "zstd"},
		{CompressionAuto, "auto"},
		{CompressionTag(99), "unknown(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.tag.String(); got != tt.want {
				t.Errorf("CompressionTag(%d).String() = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

func TestParseCompressionTag(t *testing.T) {
	for _, name := range []string{"none", "lz4", "zstd", "auto"} {
		t.Run(name, func(t *testing.T) {
			tag, err := ParseCompressionTag(name)
			if err != nil {
				t.Fatalf("ParseCompressionTag(%q) failed: %v", name, err)
			}
			if tag.String() != name {
				t.Errorf("roundtrip: ParseCompressionTag(%q).String() = %q", name, tag.String())
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		if _, err := ParseCompressionTag("gzip"); err == nil {
			t.Error("ParseCompressionTag(\"gzip\") should fail")
		}
	})
}

func TestCompressionTagStored(t *testing.T) {
	for _, tag := range []CompressionTag{CompressionNone, CompressionLZ4, CompressionZstd} {
		if !tag.Stored() {
			t.Errorf("%s should be storable", tag)
		}
	}
	for _, tag := range []CompressionTag{CompressionAuto, CompressionTag(3)} {
		if tag.Stored() {
			t.Errorf("%s should not be storable", tag)
		}
	}
}

func TestCompressPayloadRoundtrip(t *testing.T) {
	repetitive := bytes.Repeat([]byte{0x1b, 0x6c, 0xb1, 0xc6}, 4096)

	for _, tag := range []CompressionTag{CompressionNone, CompressionLZ4, CompressionZstd, CompressionAuto} {
		t.Run(tag.String(), func(t *testing.T) {
			stored, used, err := CompressPayload(repetitive, tag)
			if err != nil {
				t.Fatalf("CompressPayload(%s): %v", tag, err)
			}
			if !used.Stored() {
				t.Fatalf("CompressPayload(%s) reported non-storable tag %s", tag, used)
			}
			if tag != CompressionNone && tag != CompressionAuto && used != tag {
				t.Errorf("CompressPayload(%s) used %s on repetitive input", tag, used)
			}
			if tag == CompressionAuto && used != CompressionZstd {
				t.Errorf("auto selected %s for highly repetitive input, want zstd", used)
			}
			if used != CompressionNone && len(stored) >= len(repetitive) {
				t.Errorf("compressed %d bytes to %d", len(repetitive), len(stored))
			}

			restored, err := DecompressPayload(stored, used, len(repetitive))
			if err != nil {
				t.Fatalf("DecompressPayload(%s): %v", used, err)
			}
			if !bytes.Equal(restored, repetitive) {
				t.Error("payload roundtrip mismatch")
			}
		})
	}
}

func TestCompressPayloadIncompressibleFallsBack(t *testing.T) {
	random := make([]byte, 4096)
	if _, err := rand.Read(random); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}

	for _, tag := range []CompressionTag{CompressionLZ4, CompressionZstd, CompressionAuto} {
		t.Run(tag.String(), func(t *testing.T) {
			stored, used, err := CompressPayload(random, tag)
			if err != nil {
				t.Fatalf("CompressPayload(%s): %v", tag, err)
			}
			if used != CompressionNone {
				t.Errorf("random input compressed with %s, want none", used)
			}
			if !bytes.Equal(stored, random) {
				t.Error("fallback should store the payload unchanged")
			}
		})
	}
}

func TestCompressPayloadEmpty(t *testing.T) {
	stored, used, err := CompressPayload([]byte{}, CompressionAuto)
	if err != nil {
		t.Fatalf("CompressPayload(empty): %v", err)
	}
	if used != CompressionNone || len(stored) != 0 {
		t.Errorf("empty payload: got %d bytes with %s, want 0 bytes with none", len(stored), used)
	}
}

func TestDecompressPayloadSizeMismatch(t *testing.T) {
	repetitive := bytes.Repeat([]byte("ACGT"), 1024)
	for _, tag := range []CompressionTag{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(tag.String(), func(t *testing.T) {
			stored, used, err := CompressPayload(repetitive, tag)
			if err != nil {
				t.Fatalf("CompressPayload: %v", err)
			}
			if _, err := DecompressPayload(stored, used, len(repetitive)+1); err == nil {
				t.Error("DecompressPayload accepted a wrong raw size")
			}
		})
	}
}

func TestDecompressPayloadRejectsImpossibleRawSize(t *testing.T) {
	repetitive := bytes.Repeat([]byte("ACGT"), 1024)
	tests := []struct {
		tag     CompressionTag
		maxRaw  int
		rawSize int
	}{
		{CompressionLZ4, lz4MaxExpansion, 1 << 30},
		{CompressionZstd, zstdMaxExpansion, 1 << 30},
	}
	for _, test := range tests {
		t.Run(test.tag.String(), func(t *testing.T) {
			stored, used, err := CompressPayload(repetitive, test.tag)
			if err != nil || used != test.tag {
				t.Fatalf("CompressPayload = %s, %v; want %s", used, err, test.tag)
			}
			if _, err := DecompressPayload(stored, used, test.rawSize); err == nil {
				t.Errorf("DecompressPayload accepted raw size %d for %d stored bytes", test.rawSize, len(stored))
			}
			if _, err := DecompressPayload(stored, used, len(stored)*test.maxRaw+1); err == nil {
				t.Error("DecompressPayload accepted a raw size past the codec's expansion limit")
			}
			if _, err := DecompressPayload(stored, used, -1); err == nil {
				t.Error("DecompressPayload accepted a negative raw size")
			}
		})
	}
}

func TestDecompressPayloadUnknownTag(t *testing.T) {
	if _, err := DecompressPayload([]byte{1, 2, 3}, CompressionAuto, 3); err == nil {
		t.Error("DecompressPayload accepted the auto request tag")
	}
}
