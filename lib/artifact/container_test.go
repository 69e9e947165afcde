// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/bureau-foundation/genomeencode/lib/bwt"
	"github.com/bureau-foundation/genomeencode/lib/codec"
	"github.com/bureau-foundation/genomeencode/lib/huffman"
	"github.com/bureau-foundation/genomeencode/lib/version"
)

// buildArtifact runs the block-sort and Huffman stages by hand so the
// container can be tested without the pipeline package.
func buildArtifact(t *testing.T, seq string, compression CompressionTag) *Artifact {
	t.Helper()
	result, err := bwt.Forward([]byte(seq))
	if err != nil {
		t.Fatalf("bwt.Forward: %v", err)
	}
	table, err := huffman.Build(result.Transformed)
	if err != nil {
		t.Fatalf("huffman.Build: %v", err)
	}
	stream, err := table.Encode(result.Transformed)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	units, padding := huffman.Pack(stream)
	stored, used, err := CompressPayload(units, compression)
	if err != nil {
		t.Fatalf("CompressPayload: %v", err)
	}
	return &Artifact{
		OriginalLength:     len(seq),
		TransformedLength:  result.Length,
		Transform:          TransformBWT,
		PrimaryIndex:       result.PrimaryIndex,
		CodeLengths:        table.Lengths(),
		PaddingBits:        padding,
		PayloadRawSize:     len(units),
		PayloadCompression: used,
		Payload:            stored,
		Checksum:           HashSequence([]byte(seq)),
	}
}

func requireCorrupt(t *testing.T, err error, field string) *CorruptError {
	t.Helper()
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("error = %v, want ErrCorrupt", err)
	}
	var corruptErr *CorruptError
	if !errors.As(err, &corruptErr) {
		t.Fatalf("error %T is not *CorruptError", err)
	}
	if field != "" && corruptErr.Field != field {
		t.Errorf("CorruptError.Field = %q, want %q (error: %v)", corruptErr.Field, field, err)
	}
	return corruptErr
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	sequences := map[string]string{
		"empty":      "",
		"single":     "A",
		"repetitive": strings.Repeat("ACGT", 500),
		"diverse":    "NNNNACGTRYSWKMBDHVNACGTTTGACCA-GGT",
	}
	for name, seq := range sequences {
		t.Run(name, func(t *testing.T) {
			original := buildArtifact(t, seq, CompressionAuto)
			original.Name = name
			data, err := original.MarshalBinary()
			if err != nil {
				t.Fatalf("MarshalBinary: %v", err)
			}
			if len(data) != original.Size() {
				t.Errorf("Size() = %d, serialised length = %d", original.Size(), len(data))
			}

			decoded, err := Unmarshal(data)
			if err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if decoded.OriginalLength != original.OriginalLength ||
				decoded.TransformedLength != original.TransformedLength ||
				decoded.Transform != original.Transform ||
				decoded.PrimaryIndex != original.PrimaryIndex ||
				decoded.PaddingBits != original.PaddingBits ||
				decoded.PayloadRawSize != original.PayloadRawSize ||
				decoded.PayloadCompression != original.PayloadCompression ||
				decoded.Checksum != original.Checksum ||
				decoded.Name != original.Name {
				t.Errorf("roundtrip mismatch:\n got %+v\nwant %+v", decoded, original)
			}
			if !slices.Equal(decoded.CodeLengths, original.CodeLengths) {
				t.Errorf("CodeLengths = %v, want %v", decoded.CodeLengths, original.CodeLengths)
			}
			if !bytes.Equal(decoded.Payload, original.Payload) {
				t.Error("payload mismatch")
			}

			var viaMethod Artifact
			if err := viaMethod.UnmarshalBinary(data); err != nil {
				t.Fatalf("UnmarshalBinary: %v", err)
			}
			if viaMethod.Checksum != original.Checksum {
				t.Error("UnmarshalBinary produced a different artifact")
			}
		})
	}
}

func TestMarshalDeterministic(t *testing.T) {
	first, err := buildArtifact(t, "GATTACAGATTACA", CompressionAuto).MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	second, err := buildArtifact(t, "GATTACAGATTACA", CompressionAuto).MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("identical inputs produced different artifact bytes")
	}
}

func TestMarshalLayout(t *testing.T) {
	data, err := buildArtifact(t, "ACGT", CompressionNone).MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if !bytes.Equal(data[:8], []byte{'G', 'E', 'N', 'O', 'M', 'E', 1, 0}) {
		t.Errorf("magic = %q", data[:8])
	}
	metaLength := binary.LittleEndian.Uint32(data[8:12])
	meta, err := MetadataBytes(data)
	if err != nil {
		t.Fatalf("MetadataBytes: %v", err)
	}
	if len(meta) != int(metaLength) {
		t.Errorf("MetadataBytes length = %d, header says %d", len(meta), metaLength)
	}
	if _, err := codec.Diagnose(meta); err != nil {
		t.Errorf("metadata is not valid CBOR: %v", err)
	}
}

func TestMarshalRejectsInvalid(t *testing.T) {
	broken := buildArtifact(t, "ACGT", CompressionNone)
	broken.PrimaryIndex = 4
	_, err := broken.MarshalBinary()
	requireCorrupt(t, err, "primary_index")
}

func TestUnmarshalRejectsDamage(t *testing.T) {
	valid, err := buildArtifact(t, strings.Repeat("ACGTTGCA", 16), CompressionNone).MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	tests := []struct {
		name   string
		mutate func([]byte) []byte
		field  string
	}{
		{"short header", func(data []byte) []byte { return data[:5] }, "header"},
		{"bad magic", func(data []byte) []byte { data[0] = 'X'; return data }, "magic"},
		{"future version", func(data []byte) []byte { data[6] = 2; return data }, "version"},
		{"reserved byte", func(data []byte) []byte { data[7] = 1; return data }, "header"},
		{"metadata overruns", func(data []byte) []byte {
			binary.LittleEndian.PutUint32(data[8:12], uint32(len(data)))
			return data
		}, "metadata"},
		{"truncated payload", func(data []byte) []byte { return data[:len(data)-1] }, "payload"},
		{"trailing bytes", func(data []byte) []byte { return append(data, 0) }, "payload"},
		{"garbled metadata", func(data []byte) []byte { data[12] = 0xff; return data }, "metadata"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Unmarshal(test.mutate(slices.Clone(valid)))
			requireCorrupt(t, err, test.field)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Artifact)
		field  string
	}{
		{"negative length", func(a *Artifact) { a.OriginalLength = -1 }, "original_length"},
		{"length mismatch", func(a *Artifact) { a.TransformedLength++ }, "transformed_length"},
		{"index at length", func(a *Artifact) { a.PrimaryIndex = a.OriginalLength }, "primary_index"},
		{"negative index", func(a *Artifact) { a.PrimaryIndex = -1 }, "primary_index"},
		{"unknown transform", func(a *Artifact) { a.Transform = 7 }, "transform"},
		{"auto tag stored", func(a *Artifact) { a.PayloadCompression = CompressionAuto }, "payload_compression"},
		{"padding eight", func(a *Artifact) { a.PaddingBits = 8 }, "padding_bits"},
		{"missing table", func(a *Artifact) { a.CodeLengths = nil }, "code_lengths"},
		{"payload too small", func(a *Artifact) {
			a.PayloadRawSize = 1
			a.Payload = a.Payload[:1]
		}, "payload_raw_size"},
		{"stored size mismatch", func(a *Artifact) { a.Payload = a.Payload[1:] }, "payload"},
		{"oversized name", func(a *Artifact) { a.Name = strings.Repeat("n", maxNameLength+1) }, "name"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			candidate := buildArtifact(t, "AAAAAAAAGGCTAAAAAAAAGGCT", CompressionNone)
			if err := candidate.Validate(); err != nil {
				t.Fatalf("valid artifact rejected: %v", err)
			}
			test.mutate(candidate)
			requireCorrupt(t, candidate.Validate(), test.field)
		})
	}
}

func TestValidateIndexErrorIsReachable(t *testing.T) {
	candidate := buildArtifact(t, "ACGT", CompressionNone)
	candidate.PrimaryIndex = 10
	err := candidate.Validate()
	if !errors.Is(err, bwt.ErrIndexOutOfRange) {
		t.Errorf("error = %v, want it to wrap bwt.ErrIndexOutOfRange", err)
	}
}

func TestTableRejectsBadLengths(t *testing.T) {
	candidate := buildArtifact(t, "ACGT", CompressionNone)
	candidate.CodeLengths = []huffman.SymbolLength{{Symbol: 'A', Length: 1}, {Symbol: 'C', Length: 1}, {Symbol: 'G', Length: 1}}
	_, err := candidate.Table()
	corruptErr := requireCorrupt(t, err, "code_lengths")
	if !errors.Is(corruptErr, huffman.ErrInvalidTable) {
		t.Errorf("error = %v, want it to wrap huffman.ErrInvalidTable", err)
	}
}

func TestWriteReadFile(t *testing.T) {
	directory := t.TempDir()
	path := filepath.Join(directory, "chr1.genome")
	original := buildArtifact(t, strings.Repeat("GATTACA", 100), CompressionAuto)

	if err := WriteFile(path, original); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	decoded, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if decoded.Checksum != original.Checksum || !bytes.Equal(decoded.Payload, original.Payload) {
		t.Error("file roundtrip mismatch")
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries after WriteFile, want 1 (temporary file left behind?)", len(entries))
	}

	if _, err := ReadFile(filepath.Join(directory, "missing.genome")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestRatioAndBitsPerSymbol(t *testing.T) {
	empty := buildArtifact(t, "", CompressionNone)
	if empty.Ratio() != 0 || empty.BitsPerSymbol() != 0 {
		t.Errorf("empty artifact: Ratio=%v BitsPerSymbol=%v, want 0", empty.Ratio(), empty.BitsPerSymbol())
	}

	single := buildArtifact(t, strings.Repeat("A", 800), CompressionNone)
	if got := single.BitsPerSymbol(); got != 1 {
		t.Errorf("single-symbol BitsPerSymbol = %v, want 1", got)
	}
}

func TestContainerVersionMatchesBuildInfo(t *testing.T) {
	if containerVersion != version.ContainerVersion {
		t.Errorf("containerVersion = %d, version.ContainerVersion = %d", containerVersion, version.ContainerVersion)
	}
	if containerMagic[6] != containerVersion {
		t.Errorf("magic version byte = %d, want %d", containerMagic[6], containerVersion)
	}
}
