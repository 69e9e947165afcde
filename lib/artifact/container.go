// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/chronos-tachyon/assert"

	"github.com/bureau-foundation/genomeencode/lib/bwt"
	"github.com/bureau-foundation/genomeencode/lib/codec"
	"github.com/bureau-foundation/genomeencode/lib/huffman"
)

// Container format constants.
const (
	// containerVersion is the format version in byte 6 of the magic.
	containerVersion = 1

	// headerSize is the fixed header: 8-byte magic + 4-byte metadata
	// length.
	headerSize = 12

	// maxMetadataSize bounds the metadata block. A full 256-symbol
	// code table plus the fixed fields encodes in well under 2 KiB.
	maxMetadataSize = 64 << 10

	// maxNameLength bounds the record name stored in metadata.
	maxNameLength = 4096
)

// containerMagic is the 8-byte file signature: "GENOME" + version byte
// + reserved byte.
var containerMagic = [8]byte{'G', 'E', 'N', 'O', 'M', 'E', containerVersion, 0}

// metadata is the CBOR form of an artifact's fields. Integer keys keep
// the block compact; the key numbers are format constants.
type metadata struct {
	OriginalLength     uint64       `cbor:"1,keyasint"`
	TransformedLength  uint64       `cbor:"2,keyasint"`
	Transform          uint8        `cbor:"3,keyasint"`
	PrimaryIndex       uint64       `cbor:"4,keyasint"`
	CodeLengths        []codeLength `cbor:"5,keyasint"`
	PaddingBits        uint8        `cbor:"6,keyasint"`
	PayloadCompression uint8        `cbor:"7,keyasint"`
	PayloadStoredSize  uint64       `cbor:"8,keyasint"`
	PayloadRawSize     uint64       `cbor:"9,keyasint"`
	Checksum           []byte       `cbor:"10,keyasint"`
	Name               string       `cbor:"11,keyasint,omitempty"`
}

// codeLength is one code table entry, encoded as a two-element array.
type codeLength struct {
	_      struct{} `cbor:",toarray"`
	Symbol uint8
	Length uint8
}

func (a *Artifact) metadata() metadata {
	lengths := make([]codeLength, len(a.CodeLengths))
	for i, entry := range a.CodeLengths {
		lengths[i] = codeLength{Symbol: entry.Symbol, Length: entry.Length}
	}
	return metadata{
		OriginalLength:     uint64(a.OriginalLength),
		TransformedLength:  uint64(a.TransformedLength),
		Transform:          uint8(a.Transform),
		PrimaryIndex:       uint64(a.PrimaryIndex),
		CodeLengths:        lengths,
		PaddingBits:        uint8(a.PaddingBits),
		PayloadCompression: uint8(a.PayloadCompression),
		PayloadStoredSize:  uint64(len(a.Payload)),
		PayloadRawSize:     uint64(a.PayloadRawSize),
		Checksum:           a.Checksum[:],
		Name:               a.Name,
	}
}

func (a *Artifact) encodeMetadata() []byte {
	data, err := codec.Marshal(a.metadata())
	// Every field is a fixed-width integer, byte string, or array of
	// those; encoding cannot fail.
	assert.Assertf(err == nil, "encoding artifact metadata: %v", err)
	return data
}

// MarshalBinary serialises the artifact. The artifact is validated
// first; an invalid artifact is never written.
func (a *Artifact) MarshalBinary() ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	meta := a.encodeMetadata()

	var buffer bytes.Buffer
	buffer.Grow(headerSize + len(meta) + len(a.Payload))
	buffer.Write(containerMagic[:])
	var lengthBytes [4]byte
	binary.LittleEndian.PutUint32(lengthBytes[:], uint32(len(meta)))
	buffer.Write(lengthBytes[:])
	buffer.Write(meta)
	buffer.Write(a.Payload)
	return buffer.Bytes(), nil
}

// UnmarshalBinary replaces a with the artifact serialised in data.
func (a *Artifact) UnmarshalBinary(data []byte) error {
	decoded, err := Unmarshal(data)
	if err != nil {
		return err
	}
	*a = *decoded
	return nil
}

// Unmarshal parses and validates a serialised artifact. Every failure
// is a [*CorruptError]. The returned artifact's Payload aliases data.
func Unmarshal(data []byte) (*Artifact, error) {
	if len(data) < headerSize {
		return nil, corrupt("header", "%d bytes, need at least %d", len(data), headerSize)
	}
	if !bytes.Equal(data[:6], containerMagic[:6]) {
		return nil, corrupt("magic", "invalid magic %q", data[:6])
	}
	if data[6] != containerVersion {
		return nil, corrupt("version", "unsupported version %d (want %d)", data[6], containerVersion)
	}
	if data[7] != 0 {
		return nil, corrupt("header", "reserved byte is %d (want 0)", data[7])
	}

	metaLength := binary.LittleEndian.Uint32(data[8:12])
	if metaLength > maxMetadataSize || int(metaLength) > len(data)-headerSize {
		return nil, corrupt("metadata", "length %d exceeds available %d bytes (max %d)",
			metaLength, len(data)-headerSize, maxMetadataSize)
	}
	metaBytes := data[headerSize : headerSize+int(metaLength)]
	payload := data[headerSize+int(metaLength):]

	var meta metadata
	if err := codec.Unmarshal(metaBytes, &meta); err != nil {
		return nil, &CorruptError{Field: "metadata", Err: err}
	}

	for _, field := range []struct {
		name  string
		value uint64
		limit uint64
	}{
		{"original_length", meta.OriginalLength, bwt.MaxLength},
		{"transformed_length", meta.TransformedLength, bwt.MaxLength},
		{"primary_index", meta.PrimaryIndex, bwt.MaxLength},
		{"payload_raw_size", meta.PayloadRawSize, math.MaxInt / 8},
	} {
		if field.value > field.limit {
			return nil, corrupt(field.name, "value %d exceeds %d", field.value, field.limit)
		}
	}
	if meta.PayloadStoredSize != uint64(len(payload)) {
		return nil, corrupt("payload", "%d bytes present, metadata says %d", len(payload), meta.PayloadStoredSize)
	}
	var checksum Hash
	if len(meta.Checksum) != len(checksum) {
		return nil, corrupt("checksum", "%d bytes (want %d)", len(meta.Checksum), len(checksum))
	}
	copy(checksum[:], meta.Checksum)

	lengths := make([]huffman.SymbolLength, len(meta.CodeLengths))
	for i, entry := range meta.CodeLengths {
		lengths[i] = huffman.SymbolLength{Symbol: entry.Symbol, Length: entry.Length}
	}

	decoded := &Artifact{
		OriginalLength:     int(meta.OriginalLength),
		TransformedLength:  int(meta.TransformedLength),
		Transform:          Transform(meta.Transform),
		PrimaryIndex:       int(meta.PrimaryIndex),
		CodeLengths:        lengths,
		PaddingBits:        int(meta.PaddingBits),
		PayloadRawSize:     int(meta.PayloadRawSize),
		PayloadCompression: CompressionTag(meta.PayloadCompression),
		Payload:            payload,
		Checksum:           checksum,
		Name:               meta.Name,
	}
	if err := decoded.Validate(); err != nil {
		return nil, err
	}
	return decoded, nil
}

// MetadataBytes returns the raw CBOR metadata block of a serialised
// artifact without decoding it. Used by diagnostics.
func MetadataBytes(data []byte) ([]byte, error) {
	if len(data) < headerSize || !bytes.Equal(data[:6], containerMagic[:6]) {
		return nil, corrupt("header", "not a genome artifact")
	}
	metaLength := binary.LittleEndian.Uint32(data[8:12])
	if int64(metaLength) > int64(len(data)-headerSize) {
		return nil, corrupt("metadata", "length %d exceeds available %d bytes", metaLength, len(data)-headerSize)
	}
	return data[headerSize : headerSize+int(metaLength)], nil
}

// WriteFile atomically writes the serialised artifact to path: the
// bytes go to a temporary file in the same directory, which is synced
// and renamed into place. Readers never see a partial artifact.
func WriteFile(path string, a *Artifact) error {
	data, err := a.MarshalBinary()
	if err != nil {
		return err
	}

	file, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary artifact file: %w", err)
	}
	temporaryPath := file.Name()

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary artifact file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary artifact file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary artifact file: %w", err)
	}
	if err := os.Chmod(temporaryPath, 0o644); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("setting artifact file mode: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming artifact file into place: %w", err)
	}
	return nil
}

// ReadFile reads and parses an artifact file. When the file does not
// exist the returned error wraps os.ErrNotExist.
func ReadFile(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	decoded, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return decoded, nil
}
