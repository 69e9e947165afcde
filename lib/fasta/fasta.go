// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fasta reads and writes FASTA sequence files.
//
// Lines starting with '>' begin a record; the text after it is the
// header, whose first whitespace-separated word is the record name.
// Following lines up to the next header are concatenated into the
// sequence with all whitespace removed. Residue case is preserved.
// Parsing is done by the biogo FASTA reader; this package adds
// compressed input and the single-record contract.
//
// [Open] transparently decompresses gzip and zstd input, detected by
// magic bytes rather than file extension.
package fasta

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	biofasta "github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ErrNotSingle is returned by [ReadSingle] when a file holds zero or
// more than one record.
var ErrNotSingle = errors.New("expected exactly one FASTA record")

// Record is one FASTA entry.
type Record struct {
	// Header is the full header line without the leading '>'.
	Header string

	// Sequence is the concatenated residues.
	Sequence []byte
}

// Name returns the first word of the header.
func (r Record) Name() string {
	fields := strings.Fields(r.Header)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// ParseError reports malformed FASTA input. Record is the number of
// complete records read before the failure.
type ParseError struct {
	Record int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("fasta: after record %d: %v", e.Record, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads every record from r.
func Parse(r io.Reader) ([]Record, error) {
	template := linear.NewSeq("", nil, alphabet.DNAredundant)
	scanner := seqio.NewScanner(biofasta.NewReader(r, template))
	records := []Record{}
	for scanner.Next() {
		parsed, ok := scanner.Seq().(*linear.Seq)
		if !ok {
			return nil, &ParseError{Record: len(records), Err: fmt.Errorf("unexpected sequence type %T", scanner.Seq())}
		}
		records = append(records, newRecord(parsed))
	}
	if err := scanner.Error(); err != nil {
		return nil, &ParseError{Record: len(records), Err: err}
	}
	return records, nil
}

// newRecord copies a parsed sequence out of the reader's
// representation.
func newRecord(parsed *linear.Seq) Record {
	header := parsed.Name()
	if description := parsed.Description(); description != "" {
		header += " " + description
	}
	residues := make([]byte, len(parsed.Seq))
	for i, letter := range parsed.Seq {
		residues[i] = byte(letter)
	}
	return Record{Header: header, Sequence: residues}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// NewReader wraps r, decompressing it if it starts with a gzip or zstd
// magic number. Close the returned reader to release decoder
// resources; closing does not close r.
func NewReader(r io.Reader) (io.ReadCloser, error) {
	buffered := bufio.NewReader(r)
	head, err := buffered.Peek(len(zstdMagic))
	if err != nil && err != io.EOF && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("fasta: reading magic: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		decompressor, err := gzip.NewReader(buffered)
		if err != nil {
			return nil, fmt.Errorf("fasta: opening gzip stream: %w", err)
		}
		return decompressor, nil
	case bytes.HasPrefix(head, zstdMagic):
		decompressor, err := zstd.NewReader(buffered)
		if err != nil {
			return nil, fmt.Errorf("fasta: opening zstd stream: %w", err)
		}
		return decompressor.IOReadCloser(), nil
	default:
		return io.NopCloser(buffered), nil
	}
}

// Open opens path for reading, decompressing as [NewReader] does.
func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	reader, err := NewReader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &fileReader{ReadCloser: reader, file: file}, nil
}

// fileReader closes both the decompressor and the underlying file.
type fileReader struct {
	io.ReadCloser
	file *os.File
}

func (f *fileReader) Close() error {
	return errors.Join(f.ReadCloser.Close(), f.file.Close())
}

// ReadFile parses every record in the file at path.
func ReadFile(path string) ([]Record, error) {
	reader, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	records, err := Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// ReadSingle parses the file at path and requires exactly one record.
func ReadSingle(path string) (Record, error) {
	records, err := ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	if len(records) != 1 {
		return Record{}, fmt.Errorf("%s: %w, found %d", path, ErrNotSingle, len(records))
	}
	return records[0], nil
}

// DefaultLineWidth is the sequence line width [Write] uses when given
// a non-positive width.
const DefaultLineWidth = 60

// Write emits records in FASTA format, wrapping sequence lines at
// lineWidth residues.
func Write(w io.Writer, records []Record, lineWidth int) error {
	if lineWidth <= 0 {
		lineWidth = DefaultLineWidth
	}
	writer := bufio.NewWriter(w)
	for _, record := range records {
		if _, err := fmt.Fprintf(writer, ">%s\n", record.Header); err != nil {
			return err
		}
		for start := 0; start < len(record.Sequence); start += lineWidth {
			end := min(start+lineWidth, len(record.Sequence))
			writer.Write(record.Sequence[start:end])
			writer.WriteByte('\n')
		}
	}
	return writer.Flush()
}
