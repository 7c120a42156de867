/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Authors:
 *	- Sendu Bala <sb10@sanger.ac.uk>
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

// Package fasta reads assembly contigs from (optionally gzipped) FASTA files.
package fasta

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	biofasta "github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrNoHeader  = Error("sequence before first FASTA header")
	ErrNoName    = Error("FASTA header without a name")
	ErrDuplicate = Error("duplicate FASTA record name")

	stdinPath    = "-"
	gzSuffix     = ".gz"
	headerPrefix = '>'
)

// Record is a named sequence. Bases are upper-cased.
type Record struct {
	Name string
	Seq  []byte
}

// Read reads every record from r. The name of a record is the first word of
// its header line.
func Read(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)
	if err := checkStartsWithHeader(br); err != nil {
		return nil, err
	}

	sc := seqio.NewScanner(biofasta.NewReader(br, linear.NewSeq("", nil, alphabet.DNAredundant)))
	seen := make(map[string]bool)

	var records []Record

	for sc.Next() {
		s, ok := sc.Seq().(*linear.Seq)
		if !ok {
			continue
		}

		fields := strings.Fields(s.Name())
		if len(fields) == 0 {
			return nil, fmt.Errorf("%w: record %d", ErrNoName, len(records)+1)
		}

		name := fields[0]

		if seen[name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, name)
		}

		seen[name] = true
		records = append(records, Record{Name: name, Seq: upperBases(s.Seq)})
	}

	if err := sc.Error(); err != nil {
		return nil, err
	}

	return records, nil
}

// checkStartsWithHeader returns ErrNoHeader if the first non-blank byte of br
// is not the start of a header. Nothing is consumed except leading
// whitespace.
func checkStartsWithHeader(br *bufio.Reader) error {
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			return nil
		}

		if err != nil {
			return err
		}

		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case headerPrefix:
			return br.UnreadByte()
		default:
			return ErrNoHeader
		}
	}
}

// upperBases returns the letters as upper-case bytes, without any line-ending
// or other whitespace the reader left in.
func upperBases(letters alphabet.Letters) []byte {
	if len(letters) == 0 {
		return nil
	}

	out := make([]byte, 0, len(letters))

	for _, l := range letters {
		switch l {
		case ' ', '\t', '\r', '\n':
			continue
		}

		out = append(out, byte(l))
	}

	return bytes.ToUpper(out)
}

// ReadFile is like Read, but reads the given path, which may be gzipped
// (ending .gz), or "-" for STDIN.
func ReadFile(path string) ([]Record, error) {
	rc, err := open(path)
	if err != nil {
		return nil, err
	}

	defer rc.Close()

	return Read(rc)
}

func open(path string) (io.ReadCloser, error) {
	if path == stdinPath {
		return io.NopCloser(os.Stdin), nil
	}

	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(path, gzSuffix) {
		return fh, nil
	}

	gr, err := gzip.NewReader(fh)
	if err != nil {
		fh.Close()

		return nil, err
	}

	return struct {
		io.Reader
		io.Closer
	}{Reader: gr, Closer: fh}, nil
}
