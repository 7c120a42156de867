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

package fasta

import (
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const testFasta = ">ctg1 len=12\nACGTacgt\nNNNN\n\n>ctg2\r\nGGCC\r\n>ctg3\tcircular\nnnAC\n"

func TestRead(t *testing.T) {
	Convey("Read parses every record", t, func() {
		records, err := Read(strings.NewReader(testFasta))
		So(err, ShouldBeNil)
		So(records, ShouldResemble, []Record{
			{Name: "ctg1", Seq: []byte("ACGTACGTNNNN")},
			{Name: "ctg2", Seq: []byte("GGCC")},
			{Name: "ctg3", Seq: []byte("NNAC")},
		})
	})

	Convey("A final line without a newline is not lost", t, func() {
		records, err := Read(strings.NewReader(">a\nAC\nGT"))
		So(err, ShouldBeNil)
		So(string(records[0].Seq), ShouldEqual, "ACGT")
	})

	Convey("Leading blank lines are allowed, and empty input has no records", t, func() {
		records, err := Read(strings.NewReader("\n \n>a\nAC\n"))
		So(err, ShouldBeNil)
		So(records, ShouldResemble, []Record{{Name: "a", Seq: []byte("AC")}})

		records, err = Read(strings.NewReader(""))
		So(err, ShouldBeNil)
		So(records, ShouldBeEmpty)
	})

	Convey("Malformed FASTA is rejected", t, func() {
		_, err := Read(strings.NewReader("ACGT\n>a\nAC\n"))
		So(errors.Is(err, ErrNoHeader), ShouldBeTrue)

		_, err = Read(strings.NewReader(">\nAC\n"))
		So(err, ShouldNotBeNil)

		_, err = Read(strings.NewReader(">a\nAC\n>a\nGT\n"))
		So(errors.Is(err, ErrDuplicate), ShouldBeTrue)
	})
}

func TestReadFile(t *testing.T) {
	Convey("Given plain and gzipped FASTA files", t, func() {
		dir := t.TempDir()
		plain := filepath.Join(dir, "contigs.fa")
		So(os.WriteFile(plain, []byte(testFasta), 0o600), ShouldBeNil)

		gzPath := filepath.Join(dir, "contigs.fa.gz")
		fh, err := os.Create(gzPath)
		So(err, ShouldBeNil)

		gw := gzip.NewWriter(fh)
		_, err = gw.Write([]byte(testFasta))
		So(err, ShouldBeNil)
		So(gw.Close(), ShouldBeNil)
		So(fh.Close(), ShouldBeNil)

		Convey("both read the same records", func() {
			fromPlain, err := ReadFile(plain)
			So(err, ShouldBeNil)
			So(len(fromPlain), ShouldEqual, 3)

			fromGz, err := ReadFile(gzPath)
			So(err, ShouldBeNil)
			So(fromGz, ShouldResemble, fromPlain)
		})

		Convey("missing files are an error", func() {
			_, err := ReadFile(filepath.Join(dir, "missing.fa"))
			So(err, ShouldNotBeNil)
		})

		Convey("a corrupt gzip file is an error", func() {
			So(os.WriteFile(gzPath, []byte(testFasta), 0o600), ShouldBeNil)
			_, err := ReadFile(gzPath)
			So(err, ShouldNotBeNil)
		})
	})
}
