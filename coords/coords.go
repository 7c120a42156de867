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

// Package coords reads the alignments of contigs to references, along with
// the reference lengths and known structural variants, from the files an
// aligner or the user provides.
package coords

import (
	"fmt"
	"io"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/fai"
	"github.com/biogo/hts/sam"
	"github.com/wtsi-hgi/contigqc/align"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrNoAlignedBases = Error("record has no aligned bases")
	ErrBadNM          = Error("record has an NM tag larger than its alignment")

	percent = 100.0
)

var nmTag = []byte("NM") //nolint:gochecknoglobals

// Alignments are the alignments read from a SAM or BAM file.
type Alignments struct {
	// ByContig holds each contig's alignments, in file order.
	ByContig map[string][]align.Alignment

	// ContigLengths are the full query lengths, including clipped bases.
	ContigLengths map[string]int

	// RefLengths are the lengths of the references in the header.
	RefLengths map[string]int
}

func newAlignments(h *sam.Header) *Alignments {
	a := &Alignments{
		ByContig:      make(map[string][]align.Alignment),
		ContigLengths: make(map[string]int),
		RefLengths:    make(map[string]int),
	}

	for _, ref := range h.Refs() {
		a.RefLengths[ref.Name()] = ref.Len()
	}

	return a
}

// ReadSAM reads SAM formatted alignments. Unmapped and secondary records are
// skipped; supplementary records are kept, since they are the other parts of
// a chimeric contig.
func ReadSAM(r io.Reader) (*Alignments, error) {
	sr, err := sam.NewReader(r)
	if err != nil {
		return nil, err
	}

	return readRecords(sr, sr.Header())
}

// ReadBAM is like ReadSAM, but for BAM files.
func ReadBAM(r io.Reader) (*Alignments, error) {
	br, err := bam.NewReader(r, 1)
	if err != nil {
		return nil, err
	}

	defer br.Close() //nolint:errcheck

	return readRecords(br, br.Header())
}

func readRecords(rr sam.RecordReader, h *sam.Header) (*Alignments, error) {
	aligns := newAlignments(h)
	it := sam.NewIterator(rr)

	for it.Next() {
		rec := it.Record()
		if rec.Flags&(sam.Unmapped|sam.Secondary) != 0 || rec.Ref == nil {
			continue
		}

		a, ctgLen, err := FromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rec.Name, err)
		}

		aligns.ByContig[rec.Name] = append(aligns.ByContig[rec.Name], a)
		aligns.ContigLengths[rec.Name] = max(aligns.ContigLengths[rec.Name], ctgLen)
	}

	if err := it.Error(); err != nil {
		return nil, err
	}

	return aligns, nil
}

// FromRecord converts a mapped SAM record to an Alignment, also returning the
// full length of the query. Contig coordinates are always given on the
// contig's forward strand, so for reverse strand records they are measured
// from the end of the (reverse complemented) query.
func FromRecord(rec *sam.Record) (align.Alignment, int, error) {
	lead, aligned, trail, columns, mismatches := walkCigar(rec.Cigar)
	if aligned == 0 {
		return align.Alignment{}, 0, ErrNoAlignedBases
	}

	if nm, ok := nmValue(rec); ok {
		mismatches = nm
	}

	if mismatches > columns {
		return align.Alignment{}, 0, fmt.Errorf("%w: %d > %d", ErrBadNM, mismatches, columns)
	}

	a := align.Alignment{
		Ref:         rec.Ref.Name(),
		RefStart:    rec.Pos + 1,
		RefEnd:      rec.End(),
		ContigStart: lead + 1,
		ContigEnd:   lead + aligned,
		Strand:      align.Forward,
		Identity:    percent * float64(columns-mismatches) / float64(columns),
	}

	if rec.Strand() < 0 {
		a.Strand = align.Reverse
		a.ContigStart = trail + 1
		a.ContigEnd = trail + aligned
	}

	return a, lead + aligned + trail, nil
}

// walkCigar returns the clipped bases before and after the aligned part of
// the query, the number of query bases in the aligned part, the number of
// alignment columns and the number of explicit mismatch columns.
func walkCigar(cigar sam.Cigar) (lead, aligned, trail, columns, mismatches int) {
	for _, co := range cigar {
		n := co.Len()

		switch t := co.Type(); t {
		case sam.CigarSoftClipped, sam.CigarHardClipped:
			if aligned == 0 {
				lead += n
			} else {
				trail += n
			}
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch, sam.CigarInsertion:
			aligned += n
			columns += n

			if t == sam.CigarMismatch {
				mismatches += n
			}
		case sam.CigarDeletion:
			columns += n
		}
	}

	return lead, aligned, trail, columns, mismatches
}

func nmValue(rec *sam.Record) (int, bool) {
	aux, ok := rec.Tag(nmTag)
	if !ok {
		return 0, false
	}

	switch v := aux.Value().(type) {
	case int8:
		return int(v), true
	case uint8:
		return int(v), true
	case int16:
		return int(v), true
	case uint16:
		return int(v), true
	case int32:
		return int(v), true
	case uint32:
		return int(v), true
	default:
		return 0, false
	}
}

// RefLengthsFromFai reads the reference lengths from a samtools faidx index.
func RefLengthsFromFai(r io.Reader) (map[string]int, error) {
	idx, err := fai.ReadFrom(r)
	if err != nil {
		return nil, err
	}

	lengths := make(map[string]int, len(idx))
	for name, rec := range idx {
		lengths[name] = rec.Length
	}

	return lengths, nil
}
