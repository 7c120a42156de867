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

// Package align holds the alignment record shared by every stage of contig
// classification, along with the score used to rank candidate alignments.
package align

import (
	"fmt"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrMissingRef      = Error("alignment has no reference")
	ErrInvalidRange    = Error("invalid alignment coordinates")
	ErrInvalidIdentity = Error("alignment identity out of range")
	ErrOutOfContig     = Error("alignment extends past the end of the contig")
	ErrOutOfReference  = Error("alignment extends past the end of the reference")

	maxIdentity = 100
)

// Strand is the orientation of the contig relative to the reference.
type Strand int8

const (
	Forward Strand = 1
	Reverse Strand = -1
)

// String returns "+" or "-".
func (s Strand) String() string {
	if s == Reverse {
		return "-"
	}

	return "+"
}

// Alignment is a local match between a region of a contig and a region of a
// reference sequence. Coordinates are 1-based and inclusive, and are always
// stored with start <= end; Strand says whether the contig region reads along
// the reference forwards or backwards.
type Alignment struct {
	Ref         string
	RefStart    int
	RefEnd      int
	ContigStart int
	ContigEnd   int
	Strand      Strand
	Identity    float64
}

// Len is the aligned length on the contig.
func (a *Alignment) Len() int {
	return a.ContigEnd - a.ContigStart + 1
}

// RefLen is the aligned length on the reference.
func (a *Alignment) RefLen() int {
	return a.RefEnd - a.RefStart + 1
}

// IsReverse tells you if the contig region maps to the reverse strand.
func (a *Alignment) IsReverse() bool {
	return a.Strand == Reverse
}

// Validate checks the coordinates and identity of the alignment. A contig
// length or reference length <= 0 is treated as unknown and not checked.
func (a *Alignment) Validate(ctgLen, refLen int) error {
	if a.Ref == "" {
		return ErrMissingRef
	}

	if a.RefStart < 1 || a.RefStart > a.RefEnd || a.ContigStart < 1 || a.ContigStart > a.ContigEnd {
		return fmt.Errorf("%w: %s", ErrInvalidRange, a)
	}

	if !(a.Identity >= 0 && a.Identity <= maxIdentity) {
		return fmt.Errorf("%w: %s", ErrInvalidIdentity, a)
	}

	if ctgLen > 0 && a.ContigEnd > ctgLen {
		return fmt.Errorf("%w (%d): %s", ErrOutOfContig, ctgLen, a)
	}

	if refLen > 0 && a.RefEnd > refLen {
		return fmt.Errorf("%w (%d): %s", ErrOutOfReference, refLen, a)
	}

	return nil
}

// String describes the alignment the way it is shown in logs:
// [ref_start ref_end] | [contig_start contig_end] | ref_len ctg_len | idy | ref strand.
func (a *Alignment) String() string {
	return fmt.Sprintf("%d %d | %d %d | %d %d | %.2f | %s %s",
		a.RefStart, a.RefEnd, a.ContigStart, a.ContigEnd, a.RefLen(), a.Len(), a.Identity, a.Ref, a.Strand)
}

// LeftRefPos is the reference position at the contig-start side of the
// alignment.
func (a *Alignment) LeftRefPos() int {
	if a.IsReverse() {
		return a.RefEnd
	}

	return a.RefStart
}

// RightRefPos is the reference position at the contig-end side of the
// alignment.
func (a *Alignment) RightRefPos() int {
	if a.IsReverse() {
		return a.RefStart
	}

	return a.RefEnd
}
