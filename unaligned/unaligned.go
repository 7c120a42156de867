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

// Package unaligned finds the parts of a contig that none of its accepted
// alignments cover.
package unaligned

import (
	"fmt"
	"strings"

	"github.com/wtsi-hgi/contigqc/align"
	"github.com/wtsi-hgi/contigqc/misassembly"
)

const (
	DefaultUnalignedPartSize    = 500
	DefaultGapFilledNsThreshold = misassembly.DefaultGapFilledNsThreshold
)

// Options control gap analysis.
type Options struct {
	// UnalignedPartSize is the smallest gap that makes a contig partially
	// unaligned, and the smallest non-N length a gap needs to be a potential
	// misassembly.
	UnalignedPartSize int

	// GapFilledNsThreshold is the fraction of Ns at or above which a gap is
	// considered a scaffold gap rather than unexplained sequence.
	GapFilledNsThreshold float64
}

// DefaultOptions returns Options with the default values.
func DefaultOptions() Options {
	return Options{
		UnalignedPartSize:    DefaultUnalignedPartSize,
		GapFilledNsThreshold: DefaultGapFilledNsThreshold,
	}
}

// Status says how much of a contig is aligned.
type Status int

const (
	FullyAligned Status = iota
	PartiallyUnaligned
	FullyUnaligned
)

func (s Status) String() string {
	switch s {
	case PartiallyUnaligned:
		return "partially unaligned"
	case FullyUnaligned:
		return "fully unaligned"
	default:
		return "fully aligned"
	}
}

// Range is a 1-based inclusive span of contig positions.
type Range struct {
	Start, End int
}

// Len returns the number of positions in the range.
func (r Range) Len() int {
	return r.End - r.Start + 1
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Ranges is a list of Range.
type Ranges []Range

// String joins the ranges with commas, eg. "1-300,9001-10000".
func (rs Ranges) String() string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = r.String()
	}

	return strings.Join(parts, ",")
}

// Gap is a stretch of contig not covered by any alignment. Left is the
// alignment before it (nil for a leading gap) and Right the one after it (nil
// for a trailing gap).
type Gap struct {
	Range
	NonN  int
	Left  *align.Alignment
	Right *align.Alignment
}

// Ns returns the number of N bases in the gap.
func (g *Gap) Ns() int {
	return g.Len() - g.NonN
}

// Report is the result of Analyze().
type Report struct {
	Gaps      []Gap
	Status    Status
	Length    int
	Unaligned int
	opts      Options
}

// Aligned returns the number of contig bases covered by an alignment.
func (r *Report) Aligned() int {
	return r.Length - r.Unaligned
}

// Parts returns the gaps that are large enough to make a contig partially
// unaligned, or the whole contig if it is fully unaligned.
func (r *Report) Parts() Ranges {
	var parts Ranges

	for i := range r.Gaps {
		if r.Status == FullyUnaligned || r.Gaps[i].Len() >= r.opts.UnalignedPartSize {
			parts = append(parts, r.Gaps[i].Range)
		}
	}

	return parts
}

// Qualifying returns the gaps that look like real, unexplained sequence: they
// are not mostly N and have at least UnalignedPartSize non-N bases.
func (r *Report) Qualifying() []Gap {
	var gaps []Gap

	for _, g := range r.Gaps {
		if float64(g.Ns())/float64(g.Len()) < r.opts.GapFilledNsThreshold &&
			g.NonN >= r.opts.UnalignedPartSize {
			gaps = append(gaps, g)
		}
	}

	return gaps
}

// Potential counts potential misassemblies per reference label: every
// Qualifying() gap counts once against the label of the alignment after it
// and once against the label of the alignment before it.
func (r *Report) Potential(label func(ref string) string) map[string]int {
	counts := make(map[string]int)

	for _, g := range r.Qualifying() {
		if g.Right != nil {
			counts[label(g.Right.Ref)]++
		}

		if g.Left != nil {
			counts[label(g.Left.Ref)]++
		}
	}

	return counts
}

// Analyze finds the gaps between the given alignments of a contig of the
// given length. seq is the contig sequence, used to count Ns; if nil, every
// base counts as non-N.
func Analyze(seq []byte, ctgLen int, aligns []align.Alignment, opts Options) *Report {
	r := &Report{Length: ctgLen, opts: opts}
	sorted := align.SortByStart(aligns)

	var left *align.Alignment

	lastEnd := 0

	for i := range sorted {
		cur := &sorted[i]

		if cur.ContigStart > lastEnd+1 {
			r.addGap(seq, Range{Start: lastEnd + 1, End: cur.ContigStart - 1}, left, cur)
		}

		if cur.ContigEnd > lastEnd {
			lastEnd = cur.ContigEnd
			left = cur
		}
	}

	if ctgLen > lastEnd {
		r.addGap(seq, Range{Start: lastEnd + 1, End: ctgLen}, left, nil)
	}

	r.Status = r.status()

	return r
}

func (r *Report) addGap(seq []byte, rng Range, left, right *align.Alignment) {
	nonN := rng.Len()
	if rng.End <= len(seq) {
		nonN -= misassembly.CountNs(seq[rng.Start-1 : rng.End])
	}

	r.Gaps = append(r.Gaps, Gap{Range: rng, NonN: nonN, Left: clone(left), Right: clone(right)})
	r.Unaligned += rng.Len()
}

func clone(a *align.Alignment) *align.Alignment {
	if a == nil {
		return nil
	}

	c := *a

	return &c
}

func (r *Report) status() Status {
	if r.Unaligned >= r.Length {
		return FullyUnaligned
	}

	for i := range r.Gaps {
		if r.Gaps[i].Len() >= r.opts.UnalignedPartSize {
			return PartiallyUnaligned
		}
	}

	return FullyAligned
}
