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

package misassembly

import (
	"github.com/biogo/store/interval"
	"github.com/wtsi-hgi/contigqc/align"
)

// DefaultSVTolerance is how far, in reference bases, a breakpoint may fall
// outside a structural variant region and still match it.
const DefaultSVTolerance = 100

// SVRegion is a known structural variant on a reference. A blank Kind matches
// events of any kind.
type SVRegion struct {
	Ref   string
	Start int
	End   int
	Kind  Kind
}

func (r *SVRegion) matchesKind(k Kind) bool {
	switch r.Kind {
	case "", k:
		return true
	case Translocation:
		return k == InterspeciesTranslocation
	default:
		return false
	}
}

func (r *SVRegion) spans(lo, hi, tolerance int) bool {
	return r.Start-tolerance <= lo && hi <= r.End+tolerance
}

// svInterval is an SVRegion widened by the match tolerance, as stored in an
// interval tree. Ranges are half-open.
type svInterval struct {
	region SVRegion
	lo, hi int
	id     uintptr
}

func (i svInterval) Overlap(b interval.IntRange) bool { return i.lo < b.End && b.Start < i.hi }

func (i svInterval) Range() interval.IntRange { return interval.IntRange{Start: i.lo, End: i.hi} }

func (i svInterval) ID() uintptr { return i.id }

// svQuery is the inclusive reference span [lo, hi] of a breakpoint.
type svQuery struct{ lo, hi int }

func (q svQuery) Overlap(b interval.IntRange) bool { return q.lo < b.End && b.Start <= q.hi }

func (q svQuery) Range() interval.IntRange { return interval.IntRange{Start: q.lo, End: q.hi + 1} }

func (q svQuery) ID() uintptr { return 0 }

// SVIndex lets you look up known structural variants that explain a
// breakpoint.
type SVIndex struct {
	byRef     map[string]*interval.IntTree
	tolerance int
	n         int
}

// NewSVIndex indexes the given regions in an interval tree per reference.
// Regions ending before they start are not indexed.
func NewSVIndex(regions []SVRegion, tolerance int) *SVIndex {
	idx := &SVIndex{
		byRef:     make(map[string]*interval.IntTree),
		tolerance: tolerance,
	}

	for i := range regions {
		r := regions[i]
		if r.End < r.Start {
			continue
		}

		tree, ok := idx.byRef[r.Ref]
		if !ok {
			tree = &interval.IntTree{}
			idx.byRef[r.Ref] = tree
		}

		iv := svInterval{region: r, lo: r.Start - tolerance, hi: r.End + tolerance + 1, id: uintptr(i + 1)}
		if err := tree.Insert(iv, false); err != nil {
			continue
		}

		idx.n++
	}

	return idx
}

// Len returns the number of indexed regions.
func (s *SVIndex) Len() int {
	if s == nil {
		return 0
	}

	return s.n
}

// Match tells you if a known variant of a compatible kind spans the
// breakpoint between a and b, where a precedes b on the contig. For a
// breakpoint within one reference the region must span both breakpoint
// positions; for one between references a region around either side is
// enough.
func (s *SVIndex) Match(kind Kind, a, b *align.Alignment) bool {
	if s.Len() == 0 {
		return false
	}

	p1, p2 := a.RightRefPos(), b.LeftRefPos()

	if a.Ref == b.Ref {
		return s.find(kind, a.Ref, min(p1, p2), max(p1, p2))
	}

	return s.find(kind, a.Ref, p1, p1) || s.find(kind, b.Ref, p2, p2)
}

func (s *SVIndex) find(kind Kind, ref string, lo, hi int) bool {
	tree, ok := s.byRef[ref]
	if !ok {
		return false
	}

	for _, e := range tree.Get(svQuery{lo: lo, hi: hi}) {
		iv, ok := e.(svInterval)
		if !ok {
			continue
		}

		if iv.region.matchesKind(kind) && iv.region.spans(lo, hi, s.tolerance) {
			return true
		}
	}

	return false
}
