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

package align

import (
	"sort"
)

const percent = 100.0

// Score is the number of matched bases the alignment is expected to explain,
// ie. its aligned length weighted by its identity. It only ranks alignments
// against each other; it is never compared to an absolute threshold.
func Score(a *Alignment) float64 {
	return float64(a.Len()) * a.Identity / percent
}

// PartialScore is like Score, but for only n of the alignment's bases.
func PartialScore(a *Alignment, n int) float64 {
	return float64(n) * a.Identity / percent
}

// ByScore orders alignments best first. The keys, in order, are:
//
//  1. Score, descending.
//  2. Len, descending.
//  3. ContigStart, ascending.
//  4. ContigEnd, ascending.
//  5. Ref, then RefStart, ascending.
//
// The last keys only exist to make the order total, so that the same input
// always produces the same ranking.
type ByScore []Alignment

func (b ByScore) Len() int      { return len(b) }
func (b ByScore) Swap(i, j int) { b[i], b[j] = b[j], b[i] }

func (b ByScore) Less(i, j int) bool {
	return Better(&b[i], &b[j])
}

// Better returns true if a ranks before b in the ByScore order.
func Better(a, b *Alignment) bool {
	if sa, sb := Score(a), Score(b); sa != sb {
		return sa > sb
	}

	if a.Len() != b.Len() {
		return a.Len() > b.Len()
	}

	if a.ContigStart != b.ContigStart {
		return a.ContigStart < b.ContigStart
	}

	if a.ContigEnd != b.ContigEnd {
		return a.ContigEnd < b.ContigEnd
	}

	if a.Ref != b.Ref {
		return a.Ref < b.Ref
	}

	return a.RefStart < b.RefStart
}

// SortByScore returns a sorted copy of aligns, best first.
func SortByScore(aligns []Alignment) []Alignment {
	sorted := make([]Alignment, len(aligns))
	copy(sorted, aligns)
	sort.Stable(ByScore(sorted))

	return sorted
}

// SortByContig returns a copy of aligns sorted by contig end, then contig
// start, which is the order breakpoints are walked in.
func SortByContig(aligns []Alignment) []Alignment {
	sorted := make([]Alignment, len(aligns))
	copy(sorted, aligns)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ContigEnd != sorted[j].ContigEnd {
			return sorted[i].ContigEnd < sorted[j].ContigEnd
		}

		return sorted[i].ContigStart < sorted[j].ContigStart
	})

	return sorted
}

// Covered returns the number of contig bases covered by at least one of the
// given alignments.
func Covered(aligns []Alignment) int {
	sorted := SortByStart(aligns)
	covered, lastEnd := 0, 0

	for i := range sorted {
		start, end := sorted[i].ContigStart, sorted[i].ContigEnd
		if end <= lastEnd {
			continue
		}

		if start <= lastEnd {
			start = lastEnd + 1
		}

		covered += end - start + 1
		lastEnd = end
	}

	return covered
}

// SortByStart returns a copy of aligns sorted by contig start, then contig
// end.
func SortByStart(aligns []Alignment) []Alignment {
	sorted := make([]Alignment, len(aligns))
	copy(sorted, aligns)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ContigStart != sorted[j].ContigStart {
			return sorted[i].ContigStart < sorted[j].ContigStart
		}

		return sorted[i].ContigEnd < sorted[j].ContigEnd
	})

	return sorted
}
