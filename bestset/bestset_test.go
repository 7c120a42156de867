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

package bestset

import (
	"sort"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtsi-hgi/contigqc/align"
	"github.com/wtsi-hgi/contigqc/misassembly"
)

func aln(ref string, rs, re, cs, ce int, identity float64) align.Alignment {
	return align.Alignment{
		Ref: ref, RefStart: rs, RefEnd: re, ContigStart: cs, ContigEnd: ce,
		Strand: align.Forward, Identity: identity,
	}
}

func newSelector() *Selector {
	mopts := misassembly.DefaultOptions()

	return New(DefaultOptions(), mopts, misassembly.New(mopts, nil))
}

func TestSelect(t *testing.T) {
	Convey("Given a selector with default options", t, func() {
		s := newSelector()

		Convey("No candidates give no sets", func() {
			sel := s.Select(nil, 1000, nil)
			So(sel.Sets, ShouldBeEmpty)
			So(sel.Best(), ShouldBeNil)
			So(sel.Ambiguous(), ShouldBeFalse)
			So(sel.Used(), ShouldBeEmpty)
		})

		Convey("A single full-length alignment is a trivial set", func() {
			sel := s.Select([]align.Alignment{aln("A", 1, 1000, 1, 1000, 99)}, 1000, nil)
			So(sel.Trivial, ShouldBeTrue)
			So(len(sel.Sets), ShouldEqual, 1)
			So(sel.Best().Indexes, ShouldResemble, []int{0})
			So(sel.Best().Uncovered, ShouldEqual, 0)
			So(sel.Ambiguous(), ShouldBeFalse)
		})

		Convey("A top alignment covering at least 99% short-circuits, whatever else there is", func() {
			aligns := []align.Alignment{
				aln("B", 1, 500, 1, 500, 100),
				aln("A", 1, 995, 1, 995, 99),
				aln("C", 1, 400, 501, 900, 100),
			}
			sel := s.Select(aligns, 1000, nil)
			So(sel.Trivial, ShouldBeTrue)
			So(len(sel.Sets), ShouldEqual, 1)
			So(sel.Aligns[sel.Best().Indexes[0]].Ref, ShouldEqual, "A")
			So(sel.Best().Uncovered, ShouldEqual, 5)
			So(sel.Skipped(), ShouldResemble, []int{1, 2})
		})

		Convey("Equally good full-length alignments are ambiguous", func() {
			aligns := []align.Alignment{
				aln("A", 1, 1000, 1, 1000, 99),
				aln("B", 1, 1000, 1, 1000, 99),
				aln("C", 1, 1000, 1, 1000, 90),
			}
			sel := s.Select(aligns, 1000, nil)
			So(sel.Trivial, ShouldBeTrue)
			So(sel.Ambiguous(), ShouldBeTrue)
			So(len(sel.Sets), ShouldEqual, 2)
			So(sel.Used(), ShouldResemble, []int{0, 1})
			So(sel.Skipped(), ShouldResemble, []int{2})
		})

		Convey("Two alignments to different references are combined despite the penalty", func() {
			a := aln("A", 7601, 10000, 1, 2400, 99)
			b := aln("B", 1, 2401, 2600, 5000, 99)
			sel := s.Select([]align.Alignment{a, b}, 5000, nil)
			So(sel.Trivial, ShouldBeFalse)
			So(sel.Ambiguous(), ShouldBeFalse)

			best := sel.Best()
			So(best, ShouldNotBeNil)
			So(len(best.Indexes), ShouldEqual, 2)
			So(best.Uncovered, ShouldEqual, 199)
			So(best.MostlyUnaligned, ShouldBeFalse)
			So(best.Score, ShouldAlmostEqual, align.Score(&a)+align.Score(&b)-249, 0.001)

			inOrder := sel.Alignments(best)
			So(inOrder[0].Ref, ShouldEqual, "A")
			So(inOrder[1].Ref, ShouldEqual, "B")
		})

		Convey("A short relocated tail is not worth its breakpoint", func() {
			a := aln("A", 1, 1000, 1, 1000, 99)
			b := aln("A", 50001, 50050, 1001, 1050, 99)
			sel := s.Select([]align.Alignment{b, a}, 1050, nil)
			So(sel.Trivial, ShouldBeFalse)
			So(sel.Ambiguous(), ShouldBeFalse)
			So(len(sel.Best().Indexes), ShouldEqual, 1)
			So(sel.Alignments(sel.Best())[0].RefStart, ShouldEqual, 1)
		})

		Convey("Overlapping alignments do not score their shared bases twice", func() {
			a := aln("A", 1, 1000, 1, 1000, 99)
			b := aln("A", 951, 2000, 951, 2000, 99)
			sel := s.Select([]align.Alignment{a, b}, 2000, nil)
			So(len(sel.Best().Indexes), ShouldEqual, 2)
			So(sel.Best().Score, ShouldAlmostEqual, 1980, 0.001)
			So(sel.Best().Uncovered, ShouldEqual, 0)
		})

		Convey("Alignments overlapping by more than half the shorter one are incompatible", func() {
			a := aln("A", 1, 1000, 1, 1000, 99)
			b := aln("B", 1, 1000, 101, 1100, 99)
			sel := s.Select([]align.Alignment{a, b}, 2000, nil)
			So(sel.Ambiguous(), ShouldBeTrue)

			for _, set := range sel.Sets {
				So(len(set.Indexes), ShouldEqual, 1)
			}
		})

		Convey("Sets covering less than half the contig are mostly unaligned", func() {
			aligns := []align.Alignment{
				aln("A", 1, 1000, 1, 1000, 99),
				aln("A", 1001, 2000, 2001, 3000, 99),
			}
			sel := s.Select(aligns, 10000, nil)
			So(len(sel.Best().Indexes), ShouldEqual, 2)
			So(sel.Best().Uncovered, ShouldEqual, 8000)
			So(sel.Best().MostlyUnaligned, ShouldBeTrue)
		})

		Convey("Too many near-tied sets are capped, and every candidate is then used", func() {
			refs := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}
			aligns := make([]align.Alignment, len(refs))

			for i, ref := range refs {
				aligns[i] = aln(ref, 1, 500, 1, 500, 99)
			}

			sel := s.Select(aligns, 1000, nil)
			So(sel.TooManySets, ShouldBeTrue)
			So(len(sel.Sets), ShouldEqual, DefaultMaxBestSets)
			So(len(sel.Used()), ShouldEqual, len(refs))
			So(sel.Skipped(), ShouldBeEmpty)
		})

		Convey("Selection is deterministic and ignores input order", func() {
			aligns := []align.Alignment{
				aln("A", 1, 1000, 1, 1000, 99),
				aln("B", 1, 1000, 1001, 2000, 99),
				aln("C", 1, 1000, 1001, 2000, 99),
				aln("A", 1001, 2000, 2001, 3000, 98),
			}
			reversed := []align.Alignment{aligns[3], aligns[2], aligns[1], aligns[0]}

			first := s.Select(aligns, 3000, nil)
			second := s.Select(reversed, 3000, nil)
			So(second.Sets, ShouldResemble, first.Sets)
			So(second.Aligns, ShouldResemble, first.Aligns)
		})
	})
}

func TestOrder(t *testing.T) {
	Convey("Sets are ordered by score, then uncovered, then indexes", t, func() {
		sets := []Set{
			{Indexes: []int{2}, Score: 100, Uncovered: 10},
			{Indexes: []int{1}, Score: 200, Uncovered: 50},
			{Indexes: []int{0, 3}, Score: 100, Uncovered: 10},
			{Indexes: []int{0, 1}, Score: 100, Uncovered: 10},
			{Indexes: []int{4}, Score: 100, Uncovered: 5},
		}
		sort.Sort(Order(sets))

		So(sets[0].Indexes, ShouldResemble, []int{1})
		So(sets[1].Indexes, ShouldResemble, []int{4})
		So(sets[2].Indexes, ShouldResemble, []int{0, 1})
		So(sets[3].Indexes, ShouldResemble, []int{0, 3})
		So(sets[4].Indexes, ShouldResemble, []int{2})
	})
}
