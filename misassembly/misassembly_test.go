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
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtsi-hgi/contigqc/align"
)

func fwd(ref string, rs, re, cs, ce int) align.Alignment {
	return align.Alignment{
		Ref: ref, RefStart: rs, RefEnd: re, ContigStart: cs, ContigEnd: ce,
		Strand: align.Forward, Identity: 99,
	}
}

func rev(ref string, rs, re, cs, ce int) align.Alignment {
	a := fwd(ref, rs, re, cs, ce)
	a.Strand = align.Reverse

	return a
}

func TestBreakpoint(t *testing.T) {
	Convey("Given a classifier with default options", t, func() {
		c := New(DefaultOptions(), nil)

		Convey("Perfectly adjacent alignments are contiguous", func() {
			a, b := fwd("A", 500, 3500, 1, 3000), fwd("A", 3501, 6500, 3001, 6000)
			bp := c.Breakpoint(&a, &b, nil)
			So(bp.Kind, ShouldEqual, Kind(""))
			So(bp.Inconsistency, ShouldEqual, 0)
			So(bp.Misassembly(), ShouldBeFalse)
			So(bp.Corrected(), ShouldBeFalse)
		})

		Convey("Different references give a translocation", func() {
			a, b := fwd("A", 7601, 10000, 1, 2400), fwd("B", 1, 2401, 2600, 5000)
			bp := c.Breakpoint(&a, &b, nil)
			So(bp.Kind, ShouldEqual, Translocation)
			So(bp.ContigDistance, ShouldEqual, 199)
			So(bp.Misassembly(), ShouldBeTrue)
		})

		Convey("A strand flip gives an inversion", func() {
			a, b := fwd("A", 1, 1000, 1, 1000), rev("A", 1001, 2000, 1001, 2000)
			bp := c.Breakpoint(&a, &b, nil)
			So(bp.Kind, ShouldEqual, Inversion)
			So(bp.Misassembly(), ShouldBeTrue)
		})

		Convey("A large jump on the same strand is a relocation", func() {
			a, b := fwd("A", 1, 1000, 1, 1000), fwd("A", 5001, 6000, 1001, 2000)
			bp := c.Breakpoint(&a, &b, nil)
			So(bp.Kind, ShouldEqual, Relocation)
			So(bp.Inconsistency, ShouldEqual, 4000)
		})

		Convey("Reverse strand distances are measured backwards along the reference", func() {
			a, b := rev("A", 5001, 6000, 1, 1000), rev("A", 4001, 5000, 1001, 2000)
			bp := c.Breakpoint(&a, &b, nil)
			So(bp.Kind, ShouldEqual, Kind(""))
			So(bp.RefDistance, ShouldEqual, 0)
		})

		Convey("A medium jump is a local misassembly", func() {
			a, b := fwd("A", 1, 1000, 1, 1000), fwd("A", 1301, 2300, 1001, 2000)
			bp := c.Breakpoint(&a, &b, nil)
			So(bp.Kind, ShouldEqual, Local)
			So(bp.Misassembly(), ShouldBeFalse)
			So(bp.Corrected(), ShouldBeTrue)
		})

		Convey("A small jump is only an indel", func() {
			a, b := fwd("A", 1, 1000, 1, 1000), fwd("A", 1011, 2010, 1001, 2000)
			bp := c.Breakpoint(&a, &b, nil)
			So(bp.Kind, ShouldEqual, Kind(""))
			So(bp.Inconsistency, ShouldEqual, 10)
			So(bp.Corrected(), ShouldBeTrue)
		})

		Convey("A gap full of Ns is a scaffold gap, not a misassembly", func() {
			seq := append(bytes.Repeat([]byte("A"), 1000), bytes.Repeat([]byte("N"), 200)...)
			seq = append(seq, bytes.Repeat([]byte("C"), 1000)...)
			a, b := fwd("A", 1, 1000, 1, 1000), fwd("B", 1, 1000, 1201, 2200)
			bp := c.Breakpoint(&a, &b, seq)
			So(bp.Kind, ShouldEqual, ScaffoldGap)
			So(bp.Misassembly(), ShouldBeFalse)

			for i := 1100; i <= 1110; i++ {
				seq[i] = 'A'
			}

			bp = c.Breakpoint(&a, &b, seq)
			So(bp.Kind, ShouldEqual, Translocation)
		})

		Convey("Contig overlap beyond what the reference explains is internal overlap", func() {
			a, b := fwd("A", 1, 1000, 1, 1000), fwd("A", 1001, 2000, 951, 1950)
			bp := c.Breakpoint(&a, &b, nil)
			So(bp.InternalOverlap, ShouldEqual, 50)
			So(bp.Inconsistency, ShouldEqual, 50)

			b = fwd("A", 951, 1950, 951, 1950)
			bp = c.Breakpoint(&a, &b, nil)
			So(bp.InternalOverlap, ShouldEqual, 0)
			So(bp.Kind, ShouldEqual, Kind(""))

			b = fwd("B", 1, 1000, 951, 1950)
			bp = c.Breakpoint(&a, &b, nil)
			So(bp.InternalOverlap, ShouldEqual, 50)
		})
	})

	Convey("Given a cyclic reference", t, func() {
		refs := &References{Lengths: map[string]int{"A": 10000}, Cyclic: true}
		c := New(DefaultOptions(), refs)

		Convey("A join across the origin is contiguous", func() {
			a, b := fwd("A", 9001, 10000, 1, 1000), fwd("A", 1, 1000, 1001, 2000)
			bp := c.Breakpoint(&a, &b, nil)
			So(bp.CyclicJoin, ShouldBeTrue)
			So(bp.Kind, ShouldEqual, Kind(""))
			So(bp.Inconsistency, ShouldEqual, 0)
		})

		Convey("It is a relocation if the reference is linear", func() {
			refs.Cyclic = false
			a, b := fwd("A", 9001, 10000, 1, 1000), fwd("A", 1, 1000, 1001, 2000)
			bp := c.Breakpoint(&a, &b, nil)
			So(bp.CyclicJoin, ShouldBeFalse)
			So(bp.Kind, ShouldEqual, Relocation)
		})
	})

	Convey("Given a combined reference", t, func() {
		refs := &References{
			Labels:   map[string]string{"chr1": "human", "chr2": "human", "plasmid": "ecoli"},
			Combined: true,
		}
		c := New(DefaultOptions(), refs)

		Convey("Translocations between labels are interspecies", func() {
			a, b := fwd("chr1", 1, 1000, 1, 1000), fwd("plasmid", 1, 1000, 1001, 2000)
			bp := c.Breakpoint(&a, &b, nil)
			So(bp.Kind, ShouldEqual, InterspeciesTranslocation)

			b = fwd("chr2", 1, 1000, 1001, 2000)
			bp = c.Breakpoint(&a, &b, nil)
			So(bp.Kind, ShouldEqual, Translocation)
		})

		Convey("Unlabelled references are their own label", func() {
			So(refs.Label("chr1"), ShouldEqual, "human")
			So(refs.Label("other"), ShouldEqual, "other")
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("Classifying a translocated contig counts it in the matrix", t, func() {
		c := New(DefaultOptions(), nil)
		aligns := []align.Alignment{fwd("A", 7601, 10000, 1, 2400), fwd("B", 1, 2401, 2600, 5000)}

		out := c.Classify("ctg", aligns, nil)
		So(out.Misassembled, ShouldBeTrue)
		So(out.Events, ShouldHaveLength, 1)
		So(out.Events[0].Kind, ShouldEqual, Translocation)
		So(out.Events[0].Contig, ShouldEqual, "ctg")
		So(out.Events[0].Left.Ref, ShouldEqual, "A")
		So(out.Events[0].Right.Ref, ShouldEqual, "B")
		So(out.Translocations.Get("A", "B"), ShouldEqual, 1)
		So(out.Translocations.Get("B", "A"), ShouldEqual, 1)
		So(out.Count(Translocation), ShouldEqual, 1)

		out.Events[0].Left.Ref = "changed"
		So(aligns[0].Ref, ShouldEqual, "A")
	})

	Convey("A contig with only local misassemblies and indels is not misassembled", t, func() {
		c := New(DefaultOptions(), nil)
		aligns := []align.Alignment{
			fwd("A", 1, 1000, 1, 1000),
			fwd("A", 1301, 2300, 1001, 2000),
			fwd("A", 2311, 3310, 2001, 3000),
			fwd("A", 3311, 4300, 3001, 3990),
		}

		out := c.Classify("ctg", aligns, nil)
		So(out.Misassembled, ShouldBeFalse)
		So(out.Events, ShouldHaveLength, 1)
		So(out.Events[0].Kind, ShouldEqual, Local)
		So(out.Indels.Deletions, ShouldEqual, 310)
		So(out.Indels.Insertions, ShouldEqual, 0)
		So(out.Indels.Mismatches, ShouldEqual, 0)
		So(out.Indels.Indels, ShouldResemble, []int{300, 10})

		aligns[3] = fwd("A", 3316, 4300, 3006, 3990)
		out = c.Classify("ctg", aligns, nil)
		So(out.Indels.Mismatches, ShouldEqual, 5)
		So(out.Indels.Deletions, ShouldEqual, 310)
	})

	Convey("A known structural variant spanning a breakpoint downgrades it", t, func() {
		a, b := fwd("A", 1, 1000, 1, 1000), fwd("A", 5001, 6000, 1001, 2000)
		svs := NewSVIndex([]SVRegion{{Ref: "A", Start: 1000, End: 5001, Kind: Relocation}}, 0)
		c := New(DefaultOptions(), &References{SVs: svs})

		out := c.Classify("ctg", []align.Alignment{a, b}, nil)
		So(out.Misassembled, ShouldBeFalse)
		So(out.MatchedSV, ShouldEqual, 1)
		So(out.Events, ShouldHaveLength, 1)
		So(out.Events[0].MatchedSV, ShouldBeTrue)
		So(out.Count(Relocation), ShouldEqual, 0)

		Convey("But not if it is of a different kind or misses the breakpoint", func() {
			svs = NewSVIndex([]SVRegion{{Ref: "A", Start: 1000, End: 5001, Kind: Inversion}}, 0)
			c = New(DefaultOptions(), &References{SVs: svs})
			So(c.Classify("ctg", []align.Alignment{a, b}, nil).Misassembled, ShouldBeTrue)

			svs = NewSVIndex([]SVRegion{{Ref: "A", Start: 1001, End: 5001}}, 0)
			c = New(DefaultOptions(), &References{SVs: svs})
			So(c.Classify("ctg", []align.Alignment{a, b}, nil).Misassembled, ShouldBeTrue)

			svs = NewSVIndex([]SVRegion{{Ref: "A", Start: 1001, End: 5001}}, 1)
			c = New(DefaultOptions(), &References{SVs: svs})
			So(c.Classify("ctg", []align.Alignment{a, b}, nil).Misassembled, ShouldBeFalse)
		})

		Convey("Another qualifying breakpoint still makes the contig misassembled", func() {
			d := fwd("B", 1, 1000, 2001, 3000)
			out := c.Classify("ctg", []align.Alignment{a, b, d}, nil)
			So(out.Misassembled, ShouldBeTrue)
			So(out.MatchedSV, ShouldEqual, 1)
		})
	})
}

func TestIndelsInfo(t *testing.T) {
	Convey("IndelsInfo totals do not depend on the order they are added", t, func() {
		parts := []IndelsInfo{
			{Mismatches: 1, Insertions: 2, Deletions: 3, Indels: []int{2, 3}},
			{Mismatches: 4, Deletions: 10, Indels: []int{10}},
			{Insertions: 7, Indels: []int{7}},
		}

		var forward, backward, grouped IndelsInfo
		for _, p := range parts {
			forward.Add(p)
		}

		for i := len(parts) - 1; i >= 0; i-- {
			backward.Add(parts[i])
		}

		var tail IndelsInfo
		tail.Add(parts[1])
		tail.Add(parts[2])
		grouped.Add(parts[0])
		grouped.Add(tail)

		for _, got := range []IndelsInfo{backward, grouped} {
			So(got.Mismatches, ShouldEqual, forward.Mismatches)
			So(got.Insertions, ShouldEqual, forward.Insertions)
			So(got.Deletions, ShouldEqual, forward.Deletions)
			So(got.Total(), ShouldEqual, 22)
			So(got.Indels, ShouldHaveLength, 4)
		}
	})
}

func TestKindAndMatrix(t *testing.T) {
	Convey("You can convert strings to Kinds", t, func() {
		for s, k := range map[string]Kind{
			"":                           "",
			"reloc":                      Relocation,
			"Translocation":              Translocation,
			"INV":                        Inversion,
			"interspecies_translocation": InterspeciesTranslocation,
			"scaffold-gap":               ScaffoldGap,
		} {
			got, err := StringToKind(s)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, k)
		}

		_, err := StringToKind("foo")
		So(err, ShouldEqual, ErrInvalidKind)
	})

	Convey("Only relocations, translocations and inversions are extensive", t, func() {
		So(Relocation.Extensive(), ShouldBeTrue)
		So(InterspeciesTranslocation.Extensive(), ShouldBeTrue)
		So(Local.Extensive(), ShouldBeFalse)
		So(ScaffoldGap.Extensive(), ShouldBeFalse)
		So(InterspeciesPotential.Extensive(), ShouldBeFalse)
	})

	Convey("Matrices are symmetric and can be added", t, func() {
		m := make(Matrix)
		m.Inc("A", "B")
		m.Inc("A", "A")

		other := make(Matrix)
		other.Inc("B", "C")
		m.Add(other)

		So(m.Get("A", "B"), ShouldEqual, 1)
		So(m.Get("B", "A"), ShouldEqual, 1)
		So(m.Get("A", "A"), ShouldEqual, 1)
		So(m.Get("C", "B"), ShouldEqual, 1)
		So(m.Get("A", "C"), ShouldEqual, 0)
		So(m.Labels(), ShouldResemble, []string{"A", "B", "C"})
	})
}

func TestSVIndex(t *testing.T) {
	Convey("Given an index of known structural variants", t, func() {
		svs := NewSVIndex([]SVRegion{
			{Ref: "A", Start: 1000, End: 5001, Kind: Relocation},
			{Ref: "A", Start: 20000, End: 30000, Kind: Inversion},
			{Ref: "A", Start: 4000, End: 4500},
			{Ref: "B", Start: 100, End: 200, Kind: Translocation},
			{Ref: "A", Start: 10, End: 5},
		}, 0)

		So(svs.Len(), ShouldEqual, 4)

		match := func(kind Kind, a, b align.Alignment) bool {
			return svs.Match(kind, &a, &b)
		}

		Convey("breakpoints within a reference must fall inside a region of a compatible kind", func() {
			So(match(Relocation, fwd("A", 1, 1000, 1, 1000), fwd("A", 5001, 6000, 1001, 2000)), ShouldBeTrue)
			So(match(Relocation, fwd("A", 1, 4100, 1, 4100), fwd("A", 4400, 5000, 4101, 4701)), ShouldBeTrue)
			So(match(Relocation, fwd("A", 1, 999, 1, 999), fwd("A", 5001, 6000, 1001, 2000)), ShouldBeFalse)
			So(match(Relocation, fwd("A", 1, 25000, 1, 25000), fwd("A", 26000, 27000, 25001, 26001)), ShouldBeFalse)
			So(match(Inversion, fwd("A", 1, 25000, 1, 25000), fwd("A", 26000, 27000, 25001, 26001)), ShouldBeTrue)
		})

		Convey("breakpoints between references need a region on either side", func() {
			So(match(InterspeciesTranslocation, fwd("C", 1, 50, 1, 50), fwd("B", 150, 400, 51, 301)), ShouldBeTrue)
			So(match(Translocation, fwd("C", 1, 50, 1, 50), fwd("B", 300, 400, 51, 151)), ShouldBeFalse)
		})

		Convey("a nil or empty index matches nothing", func() {
			var none *SVIndex
			So(none.Len(), ShouldEqual, 0)
			So(none.Match(Relocation, &align.Alignment{Ref: "A"}, &align.Alignment{Ref: "A"}), ShouldBeFalse)
			So(NewSVIndex(nil, 100).Len(), ShouldEqual, 0)
		})
	})
}
