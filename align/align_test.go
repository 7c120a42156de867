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
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAlignment(t *testing.T) {
	Convey("Given a forward alignment", t, func() {
		a := &Alignment{
			Ref: "chr1", RefStart: 101, RefEnd: 200,
			ContigStart: 1, ContigEnd: 100, Strand: Forward, Identity: 99,
		}

		Convey("Len and RefLen are inclusive", func() {
			So(a.Len(), ShouldEqual, 100)
			So(a.RefLen(), ShouldEqual, 100)
		})

		Convey("Its ref positions at the contig ends follow the strand", func() {
			So(a.LeftRefPos(), ShouldEqual, 101)
			So(a.RightRefPos(), ShouldEqual, 200)

			a.Strand = Reverse
			So(a.LeftRefPos(), ShouldEqual, 200)
			So(a.RightRefPos(), ShouldEqual, 101)
		})

		Convey("It validates when consistent", func() {
			So(a.Validate(100, 1000), ShouldBeNil)
			So(a.Validate(0, 0), ShouldBeNil)
		})

		Convey("Invalid coordinates are rejected, not clamped", func() {
			a.RefStart = 300
			err := a.Validate(100, 1000)
			So(errors.Is(err, ErrInvalidRange), ShouldBeTrue)
			So(a.RefStart, ShouldEqual, 300)

			a.RefStart = 101
			a.ContigStart = 0
			So(errors.Is(a.Validate(100, 1000), ErrInvalidRange), ShouldBeTrue)
		})

		Convey("Identity must be a percentage", func() {
			a.Identity = 100.5
			So(errors.Is(a.Validate(100, 1000), ErrInvalidIdentity), ShouldBeTrue)

			a.Identity = -1
			So(errors.Is(a.Validate(100, 1000), ErrInvalidIdentity), ShouldBeTrue)

			a.Identity = math.NaN()
			So(errors.Is(a.Validate(100, 1000), ErrInvalidIdentity), ShouldBeTrue)
		})

		Convey("It must fit in the contig and reference", func() {
			So(errors.Is(a.Validate(99, 1000), ErrOutOfContig), ShouldBeTrue)
			So(errors.Is(a.Validate(100, 150), ErrOutOfReference), ShouldBeTrue)
		})

		Convey("A reference is required", func() {
			a.Ref = ""
			So(a.Validate(100, 1000), ShouldEqual, ErrMissingRef)
		})

		Convey("String shows both coordinate systems", func() {
			So(a.String(), ShouldEqual, "101 200 | 1 100 | 100 100 | 99.00 | chr1 +")
		})
	})
}

func TestScore(t *testing.T) {
	Convey("Score increases with length and with identity", t, func() {
		a := &Alignment{Ref: "r", RefStart: 1, RefEnd: 100, ContigStart: 1, ContigEnd: 100, Identity: 90}
		longer := *a
		longer.ContigEnd = 101
		better := *a
		better.Identity = 91

		So(Score(a), ShouldAlmostEqual, 90)
		So(Score(&longer), ShouldBeGreaterThan, Score(a))
		So(Score(&better), ShouldBeGreaterThan, Score(a))
		So(PartialScore(a, 10), ShouldAlmostEqual, 9)
	})

	Convey("ByScore ranks by score, then length, then position", t, func() {
		aligns := []Alignment{
			{Ref: "r", ContigStart: 1, ContigEnd: 100, Identity: 50},
			{Ref: "r", ContigStart: 201, ContigEnd: 300, Identity: 100},
			{Ref: "r", ContigStart: 1, ContigEnd: 200, Identity: 50},
			{Ref: "r", ContigStart: 101, ContigEnd: 200, Identity: 100},
		}

		sorted := SortByScore(aligns)
		So(sorted[0].ContigStart, ShouldEqual, 1)
		So(sorted[0].ContigEnd, ShouldEqual, 200)
		So(sorted[1].ContigStart, ShouldEqual, 101)
		So(sorted[2].ContigStart, ShouldEqual, 201)
		So(sorted[3].ContigEnd, ShouldEqual, 100)
		So(aligns[0].ContigEnd, ShouldEqual, 100)
	})

	Convey("SortByContig orders by end then start", t, func() {
		sorted := SortByContig([]Alignment{
			{ContigStart: 50, ContigEnd: 300},
			{ContigStart: 10, ContigEnd: 300},
			{ContigStart: 1, ContigEnd: 100},
		})
		So(sorted[0].ContigEnd, ShouldEqual, 100)
		So(sorted[1].ContigStart, ShouldEqual, 10)
		So(sorted[2].ContigStart, ShouldEqual, 50)
	})

	Convey("Covered counts each contig base once", t, func() {
		So(Covered(nil), ShouldEqual, 0)
		So(Covered([]Alignment{
			{ContigStart: 1, ContigEnd: 100},
			{ContigStart: 51, ContigEnd: 150},
			{ContigStart: 60, ContigEnd: 70},
			{ContigStart: 201, ContigEnd: 300},
		}), ShouldEqual, 250)
	})
}
