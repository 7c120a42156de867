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

package batch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtsi-hgi/contigqc/align"
	"github.com/wtsi-hgi/contigqc/ambiguity"
	"github.com/wtsi-hgi/contigqc/classify"
)

func translocatedJob(name string) Job {
	return Job{
		Name:    name,
		Options: classify.DefaultOptions(),
		Contigs: []classify.Contig{{Name: "c1", Length: 5000}, {Name: "c2", Length: 1000}},
		Aligns: map[string][]align.Alignment{
			"c1": {
				{Ref: "A", RefStart: 7601, RefEnd: 10000, ContigStart: 1, ContigEnd: 2400, Strand: align.Forward, Identity: 99},
				{Ref: "B", RefStart: 1, RefEnd: 2401, ContigStart: 2600, ContigEnd: 5000, Strand: align.Forward, Identity: 99},
			},
		},
	}
}

func TestRun(t *testing.T) {
	Convey("Given several independent assemblies", t, func() {
		var jobs []Job
		for i := 0; i < 5; i++ {
			jobs = append(jobs, translocatedJob(fmt.Sprintf("asm%d", i)))
		}

		bad := translocatedJob("bad")
		bad.Options.Policy = ambiguity.Policy(9)
		jobs = append(jobs, bad)

		invalid := translocatedJob("invalid")
		invalid.Contigs[1].Length = 0
		jobs = append(jobs, invalid)

		Convey("they are classified in parallel, each with its own result", func() {
			outcomes := Run(context.Background(), jobs, 3)
			So(len(outcomes), ShouldEqual, len(jobs))

			for i := 0; i < 5; i++ {
				So(outcomes[i].Name, ShouldEqual, fmt.Sprintf("asm%d", i))
				So(outcomes[i].Err, ShouldBeNil)
				So(outcomes[i].Result.Contigs, ShouldEqual, 2)
				So(outcomes[i].Result.Misassembled(), ShouldEqual, 1)
				So(outcomes[i].Result.Translocations.Get("A", "B"), ShouldEqual, 1)
				So(outcomes[i].Result.FullyUnaligned(), ShouldEqual, 1)
			}

			So(outcomes[0].Result, ShouldNotPointTo, outcomes[1].Result)

			Convey("and a failing assembly only fails itself", func() {
				So(outcomes[5].Name, ShouldEqual, "bad")
				So(outcomes[5].Result, ShouldBeNil)
				So(errors.Is(outcomes[5].Err, ambiguity.ErrUnknownPolicy), ShouldBeTrue)

				So(outcomes[6].Result, ShouldBeNil)
				So(errors.Is(outcomes[6].Err, classify.ErrContig), ShouldBeTrue)
				So(outcomes[6].Err.Error(), ShouldContainSubstring, "c2")
			})
		})

		Convey("a single worker gives the same results", func() {
			outcomes := Run(context.Background(), jobs, 0)
			So(len(outcomes), ShouldEqual, len(jobs))
			So(outcomes[4].Result.Misassembled(), ShouldEqual, 1)
		})

		Convey("jobs are not started once the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			outcomes := Run(ctx, jobs, 2)
			for _, o := range outcomes {
				So(errors.Is(o.Err, context.Canceled), ShouldBeTrue)
				So(o.Result, ShouldBeNil)
			}
		})
	})
}
