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

// Package batch classifies independent assemblies in parallel.
package batch

import (
	"context"
	"fmt"
	"sync"

	"github.com/wtsi-hgi/contigqc/align"
	"github.com/wtsi-hgi/contigqc/classify"
)

type Error string

func (e Error) Error() string { return string(e) }

const ErrPanic = Error("classification panicked")

// Job is one assembly to classify.
type Job struct {
	Name    string
	Options classify.Options
	Contigs []classify.Contig
	Aligns  map[string][]align.Alignment
}

// Outcome is the result of a Job. Exactly one of Result and Err is set.
type Outcome struct {
	Name   string
	Result *classify.Result
	Err    error
}

// Run classifies each job with its own classify.Driver, using up to workers
// goroutines, and returns the outcomes in job order. A failing job only
// affects its own Outcome. Jobs not started before ctx is cancelled get the
// context's error.
func Run(ctx context.Context, jobs []Job, workers int) []Outcome {
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]Outcome, len(jobs))
	indexes := make(chan int, workers*2)

	var wg sync.WaitGroup

	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()

			for i := range indexes {
				outcomes[i] = runJob(ctx, &jobs[i])
			}
		}()
	}

	for i := range jobs {
		indexes <- i
	}

	close(indexes)
	wg.Wait()

	return outcomes
}

func runJob(ctx context.Context, job *Job) (out Outcome) {
	out.Name = job.Name

	if err := ctx.Err(); err != nil {
		out.Err = err

		return out
	}

	defer func() {
		if r := recover(); r != nil {
			out.Result = nil
			out.Err = fmt.Errorf("%w: %s: %v", ErrPanic, job.Name, r)
		}
	}()

	out.Result, out.Err = classify.Run(job.Options, job.Contigs, job.Aligns)

	return out
}
