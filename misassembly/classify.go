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
	"github.com/wtsi-hgi/contigqc/align"
)

// Event is a classified breakpoint, or a potential interspecies translocation
// found in an unaligned gap. Left is nil for a gap at the start of a contig;
// Right is nil for a gap at the end.
type Event struct {
	Contig        string
	Kind          Kind
	Left          *align.Alignment
	Right         *align.Alignment
	Inconsistency int
	MatchedSV     bool
}

// NewEvent returns an Event for the breakpoint between copies of a and b.
func NewEvent(contig string, bp *Breakpoint, a, b *align.Alignment) Event {
	return Event{
		Contig:        contig,
		Kind:          bp.Kind,
		Left:          clone(a),
		Right:         clone(b),
		Inconsistency: bp.Inconsistency,
		MatchedSV:     bp.MatchedSV,
	}
}

func clone(a *align.Alignment) *align.Alignment {
	if a == nil {
		return nil
	}

	c := *a

	return &c
}

// Outcome is the result of classifying all the breakpoints of one contig.
type Outcome struct {
	Events          []Event
	Indels          IndelsInfo
	Translocations  Matrix
	InternalOverlap int
	MatchedSV       int
	Misassembled    bool
}

// Count returns the number of events of the given kind, ignoring those that
// matched a known structural variant.
func (o *Outcome) Count(k Kind) int {
	n := 0

	for _, e := range o.Events {
		if e.Kind == k && !e.MatchedSV {
			n++
		}
	}

	return n
}

// Classify walks the consecutive pairs of the given alignments, which must be
// sorted by contig position (see align.SortByContig), and classifies each
// breakpoint.
func (c *Classifier) Classify(contig string, sorted []align.Alignment, seq []byte) *Outcome {
	out := &Outcome{Translocations: make(Matrix)}

	for i := 1; i < len(sorted); i++ {
		a, b := &sorted[i-1], &sorted[i]
		bp := c.Breakpoint(a, b, seq)

		out.InternalOverlap += bp.InternalOverlap

		if bp.Corrected() {
			out.Indels.Add(estimateIndels(&bp))
		}

		if bp.Kind == "" {
			continue
		}

		out.Events = append(out.Events, NewEvent(contig, &bp, a, b))

		if bp.MatchedSV {
			out.MatchedSV++

			continue
		}

		if bp.Kind == Translocation || bp.Kind == InterspeciesTranslocation {
			out.Translocations.Inc(c.refs.Label(a.Ref), c.refs.Label(b.Ref))
		}

		if bp.Misassembly() {
			out.Misassembled = true
		}
	}

	return out
}
