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

package classify

import (
	"github.com/wtsi-hgi/contigqc/align"
	"github.com/wtsi-hgi/contigqc/misassembly"
	"github.com/wtsi-hgi/contigqc/unaligned"
)

// Tag is the single, contig-level classification every contig ends up with.
type Tag string

const (
	TagUnaligned       Tag = "unaligned"
	TagCorrect         Tag = "correct"
	TagAmbiguous       Tag = "ambiguous"
	TagMisassembled    Tag = "misassembled"
	TagMostlyUnaligned Tag = "mostly-unaligned"
)

// Tags lists every Tag in report order.
var Tags = []Tag{TagCorrect, TagMisassembled, TagAmbiguous, TagMostlyUnaligned, TagUnaligned} //nolint:gochecknoglobals

// Contig is a contig to classify. If Seq is nil, Length gives its length and
// none of its bases are treated as N.
type Contig struct {
	Name   string
	Seq    []byte
	Length int
}

// Len returns the contig's length.
func (c *Contig) Len() int {
	if c.Seq != nil {
		return len(c.Seq)
	}

	return c.Length
}

// ContigReport describes how one contig was classified.
type ContigReport struct {
	Contig string
	Length int
	Tag    Tag

	// Ambiguous is true if more than one set of alignments explained the
	// contig about equally well, whatever the Tag.
	Ambiguous bool

	// Used are the alignments that count towards coverage; Classified are
	// the ones whose breakpoints were classified, in contig order.
	Used       []align.Alignment
	Classified []align.Alignment
	Skipped    int

	// ExtraBases is this contig's contribution to AmbiguousExtraBases.
	ExtraBases int

	Unaligned *unaligned.Report
	Outcome   *misassembly.Outcome

	// Potential are the potential interspecies translocation events found
	// in this contig's unaligned gaps, and PotentialByLabel their counts
	// against each reference label.
	Potential        []misassembly.Event
	PotentialByLabel map[string]int
}

// UnalignedInfo describes a fully or partially unaligned contig.
type UnalignedInfo struct {
	Contig    string
	Length    int
	Unaligned int
	Status    unaligned.Status
	Parts     unaligned.Ranges
}

// Result is the aggregate classification of every contig of an assembly.
type Result struct {
	Contigs int
	Tags    map[Tag]int

	FullyUnalignedBases     int
	PartiallyUnaligned      int
	PartiallyUnalignedBases int

	AmbiguousContigs       int
	AmbiguousContigsLength int
	AmbiguousExtraBases    int

	MisassembledContigs map[string]int
	MisassembledBases   int

	// HalfUnalignedWithMisassembly counts contigs tagged mostly unaligned.
	// Nothing else from their breakpoints is aggregated.
	HalfUnalignedWithMisassembly int

	// Misassemblies counts events by kind, excluding those that matched a
	// known structural variant.
	Misassemblies map[misassembly.Kind]int
	MatchedSV     int

	InternalOverlap int
	Indels          misassembly.IndelsInfo
	Translocations  misassembly.Matrix

	// PotentialMisassemblies counts potential interspecies translocations
	// by reference label; PotentiallyMisassembledContigs counts contigs with
	// at least one.
	PotentialMisassemblies         map[string]int
	PotentiallyMisassembledContigs int

	Events []misassembly.Event

	// RefAligns are the used alignments, per reference.
	RefAligns      map[string][]align.Alignment
	AlignedLengths []int

	Unaligned []UnalignedInfo
}

func newResult() *Result {
	return &Result{
		Tags:                   make(map[Tag]int),
		MisassembledContigs:    make(map[string]int),
		Misassemblies:          make(map[misassembly.Kind]int),
		Translocations:         make(misassembly.Matrix),
		PotentialMisassemblies: make(map[string]int),
		RefAligns:              make(map[string][]align.Alignment),
	}
}

// Misassembled returns the number of contigs tagged misassembled.
func (r *Result) Misassembled() int {
	return r.Tags[TagMisassembled]
}

// FullyUnaligned returns the number of contigs tagged unaligned.
func (r *Result) FullyUnaligned() int {
	return r.Tags[TagUnaligned]
}

// accumulator is the per-assembly state a Driver updates exactly once per
// contig.
type accumulator struct {
	result *Result
	seen   map[string]bool
}

func newAccumulator() *accumulator {
	return &accumulator{result: newResult(), seen: make(map[string]bool)}
}

func (a *accumulator) add(rep *ContigReport) {
	r := a.result
	r.Contigs++
	r.Tags[rep.Tag]++
	a.seen[rep.Contig] = true

	a.addUnaligned(rep)
	a.addUsed(rep)

	if rep.Ambiguous {
		r.AmbiguousContigs++
		r.AmbiguousContigsLength += rep.Length
		r.AmbiguousExtraBases += rep.ExtraBases
	}

	if len(rep.Potential) > 0 {
		r.PotentiallyMisassembledContigs++
		r.Misassemblies[misassembly.InterspeciesPotential] += len(rep.Potential)
		r.Events = append(r.Events, rep.Potential...)

		for label, n := range rep.PotentialByLabel {
			r.PotentialMisassemblies[label] += n
		}
	}

	a.addOutcome(rep)
}

func (a *accumulator) addUnaligned(rep *ContigReport) {
	if rep.Unaligned == nil || rep.Unaligned.Status == unaligned.FullyAligned {
		return
	}

	r := a.result
	ua := rep.Unaligned

	if ua.Status == unaligned.FullyUnaligned {
		r.FullyUnalignedBases += rep.Length
	} else {
		r.PartiallyUnaligned++
		r.PartiallyUnalignedBases += ua.Unaligned
	}

	r.Unaligned = append(r.Unaligned, UnalignedInfo{
		Contig:    rep.Contig,
		Length:    rep.Length,
		Unaligned: ua.Unaligned,
		Status:    ua.Status,
		Parts:     ua.Parts(),
	})
}

func (a *accumulator) addUsed(rep *ContigReport) {
	r := a.result

	for _, al := range rep.Used {
		r.RefAligns[al.Ref] = append(r.RefAligns[al.Ref], al)
		r.AlignedLengths = append(r.AlignedLengths, al.Len())
	}
}

func (a *accumulator) addOutcome(rep *ContigReport) {
	out := rep.Outcome
	if out == nil {
		return
	}

	r := a.result

	if rep.Tag == TagMostlyUnaligned {
		r.HalfUnalignedWithMisassembly++

		return
	}

	r.Indels.Add(out.Indels)
	r.InternalOverlap += out.InternalOverlap
	r.MatchedSV += out.MatchedSV
	r.Translocations.Add(out.Translocations)
	r.Events = append(r.Events, out.Events...)

	for _, e := range out.Events {
		if !e.MatchedSV {
			r.Misassemblies[e.Kind]++
		}
	}

	if out.Misassembled {
		r.MisassembledContigs[rep.Contig] = rep.Length
		r.MisassembledBases += rep.Length
	}
}
