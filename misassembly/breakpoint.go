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

const (
	DefaultExtensiveThreshold   = 1000
	DefaultMaxIndelLength       = 85
	DefaultGapFilledNsThreshold = 0.95
	DefaultOverlapTolerance     = 0
)

// Options are the thresholds used to classify breakpoints.
type Options struct {
	// ExtensiveThreshold is the inconsistency, in bases, between the
	// reference and contig distances of two alignments above which their
	// breakpoint is a relocation.
	ExtensiveThreshold int

	// MaxIndelLength is the largest inconsistency that is just an indel;
	// larger ones (up to ExtensiveThreshold) are local misassemblies.
	MaxIndelLength int

	// GapFilledNsThreshold is the fraction of N bases at or above which the
	// contig gap between two alignments is a scaffold gap.
	GapFilledNsThreshold float64

	// OverlapTolerance is the number of contig bases two consecutive
	// alignments may share before it is counted as internal overlap.
	OverlapTolerance int

	// SVTolerance is passed to NewSVIndex by References users.
	SVTolerance int
}

// DefaultOptions returns Options with the default thresholds.
func DefaultOptions() Options {
	return Options{
		ExtensiveThreshold:   DefaultExtensiveThreshold,
		MaxIndelLength:       DefaultMaxIndelLength,
		GapFilledNsThreshold: DefaultGapFilledNsThreshold,
		OverlapTolerance:     DefaultOverlapTolerance,
		SVTolerance:          DefaultSVTolerance,
	}
}

// References describes what the contigs were aligned against.
type References struct {
	// Lengths of each reference sequence, needed for cyclic references.
	Lengths map[string]int

	// Labels group reference sequences, eg. by the input file (species) they
	// came from in a combined-reference run. Sequences without a label are
	// their own label.
	Labels map[string]string

	// Cyclic treats every reference as circular.
	Cyclic bool

	// Combined enables the interspecies checks between differently labelled
	// references.
	Combined bool

	// SVs are the known structural variants; may be nil.
	SVs *SVIndex
}

// Label returns the label for the given reference sequence.
func (r *References) Label(ref string) string {
	if r == nil {
		return ref
	}

	if l, ok := r.Labels[ref]; ok && l != "" {
		return l
	}

	return ref
}

func (r *References) interspecies(a, b string) bool {
	return r != nil && r.Combined && r.Label(a) != r.Label(b)
}

func (r *References) cyclicLen(ref string) int {
	if r == nil || !r.Cyclic {
		return 0
	}

	return r.Lengths[ref]
}

// Breakpoint describes the join between two alignments that are consecutive
// on a contig.
type Breakpoint struct {
	// Kind is blank when the join is contiguous or only an indel.
	Kind Kind

	ContigDistance  int
	RefDistance     int
	Inconsistency   int
	InternalOverlap int

	// CyclicJoin is true when the reference distance was measured across the
	// origin of a circular reference.
	CyclicJoin bool

	MatchedSV bool
}

// Misassembly tells you if this breakpoint makes its contig misassembled.
func (b *Breakpoint) Misassembly() bool {
	return b.Kind.Extensive() && !b.MatchedSV
}

// Corrected tells you if the breakpoint was small enough to be explained by
// indels and mismatches, and there were some.
func (b *Breakpoint) Corrected() bool {
	if b.Kind != "" && b.Kind != Local {
		return false
	}

	return b.Inconsistency != 0 || (b.ContigDistance > 0 && b.RefDistance > 0)
}

// Classifier classifies breakpoints against a set of references.
type Classifier struct {
	opts Options
	refs *References
}

// New returns a Classifier. refs may be nil if there is a single, linear
// reference and no known structural variants.
func New(opts Options, refs *References) *Classifier {
	return &Classifier{opts: opts, refs: refs}
}

// Breakpoint classifies the join between a and b, where a comes before b on
// the contig (by contig end, then start). seq is the contig sequence, used to
// spot scaffold gaps; it may be nil.
func (c *Classifier) Breakpoint(a, b *align.Alignment, seq []byte) Breakpoint {
	bp := Breakpoint{ContigDistance: b.ContigStart - a.ContigEnd - 1}

	switch {
	case a.Ref != b.Ref:
		bp.Kind = Translocation
		if c.refs.interspecies(a.Ref, b.Ref) {
			bp.Kind = InterspeciesTranslocation
		}
	case a.Strand != b.Strand:
		bp.Kind = Inversion
		bp.RefDistance = b.LeftRefPos() - a.RightRefPos() - 1
	default:
		c.measureSameStrand(a, b, &bp)
	}

	bp.InternalOverlap = c.internalOverlap(&bp)

	if bp.Kind != "" || bp.Inconsistency != 0 {
		if c.isScaffoldGap(a, b, seq, &bp) {
			bp.Kind = ScaffoldGap

			return bp
		}
	}

	if bp.Kind.Extensive() && c.refs != nil {
		bp.MatchedSV = c.refs.SVs.Match(bp.Kind, a, b)
	}

	return bp
}

func (c *Classifier) measureSameStrand(a, b *align.Alignment, bp *Breakpoint) {
	if a.IsReverse() {
		bp.RefDistance = a.RefStart - b.RefEnd - 1
	} else {
		bp.RefDistance = b.RefStart - a.RefEnd - 1
	}

	if refLen := c.refs.cyclicLen(a.Ref); refLen > 0 {
		bp.RefDistance, bp.CyclicJoin = cyclicDistance(bp.RefDistance, bp.ContigDistance, refLen)
	}

	bp.Inconsistency = bp.RefDistance - bp.ContigDistance

	switch inc := abs(bp.Inconsistency); {
	case inc > c.opts.ExtensiveThreshold:
		bp.Kind = Relocation
	case inc > c.opts.MaxIndelLength:
		bp.Kind = Local
	}
}

// cyclicDistance returns the reference distance that best agrees with the
// contig distance when the reference may be crossed through its origin in
// either direction.
func cyclicDistance(refDist, ctgDist, refLen int) (int, bool) {
	best, wrapped := refDist, false

	for _, alt := range []int{refDist + refLen, refDist - refLen} {
		if abs(alt-ctgDist) < abs(best-ctgDist) {
			best, wrapped = alt, true
		}
	}

	return best, wrapped
}

func (c *Classifier) internalOverlap(bp *Breakpoint) int {
	if bp.ContigDistance >= 0 {
		return 0
	}

	overlap := -bp.ContigDistance

	sameStrand := bp.Kind == "" || bp.Kind == Local || bp.Kind == Relocation
	if sameStrand && bp.RefDistance < 0 {
		// the reference overlaps too, so only the excess is internal
		overlap = max(0, bp.RefDistance-bp.ContigDistance)
	}

	if overlap <= c.opts.OverlapTolerance {
		return 0
	}

	return overlap
}

// isScaffoldGap checks if the contig bases between a and b are mostly Ns.
func (c *Classifier) isScaffoldGap(a, b *align.Alignment, seq []byte, bp *Breakpoint) bool {
	if seq == nil || bp.ContigDistance <= 0 || b.ContigStart-1 > len(seq) {
		return false
	}

	ns := CountNs(seq[a.ContigEnd : b.ContigStart-1])

	return float64(ns)/float64(bp.ContigDistance) >= c.opts.GapFilledNsThreshold
}

// CountNs counts the N (or n) bases in seq.
func CountNs(seq []byte) int {
	n := 0

	for _, base := range seq {
		if base == 'N' || base == 'n' {
			n++
		}
	}

	return n
}

func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}
