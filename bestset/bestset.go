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

// Package bestset chooses, from all the candidate alignments of a contig, the
// set of compatible alignments that best explains it, keeping every set that
// scores nearly as well so that ambiguous contigs can be spotted.
package bestset

import (
	"math"
	"sort"

	"github.com/wtsi-hgi/contigqc/align"
	"github.com/wtsi-hgi/contigqc/misassembly"
)

const (
	DefaultAmbiguityScore          = 0.99
	DefaultTrivialCoverage         = 0.99
	DefaultTrivialMaxUnaligned     = 10
	DefaultMostlyUnalignedFraction = 0.5
	DefaultMaxBestSets             = 10
	DefaultMaxOverlapFraction      = 0.5

	minExtensivePenalty = 50
	minLocalPenalty     = 2
	extensiveCtgShare   = 0.05
	localCtgShare       = 0.01
)

// Options control selection.
type Options struct {
	// AmbiguityScore is the fraction of the best score that another set (or
	// another single alignment, in the trivial case) must reach to be
	// considered equally good.
	AmbiguityScore float64

	// TrivialCoverage and TrivialMaxUnaligned decide when the top alignment
	// alone explains the contig: it must cover more than TrivialCoverage of
	// the contig, or leave fewer than TrivialMaxUnaligned bases.
	TrivialCoverage     float64
	TrivialMaxUnaligned int

	// MostlyUnalignedFraction is the share of the contig a multi-alignment
	// set must cover for the contig to be treated as misassembled rather
	// than mostly unaligned.
	MostlyUnalignedFraction float64

	// MaxBestSets caps how many near-tied sets are kept.
	MaxBestSets int

	// MaxOverlapFraction is how much of the shorter of two alignments may
	// overlap on the contig for both to be in the same set.
	MaxOverlapFraction float64
}

// DefaultOptions returns Options with the default values.
func DefaultOptions() Options {
	return Options{
		AmbiguityScore:          DefaultAmbiguityScore,
		TrivialCoverage:         DefaultTrivialCoverage,
		TrivialMaxUnaligned:     DefaultTrivialMaxUnaligned,
		MostlyUnalignedFraction: DefaultMostlyUnalignedFraction,
		MaxBestSets:             DefaultMaxBestSets,
		MaxOverlapFraction:      DefaultMaxOverlapFraction,
	}
}

// Set is a group of mutually compatible alignments. Indexes refer to
// Selection.Aligns and are in contig order.
type Set struct {
	Indexes         []int
	Score           float64
	Uncovered       int
	MostlyUnaligned bool
}

func (s *Set) contains(idx int) bool {
	for _, i := range s.Indexes {
		if i == idx {
			return true
		}
	}

	return false
}

func (s *Set) subsetOf(other *Set) bool {
	if len(s.Indexes) > len(other.Indexes) {
		return false
	}

	for _, i := range s.Indexes {
		if !other.contains(i) {
			return false
		}
	}

	return true
}

// Selection is the result of Select().
type Selection struct {
	// Aligns are the candidates, best scoring first.
	Aligns []align.Alignment

	// Sets are the near-tied best sets, best first. Empty if there were no
	// candidates.
	Sets []Set

	// Trivial is true if a single alignment covered the contig, so that no
	// interval optimisation was needed.
	Trivial bool

	// TooManySets is true if more than MaxBestSets sets were near-tied.
	TooManySets bool
}

// Ambiguous tells you if more than one set is about equally good.
func (s *Selection) Ambiguous() bool {
	return len(s.Sets) > 1
}

// Best returns the best set, or nil if there were no candidates.
func (s *Selection) Best() *Set {
	if len(s.Sets) == 0 {
		return nil
	}

	return &s.Sets[0]
}

// Alignments returns the alignments in the given set, in contig order.
func (s *Selection) Alignments(set *Set) []align.Alignment {
	aligns := make([]align.Alignment, len(set.Indexes))

	for i, idx := range set.Indexes {
		aligns[i] = s.Aligns[idx]
	}

	return aligns
}

// Used returns the sorted indexes of every alignment in any of the sets. If
// there were too many sets to keep, every candidate counts as used.
func (s *Selection) Used() []int {
	if s.TooManySets {
		all := make([]int, len(s.Aligns))
		for i := range all {
			all[i] = i
		}

		return all
	}

	seen := make(map[int]bool)
	used := []int{}

	for i := range s.Sets {
		for _, idx := range s.Sets[i].Indexes {
			if !seen[idx] {
				seen[idx] = true
				used = append(used, idx)
			}
		}
	}

	sort.Ints(used)

	return used
}

// Skipped returns the sorted indexes of the candidates that are not Used().
func (s *Selection) Skipped() []int {
	used := make(map[int]bool)
	for _, idx := range s.Used() {
		used[idx] = true
	}

	var skipped []int

	for i := range s.Aligns {
		if !used[i] {
			skipped = append(skipped, i)
		}
	}

	return skipped
}

// Selector selects best sets.
type Selector struct {
	opts       Options
	mopts      misassembly.Options
	classifier *misassembly.Classifier
}

// New returns a Selector. The classifier is used to penalise sets that would
// introduce misassemblies, so that of two otherwise equal explanations of a
// contig the one with fewer breakpoints wins.
func New(opts Options, mopts misassembly.Options, classifier *misassembly.Classifier) *Selector {
	return &Selector{opts: opts, mopts: mopts, classifier: classifier}
}

// Select finds the best sets amongst the given candidate alignments of a
// contig of the given length. seq is the contig sequence; it may be nil.
func (s *Selector) Select(aligns []align.Alignment, ctgLen int, seq []byte) *Selection {
	sel := &Selection{Aligns: align.SortByScore(aligns)}
	if len(sel.Aligns) == 0 {
		return sel
	}

	if s.isTrivial(&sel.Aligns[0], ctgLen) {
		s.selectTrivial(sel, ctgLen)

		return sel
	}

	s.selectBest(sel, ctgLen, seq)

	return sel
}

func (s *Selector) isTrivial(top *align.Alignment, ctgLen int) bool {
	return float64(top.Len()) > float64(ctgLen)*s.opts.TrivialCoverage ||
		ctgLen-top.Len() < s.opts.TrivialMaxUnaligned
}

// selectTrivial makes a single-alignment set for the top alignment and for
// every other alignment that scores nearly as well.
func (s *Selector) selectTrivial(sel *Selection, ctgLen int) {
	sel.Trivial = true
	topScore := align.Score(&sel.Aligns[0])

	for i := range sel.Aligns {
		score := align.Score(&sel.Aligns[i])
		if i > 0 && score < s.opts.AmbiguityScore*topScore {
			break
		}

		sel.Sets = append(sel.Sets, Set{
			Indexes:   []int{i},
			Score:     score,
			Uncovered: ctgLen - sel.Aligns[i].Len(),
		})
	}
}

// partial is a set under construction; last is the index of its last
// alignment in contig order, or -1 for the empty set.
type partial struct {
	last    int
	score   float64
	indexes []int
}

// selectBest does weighted interval selection: alignments are visited in
// contig order and each extends every compatible partial set, keeping the
// extensions that score nearly as well as the best one.
func (s *Selector) selectBest(sel *Selection, ctgLen int, seq []byte) {
	order := contigOrder(sel.Aligns)
	partials := []partial{{last: -1}}

	for _, idx := range order {
		cur := &sel.Aligns[idx]

		var cands []partial

		for _, p := range partials {
			var prev *align.Alignment
			if p.last >= 0 {
				prev = &sel.Aligns[p.last]
			}

			gain, ok := s.extend(prev, cur, ctgLen, seq)
			if !ok {
				continue
			}

			indexes := make([]int, len(p.indexes), len(p.indexes)+1)
			copy(indexes, p.indexes)

			cands = append(cands, partial{last: idx, score: p.score + gain, indexes: append(indexes, idx)})
		}

		kept, _ := s.nearTies(cands)
		partials = append(partials, kept...)
	}

	final, tooMany := s.nearTies(partials[1:])
	sel.TooManySets = tooMany

	for _, p := range final {
		set := Set{Indexes: p.indexes, Score: p.score}
		s.fillCoverage(sel, &set, ctgLen)
		sel.Sets = append(sel.Sets, set)
	}

	sort.Sort(Order(sel.Sets))
	sel.Sets = dropNested(sel.Sets)
}

func contigOrder(aligns []align.Alignment) []int {
	order := make([]int, len(aligns))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := &aligns[order[i]], &aligns[order[j]]
		if a.ContigEnd != b.ContigEnd {
			return a.ContigEnd < b.ContigEnd
		}

		return a.ContigStart < b.ContigStart
	})

	return order
}

// extend returns the score gained by adding cur after prev, and false if the
// two cannot be in the same set.
func (s *Selector) extend(prev, cur *align.Alignment, ctgLen int, seq []byte) (float64, bool) {
	if prev == nil {
		return align.Score(cur), true
	}

	if cur.ContigEnd <= prev.ContigEnd || cur.ContigStart <= prev.ContigStart {
		return 0, false
	}

	bp := s.classifier.Breakpoint(prev, cur, seq)
	overlap := max(0, -bp.ContigDistance)
	wrapped := bp.CyclicJoin && bp.Kind == ""

	if !wrapped && float64(overlap) > s.opts.MaxOverlapFraction*float64(min(prev.Len(), cur.Len())) {
		return 0, false
	}

	return align.Score(cur) - align.PartialScore(cur, overlap) - s.penalty(&bp, ctgLen), true
}

func (s *Selector) penalty(bp *misassembly.Breakpoint, ctgLen int) float64 {
	switch {
	case bp.Misassembly():
		return float64(max(minExtensivePenalty,
			round(min(float64(s.mopts.ExtensiveThreshold)/4, float64(ctgLen)*extensiveCtgShare))) - 1)
	case bp.Kind == misassembly.Local:
		return float64(max(minLocalPenalty,
			round(min(float64(s.mopts.MaxIndelLength)/2, float64(ctgLen)*localCtgShare))) - 1)
	default:
		return 0
	}
}

func round(f float64) int {
	return int(math.Round(f))
}

// nearTies returns the candidates scoring within AmbiguityScore of the best,
// best first, capped at MaxBestSets; the bool is true if the cap was hit.
func (s *Selector) nearTies(cands []partial) ([]partial, bool) {
	if len(cands) == 0 {
		return nil, false
	}

	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })

	threshold := s.opts.AmbiguityScore * cands[0].score
	n := 1

	for n < len(cands) && cands[n].score >= threshold {
		n++
	}

	if s.opts.MaxBestSets > 0 && n > s.opts.MaxBestSets {
		return cands[:s.opts.MaxBestSets], true
	}

	return cands[:n], false
}

func (s *Selector) fillCoverage(sel *Selection, set *Set, ctgLen int) {
	covered := align.Covered(sel.Alignments(set))
	set.Uncovered = ctgLen - covered
	set.MostlyUnaligned = len(set.Indexes) > 1 &&
		float64(covered) < s.opts.MostlyUnalignedFraction*float64(ctgLen)
}

// dropNested removes, from sets sorted best first, every set that is a subset
// or superset of a better one. Such sets differ only in whether some extra
// alignment is included, so they are not rival explanations of the contig.
func dropNested(sets []Set) []Set {
	var kept []Set

	for i := range sets {
		nested := false

		for j := range kept {
			if sets[i].subsetOf(&kept[j]) || kept[j].subsetOf(&sets[i]) {
				nested = true

				break
			}
		}

		if !nested {
			kept = append(kept, sets[i])
		}
	}

	return kept
}
