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

// Package ambiguity decides which alignments of an ambiguous contig count
// towards coverage and classification.
package ambiguity

import (
	"fmt"
	"slices"
	"strings"

	"github.com/wtsi-hgi/contigqc/align"
	"github.com/wtsi-hgi/contigqc/bestset"
)

type Error string

func (e Error) Error() string { return string(e) }

const ErrUnknownPolicy = Error("unknown ambiguity policy")

// Policy says what to do with a contig that has more than one near-tied best
// set of alignments.
type Policy int

const (
	// One uses only the best set; the others are skipped. This is the
	// default.
	One Policy = iota

	// None rejects ambiguous contigs: none of their alignments are used.
	None

	// All uses every alignment of every near-tied set.
	All
)

// DefaultPolicy is the policy used when none is configured.
const DefaultPolicy = One

var policyNames = map[Policy]string{ //nolint:gochecknoglobals
	One:  "one",
	None: "none",
	All:  "all",
}

var policyAliases = map[string]Policy{ //nolint:gochecknoglobals
	"one":              One,
	"first-only":       One,
	"none":             None,
	"reject-ambiguous": None,
	"all":              All,
	"keep-all":         All,
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}

	return fmt.Sprintf("Policy(%d)", int(p))
}

// Valid tells you if this is one of the known policies.
func (p Policy) Valid() bool {
	_, ok := policyNames[p]

	return ok
}

// ParsePolicy converts "one", "none" or "all" (case insensitive, or their
// long forms "first-only", "reject-ambiguous" and "keep-all") to a Policy.
func ParsePolicy(s string) (Policy, error) {
	p, ok := policyAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return One, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}

	return p, nil
}

// Resolution is the result of applying a Policy to a Selection.
type Resolution struct {
	// Classify are the alignments of the set to classify, in contig order.
	// Empty when an ambiguous contig was rejected.
	Classify []align.Alignment

	// Used and Skipped are sorted indexes into Selection.Aligns of the
	// alignments that do and do not count towards coverage.
	Used    []int
	Skipped []int

	// ExtraBases is the change to the ambiguous contigs' extra bases
	// counter: the aligned bases counted beyond (or, if negative, withheld
	// from) what the best set alone would contribute.
	ExtraBases int

	Ambiguous bool
}

// Resolve applies the policy to the selection made for a contig of the given
// length. An unambiguous selection resolves to its only set whatever the
// policy.
func Resolve(sel *bestset.Selection, ctgLen int, policy Policy) Resolution {
	best := sel.Best()
	if best == nil {
		return Resolution{}
	}

	if !sel.Ambiguous() {
		return Resolution{
			Classify: sel.Alignments(best),
			Used:     sortedCopy(best.Indexes),
			Skipped:  complement(best.Indexes, len(sel.Aligns)),
		}
	}

	bestCovered := ctgLen - best.Uncovered

	switch policy {
	case None:
		return Resolution{
			Skipped:    allIndexes(len(sel.Aligns)),
			ExtraBases: -bestCovered,
			Ambiguous:  true,
		}
	case All:
		res := Resolution{
			Classify:  sel.Alignments(best),
			Used:      sel.Used(),
			Skipped:   sel.Skipped(),
			Ambiguous: true,
		}

		if len(res.Used) > len(best.Indexes) {
			res.ExtraBases = alignedLen(sel.Aligns, res.Used) - bestCovered
		}

		return res
	default:
		return Resolution{
			Classify:  sel.Alignments(best),
			Used:      sortedCopy(best.Indexes),
			Skipped:   complement(best.Indexes, len(sel.Aligns)),
			Ambiguous: true,
		}
	}
}

func sortedCopy(indexes []int) []int {
	sorted := slices.Clone(indexes)
	slices.Sort(sorted)

	return sorted
}

// complement returns the sorted indexes in [0, n) that are not in indexes.
func complement(indexes []int, n int) []int {
	in := make([]bool, n)
	for _, i := range indexes {
		in[i] = true
	}

	var out []int

	for i := 0; i < n; i++ {
		if !in[i] {
			out = append(out, i)
		}
	}

	return out
}

func allIndexes(n int) []int {
	return complement(nil, n)
}

func alignedLen(aligns []align.Alignment, indexes []int) int {
	total := 0

	for _, i := range indexes {
		total += aligns[i].Len()
	}

	return total
}
