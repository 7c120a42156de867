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

// IndelsInfo holds the mismatches, insertions and deletions recovered from
// breakpoints that were small enough to be corrected rather than counted as
// misassemblies.
type IndelsInfo struct {
	Mismatches int
	Insertions int
	Deletions  int

	// Indels are the lengths of each individual indel.
	Indels []int
}

// Add adds other's totals to ours. Totals do not depend on the order things
// were added in.
func (i *IndelsInfo) Add(other IndelsInfo) {
	i.Mismatches += other.Mismatches
	i.Insertions += other.Insertions
	i.Deletions += other.Deletions
	i.Indels = append(i.Indels, other.Indels...)
}

// Total is the number of indel bases.
func (i *IndelsInfo) Total() int {
	return i.Insertions + i.Deletions
}

// estimateIndels works out what a corrected breakpoint implies about the
// bases between the two alignments. When the reference has more bases in the
// gap than the contig, the contig has a deletion; when fewer, an insertion.
// Where both sides have a gap, the shared part is counted as mismatches.
func estimateIndels(bp *Breakpoint) IndelsInfo {
	var info IndelsInfo

	if bp.ContigDistance > 0 && bp.RefDistance > 0 {
		info.Mismatches = min(bp.ContigDistance, bp.RefDistance)
	}

	switch {
	case bp.Inconsistency > 0:
		info.Deletions = bp.Inconsistency
		info.Indels = []int{bp.Inconsistency}
	case bp.Inconsistency < 0:
		info.Insertions = -bp.Inconsistency
		info.Indels = []int{-bp.Inconsistency}
	}

	return info
}
