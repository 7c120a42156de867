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

package bestset

// Order ranks candidate sets, best first. The keys, in order, are:
//
//  1. Score, descending.
//  2. Uncovered, ascending (covering more of the contig wins).
//  3. Indexes, compared lexicographically, so that a set containing
//     higher-scoring alignments wins.
type Order []Set

func (o Order) Len() int      { return len(o) }
func (o Order) Swap(i, j int) { o[i], o[j] = o[j], o[i] }

func (o Order) Less(i, j int) bool {
	a, b := &o[i], &o[j]

	if a.Score != b.Score {
		return a.Score > b.Score
	}

	if a.Uncovered != b.Uncovered {
		return a.Uncovered < b.Uncovered
	}

	for k := 0; k < len(a.Indexes) && k < len(b.Indexes); k++ {
		if a.Indexes[k] != b.Indexes[k] {
			return a.Indexes[k] < b.Indexes[k]
		}
	}

	return len(a.Indexes) < len(b.Indexes)
}
