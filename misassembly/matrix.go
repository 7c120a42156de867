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
	"sort"
)

// Matrix counts translocations between pairs of reference labels. It is
// symmetric: Get(a, b) == Get(b, a).
type Matrix map[string]map[string]int

// Inc records one translocation between references a and b.
func (m Matrix) Inc(a, b string) {
	m.add(a, b, 1)

	if a != b {
		m.add(b, a, 1)
	}
}

func (m Matrix) add(a, b string, n int) {
	row, ok := m[a]
	if !ok {
		row = make(map[string]int)
		m[a] = row
	}

	row[b] += n
}

// Get returns the number of translocations between a and b.
func (m Matrix) Get(a, b string) int {
	return m[a][b]
}

// Add adds all of other's counts to ours.
func (m Matrix) Add(other Matrix) {
	for a, row := range other {
		for b, n := range row {
			m.add(a, b, n)
		}
	}
}

// Labels returns the sorted labels that appear in the matrix.
func (m Matrix) Labels() []string {
	seen := make(map[string]bool)

	for a, row := range m {
		seen[a] = true

		for b := range row {
			seen[b] = true
		}
	}

	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}

	sort.Strings(labels)

	return labels
}
