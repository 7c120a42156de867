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

package sheets

import (
	"fmt"

	"github.com/wtsi-hgi/contigqc/misassembly"
)

const (
	ErrNoData      = Error("no data found in sheet")
	ErrBadRegion   = Error("invalid structural variant region")
	ErrBadRefRow   = Error("invalid reference row")
	ReferenceSheet = "references"
	SVSheet        = "structural_variants"
)

// References are the lengths and labels of reference sequences.
type References struct {
	Lengths map[string]int
	Labels  map[string]string
}

// References reads the "references" sheet of the document with the given id.
// It needs columns "reference" and "length"; the optional "label" column
// groups references, eg. by species, for combined reference runs.
func (s *Sheets) References(sheetID string) (*References, error) {
	sheet, err := s.Read(sheetID, ReferenceSheet)
	if err != nil {
		return nil, err
	}

	return referencesFromSheet(sheet)
}

func referencesFromSheet(sheet *Sheet) (*References, error) {
	if len(sheet.Rows) == 0 {
		return nil, ErrNoData
	}

	rows, err := sheet.Columns("reference", "length")
	if err != nil {
		return nil, err
	}

	// labels are optional
	labels, _ := sheet.Columns("label") //nolint:errcheck

	refs := &References{
		Lengths: make(map[string]int, len(rows)),
		Labels:  make(map[string]string),
	}

	c := converter{}

	for i, row := range rows {
		length := c.ToInt(row[1])
		if c.Err != nil || row[0] == "" || length <= 0 {
			return nil, fmt.Errorf("%w %d: %q %q", ErrBadRefRow, i+2, row[0], row[1])
		}

		refs.Lengths[row[0]] = length

		if labels != nil && labels[i][0] != "" {
			refs.Labels[row[0]] = labels[i][0]
		}
	}

	return refs, nil
}

// StructuralVariants reads the "structural_variants" sheet of the document
// with the given id. It needs columns "reference", "start" and "end" (1-based,
// inclusive) and "kind", which may be blank to match any kind of
// misassembly.
func (s *Sheets) StructuralVariants(sheetID string) ([]misassembly.SVRegion, error) {
	sheet, err := s.Read(sheetID, SVSheet)
	if err != nil {
		return nil, err
	}

	return svsFromSheet(sheet)
}

func svsFromSheet(sheet *Sheet) ([]misassembly.SVRegion, error) {
	rows, err := sheet.Columns("reference", "start", "end", "kind")
	if err != nil {
		return nil, err
	}

	regions := make([]misassembly.SVRegion, len(rows))

	c := converter{}

	for i, row := range rows {
		regions[i] = misassembly.SVRegion{
			Ref:   row[0],
			Start: c.ToInt(row[1]),
			End:   c.ToInt(row[2]),
			Kind:  c.ToKind(row[3]),
		}

		if c.Err != nil {
			return nil, fmt.Errorf("%w on row %d: %w", ErrBadRegion, i+2, c.Err)
		}

		r := regions[i]
		if r.Ref == "" || r.Start < 1 || r.End < r.Start {
			return nil, fmt.Errorf("%w on row %d: %s %d-%d", ErrBadRegion, i+2, r.Ref, r.Start, r.End)
		}
	}

	return regions, nil
}
