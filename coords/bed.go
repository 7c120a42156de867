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

package coords

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/biogo/biogo/io/featio/bed"
	"github.com/wtsi-hgi/contigqc/misassembly"
)

const (
	ErrBadBedLine = Error("invalid BED line")

	bedMinColumns = 3
	bedColumns    = 4
	bedAnyKind    = "."
)

// ReadSVBed reads known structural variant regions from a BED file. The
// optional 4th (name) column gives the kind of variant, eg. "inversion"; a
// blank or "." name matches any kind. BED's 0-based half-open coordinates are
// converted to 1-based inclusive ones. Comment, track and browser lines are
// ignored, and columns may be separated by tabs or spaces.
func ReadSVBed(r io.Reader) ([]misassembly.SVRegion, error) {
	normalised, lines, err := normaliseBed(r)
	if err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		return nil, nil
	}

	br, err := bed.NewReader(strings.NewReader(normalised), bedColumns)
	if err != nil {
		return nil, err
	}

	regions := make([]misassembly.SVRegion, 0, len(lines))

	for {
		f, err := br.Read()
		if errors.Is(err, io.EOF) {
			return regions, nil
		}

		line := lines[min(len(regions), len(lines)-1)]

		if err != nil {
			return nil, fmt.Errorf("%w %d: %w", ErrBadBedLine, line, err)
		}

		region, err := bedToRegion(f)
		if err != nil {
			return nil, fmt.Errorf("%w %d: %w", ErrBadBedLine, line, err)
		}

		regions = append(regions, region)
	}
}

// normaliseBed returns the data lines of r as tab separated BED4, giving a
// missing name column the any-kind name, along with the line number in r of
// each of them.
func normaliseBed(r io.Reader) (string, []int, error) {
	var (
		sb    strings.Builder
		lines []int
	)

	scanner := bufio.NewScanner(r)
	line := 0

	for scanner.Scan() {
		line++

		text := strings.TrimSpace(scanner.Text())
		if isBedHeader(text) {
			continue
		}

		cols := strings.Fields(text)
		if len(cols) < bedMinColumns {
			return "", nil, fmt.Errorf("%w %d: need %d columns, got %d", ErrBadBedLine, line, bedMinColumns, len(cols))
		}

		if len(cols) < bedColumns {
			cols = append(cols, bedAnyKind)
		}

		sb.WriteString(strings.Join(cols[:bedColumns], "\t"))
		sb.WriteByte('\n')

		lines = append(lines, line)
	}

	return sb.String(), lines, scanner.Err()
}

func isBedHeader(text string) bool {
	return text == "" || strings.HasPrefix(text, "#") ||
		strings.HasPrefix(text, "track") || strings.HasPrefix(text, "browser")
}

func bedToRegion(f any) (misassembly.SVRegion, error) {
	b, ok := f.(*bed.Bed4)
	if !ok {
		return misassembly.SVRegion{}, fmt.Errorf("unexpected BED record %T", f)
	}

	if b.ChromStart < 0 || b.ChromEnd <= b.ChromStart {
		return misassembly.SVRegion{}, fmt.Errorf("bad range %d-%d", b.ChromStart, b.ChromEnd)
	}

	region := misassembly.SVRegion{Ref: b.Chrom, Start: b.ChromStart + 1, End: b.ChromEnd}

	if b.FeatName != bedAnyKind && b.FeatName != "" {
		kind, err := misassembly.StringToKind(b.FeatName)
		if err != nil {
			return misassembly.SVRegion{}, err
		}

		region.Kind = kind
	}

	return region, nil
}
