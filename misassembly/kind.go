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

// Package misassembly classifies the breakpoints between consecutive
// alignments of a contig, accumulating indel statistics and deciding if the
// contig was misassembled.
package misassembly

import (
	"strings"
)

type Error string

func (e Error) Error() string { return string(e) }

const ErrInvalidKind = Error("invalid misassembly kind")

// Kind is a type of breakpoint event.
type Kind string

const (
	Relocation                Kind = "relocation"
	Translocation             Kind = "translocation"
	Inversion                 Kind = "inversion"
	InterspeciesTranslocation Kind = "interspecies translocation"
	Local                     Kind = "local"
	InterspeciesPotential     Kind = "potential interspecies translocation"
	ScaffoldGap               Kind = "scaffold gap"
)

// Kinds lists every Kind in report order.
var Kinds = []Kind{ //nolint:gochecknoglobals
	Relocation, Translocation, Inversion, InterspeciesTranslocation,
	Local, InterspeciesPotential, ScaffoldGap,
}

// Extensive kinds are the ones that make a contig misassembled, unless they
// match a known structural variant.
func (k Kind) Extensive() bool {
	switch k {
	case Relocation, Translocation, Inversion, InterspeciesTranslocation:
		return true
	default:
		return false
	}
}

// StringToKind converts a string to a Kind. Case is ignored, and underscores
// or hyphens may be used instead of spaces. The common short forms used in
// SV files ("reloc", "transloc", "inv") are also accepted. A blank string
// gives the blank Kind, which structural variant regions use to mean "any".
func StringToKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", " ", "-", " ").Replace(norm)

	switch norm {
	case "":
		return "", nil
	case "reloc", string(Relocation):
		return Relocation, nil
	case "transloc", string(Translocation):
		return Translocation, nil
	case "inv", string(Inversion):
		return Inversion, nil
	case string(InterspeciesTranslocation):
		return InterspeciesTranslocation, nil
	case string(Local):
		return Local, nil
	case string(InterspeciesPotential):
		return InterspeciesPotential, nil
	case string(ScaffoldGap):
		return ScaffoldGap, nil
	default:
		return "", ErrInvalidKind
	}
}
