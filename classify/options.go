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
	"fmt"

	"github.com/inconshreveable/log15"
	"github.com/wtsi-hgi/contigqc/ambiguity"
	"github.com/wtsi-hgi/contigqc/bestset"
	"github.com/wtsi-hgi/contigqc/misassembly"
	"github.com/wtsi-hgi/contigqc/unaligned"
)

// Options configure a Driver.
type Options struct {
	Policy      ambiguity.Policy
	Selection   bestset.Options
	Misassembly misassembly.Options
	Unaligned   unaligned.Options

	// RefLengths are the lengths of the reference sequences. Alignments to
	// references not listed here are not range checked.
	RefLengths map[string]int

	// RefLabels group reference sequences for the translocation matrix and
	// interspecies checks; see misassembly.References.
	RefLabels map[string]string

	Cyclic   bool
	Combined bool

	// SVs are the known structural variants.
	SVs []misassembly.SVRegion

	// Logger receives per-contig decisions at Debug level. Defaults to
	// discarding everything.
	Logger log15.Logger
}

// DefaultOptions returns Options with every threshold at its default.
func DefaultOptions() Options {
	return Options{
		Policy:      ambiguity.DefaultPolicy,
		Selection:   bestset.DefaultOptions(),
		Misassembly: misassembly.DefaultOptions(),
		Unaligned:   unaligned.DefaultOptions(),
	}
}

// Validate checks that every option has a usable value, returning an error
// wrapping ErrBadOption (or ambiguity.ErrUnknownPolicy) if not.
func (o *Options) Validate() error {
	if !o.Policy.Valid() {
		return fmt.Errorf("%w: %s", ambiguity.ErrUnknownPolicy, o.Policy)
	}

	checks := []struct {
		ok   bool
		name string
	}{
		{isFraction(o.Selection.AmbiguityScore) && o.Selection.AmbiguityScore > 0, "ambiguity score"},
		{isFraction(o.Selection.TrivialCoverage) && o.Selection.TrivialCoverage > 0, "trivial coverage"},
		{o.Selection.TrivialMaxUnaligned >= 0, "trivial max unaligned"},
		{isFraction(o.Selection.MostlyUnalignedFraction), "mostly unaligned fraction"},
		{o.Selection.MaxBestSets > 0, "max best sets"},
		{isFraction(o.Selection.MaxOverlapFraction), "max overlap fraction"},
		{o.Misassembly.ExtensiveThreshold > 0, "extensive threshold"},
		{
			o.Misassembly.MaxIndelLength >= 0 && o.Misassembly.MaxIndelLength < o.Misassembly.ExtensiveThreshold,
			"max indel length",
		},
		{isFraction(o.Misassembly.GapFilledNsThreshold) && o.Misassembly.GapFilledNsThreshold > 0, "gap Ns threshold"},
		{o.Misassembly.OverlapTolerance >= 0, "overlap tolerance"},
		{o.Misassembly.SVTolerance >= 0, "SV tolerance"},
		{o.Unaligned.UnalignedPartSize > 0, "unaligned part size"},
		{isFraction(o.Unaligned.GapFilledNsThreshold) && o.Unaligned.GapFilledNsThreshold > 0, "gap Ns threshold"},
	}

	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%w: %s", ErrBadOption, c.name)
		}
	}

	return nil
}

func isFraction(f float64) bool {
	return f >= 0 && f <= 1
}

func (o *Options) references() *misassembly.References {
	return &misassembly.References{
		Lengths:  o.RefLengths,
		Labels:   o.RefLabels,
		Cyclic:   o.Cyclic,
		Combined: o.Combined,
		SVs:      misassembly.NewSVIndex(o.SVs, o.Misassembly.SVTolerance),
	}
}

func (o *Options) logger() log15.Logger {
	if o.Logger != nil {
		return o.Logger
	}

	l := log15.New()
	l.SetHandler(log15.DiscardHandler())

	return l
}
