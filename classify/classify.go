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

// Package classify drives the classification of every contig of an assembly:
// it picks the best alignments of each contig, resolves ambiguity, finds
// unaligned regions and misassemblies, and accumulates the per-assembly
// result.
package classify

import (
	"fmt"

	"github.com/inconshreveable/log15"
	"github.com/wtsi-hgi/contigqc/align"
	"github.com/wtsi-hgi/contigqc/ambiguity"
	"github.com/wtsi-hgi/contigqc/bestset"
	"github.com/wtsi-hgi/contigqc/misassembly"
	"github.com/wtsi-hgi/contigqc/unaligned"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrBadOption       = Error("invalid classification option")
	ErrContig          = Error("invalid contig")
	ErrDuplicateContig = Error("contig already classified")
	ErrUnknownContig   = Error("alignments for unknown contig")
	ErrFrozen          = Error("result already taken")
)

// Driver classifies the contigs of one assembly, one at a time. It is not
// safe for concurrent use; use one Driver per assembly.
type Driver struct {
	opts       Options
	refs       *misassembly.References
	selector   *bestset.Selector
	classifier *misassembly.Classifier
	acc        *accumulator
	log        log15.Logger
	frozen     bool
}

// New returns a Driver that classifies using the given options. Options are
// validated first, so that a bad option is reported before any contig is
// classified.
func New(opts Options) (*Driver, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	refs := opts.references()
	classifier := misassembly.New(opts.Misassembly, refs)

	return &Driver{
		opts:       opts,
		refs:       refs,
		selector:   bestset.New(opts.Selection, opts.Misassembly, classifier),
		classifier: classifier,
		acc:        newAccumulator(),
		log:        opts.logger(),
	}, nil
}

// Classify classifies a contig given all its candidate alignments, and adds
// the outcome to the assembly's Result. Invalid alignments and contigs are
// rejected with an error wrapping ErrContig, without changing the Result.
func (d *Driver) Classify(contig Contig, aligns []align.Alignment) (*ContigReport, error) {
	if d.frozen {
		return nil, ErrFrozen
	}

	if err := d.check(&contig, aligns); err != nil {
		return nil, err
	}

	rep := d.classify(&contig, aligns)
	d.acc.add(rep)

	d.log.Debug("classified contig", "contig", rep.Contig, "length", rep.Length, "tag", rep.Tag,
		"used", len(rep.Used), "skipped", rep.Skipped, "ambiguous", rep.Ambiguous)

	return rep, nil
}

func (d *Driver) check(contig *Contig, aligns []align.Alignment) error {
	if contig.Name == "" {
		return fmt.Errorf("%w: no name", ErrContig)
	}

	if contig.Len() <= 0 {
		return fmt.Errorf("%w %s: no length", ErrContig, contig.Name)
	}

	if d.acc.seen[contig.Name] {
		return fmt.Errorf("%w: %s", ErrDuplicateContig, contig.Name)
	}

	for i := range aligns {
		if err := aligns[i].Validate(contig.Len(), d.opts.RefLengths[aligns[i].Ref]); err != nil {
			return fmt.Errorf("%w %s: %w", ErrContig, contig.Name, err)
		}
	}

	return nil
}

func (d *Driver) classify(contig *Contig, aligns []align.Alignment) *ContigReport {
	ctgLen := contig.Len()
	rep := &ContigReport{Contig: contig.Name, Length: ctgLen}

	if len(aligns) == 0 {
		rep.Tag = TagUnaligned
		rep.Unaligned = unaligned.Analyze(contig.Seq, ctgLen, nil, d.opts.Unaligned)

		return rep
	}

	sel := d.selector.Select(aligns, ctgLen, contig.Seq)
	res := ambiguity.Resolve(sel, ctgLen, d.opts.Policy)

	rep.Ambiguous = res.Ambiguous
	rep.Skipped = len(res.Skipped)
	rep.ExtraBases = res.ExtraBases

	for _, i := range res.Used {
		rep.Used = append(rep.Used, sel.Aligns[i])
	}

	d.log.Debug("selected alignments", "contig", contig.Name, "sets", len(sel.Sets),
		"trivial", sel.Trivial, "too_many", sel.TooManySets)

	if len(res.Classify) == 0 {
		rep.Tag = TagAmbiguous

		return rep
	}

	rep.Classified = align.SortByContig(res.Classify)
	rep.Unaligned = unaligned.Analyze(contig.Seq, ctgLen, rep.Classified, d.opts.Unaligned)

	if len(rep.Classified) == 1 {
		mostlyAligned := float64(rep.Unaligned.Aligned()) >= d.opts.Selection.MostlyUnalignedFraction*float64(ctgLen)
		d.findPotential(rep, mostlyAligned)
		rep.Tag = d.resolvedTag(&res)

		return rep
	}

	rep.Outcome = d.classifier.Classify(contig.Name, rep.Classified, contig.Seq)
	d.findPotential(rep, !sel.Best().MostlyUnaligned)

	for _, e := range rep.Outcome.Events {
		d.log.Debug("breakpoint", "contig", contig.Name, "kind", e.Kind,
			"inconsistency", e.Inconsistency, "matched_sv", e.MatchedSV)
	}

	switch {
	case sel.Best().MostlyUnaligned:
		rep.Tag = TagMostlyUnaligned
	case rep.Outcome.Misassembled:
		rep.Tag = TagMisassembled
	default:
		rep.Tag = d.resolvedTag(&res)
	}

	return rep
}

// resolvedTag is the tag of a contig that was not misassembled. With the All
// policy an ambiguous contig stays ambiguous; otherwise its resolved set is
// taken to be correct.
func (d *Driver) resolvedTag(res *ambiguity.Resolution) Tag {
	if res.Ambiguous && d.opts.Policy == ambiguity.All {
		return TagAmbiguous
	}

	return TagCorrect
}

// findPotential records potential interspecies translocations in the
// unaligned gaps of a partially unaligned contig, when references from more
// than one species were combined.
func (d *Driver) findPotential(rep *ContigReport, eligible bool) {
	if !d.opts.Combined || !eligible || rep.Unaligned.Status != unaligned.PartiallyUnaligned {
		return
	}

	for _, g := range rep.Unaligned.Qualifying() {
		rep.Potential = append(rep.Potential, misassembly.Event{
			Contig: rep.Contig,
			Kind:   misassembly.InterspeciesPotential,
			Left:   g.Left,
			Right:  g.Right,
		})
	}

	if len(rep.Potential) > 0 {
		rep.PotentialByLabel = rep.Unaligned.Potential(d.refs.Label)
	}
}

// Result stops the Driver accepting further contigs and returns the
// assembly's Result.
func (d *Driver) Result() *Result {
	if !d.frozen {
		d.frozen = true
		r := d.acc.result

		d.log.Info("assembly classified", "contigs", r.Contigs, "misassembled", r.Misassembled(),
			"unaligned", r.FullyUnaligned(), "partially_unaligned", r.PartiallyUnaligned,
			"ambiguous", r.AmbiguousContigs)
	}

	return d.acc.result
}

// Run classifies every contig with its alignments, keyed by contig name, and
// returns the Result. Alignments for a contig not in contigs are an error.
func Run(opts Options, contigs []Contig, aligns map[string][]align.Alignment) (*Result, error) {
	d, err := New(opts)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(contigs))
	for _, c := range contigs {
		known[c.Name] = true
	}

	for name := range aligns {
		if !known[name] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownContig, name)
		}
	}

	for _, c := range contigs {
		if _, err := d.Classify(c, aligns[c.Name]); err != nil {
			return nil, err
		}
	}

	return d.Result(), nil
}
