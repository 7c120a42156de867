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

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wtsi-hgi/contigqc/ambiguity"
	"github.com/wtsi-hgi/contigqc/batch"
	"github.com/wtsi-hgi/contigqc/classify"
	"github.com/wtsi-hgi/contigqc/config"
	"github.com/wtsi-hgi/contigqc/coords"
	"github.com/wtsi-hgi/contigqc/fasta"
	"github.com/wtsi-hgi/contigqc/misassembly"
	"github.com/wtsi-hgi/contigqc/resultdb"
	"github.com/wtsi-hgi/contigqc/sheets"
)

const (
	ErrBadAssemblyArg = Error("assemblies must be given as contigs.fa,alignments.[sb]am")
	ErrFailedJobs     = Error("some assemblies could not be classified")

	assemblyArgSep = ","
	bamSuffix      = ".bam"
)

type Error string

func (e Error) Error() string { return string(e) }

// options for this cmd.
var ( //nolint:gochecknoglobals
	classifyFai            string
	classifySVBed          string
	classifyUseSheet       bool
	classifyPolicy         string
	classifyExtensive      int
	classifyMaxIndel       int
	classifyUnalignedPart  int
	classifyCyclic         bool
	classifyLabelSeparator string
	classifyWorkers        int
	classifySave           bool
	classifyEvents         bool
)

// classifyCmd represents the classify command.
var classifyCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "classify contigs.fa,alignments.bam [...]",
	Short: "Classify the contigs of assemblies.",
	Long: `Classify the contigs of assemblies.

Each assembly is given as a pair of paths separated by a comma: a FASTA file
of its contigs (optionally gzipped) and a SAM or BAM file of those contigs
aligned to the reference, eg. by minimap2. Supplementary alignments are used;
secondary ones are ignored. Multiple assemblies are classified in parallel.

Reference lengths come from the alignment file header, or from a samtools
faidx index given with --fai.

Known structural variants can be given as a BED file with --sv, where the 4th
column optionally names the kind of misassembly expected (relocation,
translocation, inversion); misassemblies matching them are not counted. With
--sheet, known structural variants and reference labels are also read from
the Google sheet set by CONTIGQC_SPREADSHEET_ID.

For a combined reference of several species, give --label-separator to take
each reference's species from the start of its name (eg. "ecoli_chr1" with
separator "_"), so that translocations between species are reported as
interspecies translocations.

--ambiguity decides what to do with contigs that have several equally good
explanations: "one" uses just the first, "none" leaves them unused and "all"
uses every alignment in every one of them.

A tab separated summary line per assembly is printed to STDOUT. With --events,
every misassembly is also printed. With --save, summaries are stored in the
database set by the CONTIGQC_SQL_* environment variables.
`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			die("%s", ErrBadAssemblyArg)
		}

		c := config.FromEnv()

		opts, err := classifyOptions(cmd, c)
		if err != nil {
			die("%s", err)
		}

		jobs, err := loadJobs(args, opts)
		if err != nil {
			die("%s", err)
		}

		outcomes := batch.Run(context.Background(), jobs, classifyWorkers)

		if err := reportOutcomes(c, outcomes); err != nil {
			die("%s", err)
		}
	},
}

func init() {
	RootCmd.AddCommand(classifyCmd)

	defaults := classify.DefaultOptions()
	flags := classifyCmd.Flags()

	flags.StringVar(&classifyFai, "fai", "", "samtools faidx index of the reference")
	flags.StringVar(&classifySVBed, "sv", "", "BED file of known structural variants")
	flags.BoolVar(&classifyUseSheet, "sheet", false,
		"read known structural variants and reference labels from the Google sheet")
	flags.StringVarP(&classifyPolicy, "ambiguity", "a", ambiguity.DefaultPolicy.String(),
		"what to do with ambiguous contigs: one, none or all")
	flags.IntVar(&classifyExtensive, "extensive-min-size", defaults.Misassembly.ExtensiveThreshold,
		"smallest inconsistency that is a relocation")
	flags.IntVar(&classifyMaxIndel, "max-indel-length", defaults.Misassembly.MaxIndelLength,
		"largest inconsistency that is just an indel")
	flags.IntVar(&classifyUnalignedPart, "unaligned-part-size", defaults.Unaligned.UnalignedPartSize,
		"smallest unaligned region that makes a contig partially unaligned")
	flags.BoolVar(&classifyCyclic, "cyclic", false, "the references are circular")
	flags.StringVar(&classifyLabelSeparator, "label-separator", "",
		"reference names start with a species label ending in this separator")
	flags.IntVarP(&classifyWorkers, "workers", "w", runtime.NumCPU(),
		"number of assemblies to classify at once")
	flags.BoolVar(&classifySave, "save", false, "save summaries to the database")
	flags.BoolVar(&classifyEvents, "events", false, "print every misassembly")
}

// classifyOptions starts from the CONTIGQC_* environment settings, then
// applies any flags the user set.
func classifyOptions(cmd *cobra.Command, c *config.Config) (classify.Options, error) {
	opts, err := c.ClassifyOptions()
	if err != nil {
		return opts, err
	}

	flags := cmd.Flags()

	if flags.Changed("ambiguity") {
		if opts.Policy, err = ambiguity.ParsePolicy(classifyPolicy); err != nil {
			return opts, err
		}
	}

	if flags.Changed("extensive-min-size") {
		opts.Misassembly.ExtensiveThreshold = classifyExtensive
	}

	if flags.Changed("max-indel-length") {
		opts.Misassembly.MaxIndelLength = classifyMaxIndel
	}

	if flags.Changed("unaligned-part-size") {
		opts.Unaligned.UnalignedPartSize = classifyUnalignedPart
	}

	if flags.Changed("cyclic") {
		opts.Cyclic = classifyCyclic
	}

	if err = addKnownVariants(&opts, c); err != nil {
		return opts, err
	}

	return opts, opts.Validate()
}

func addKnownVariants(opts *classify.Options, c *config.Config) error {
	if classifySVBed != "" {
		svs, err := readSVBed(classifySVBed)
		if err != nil {
			return err
		}

		opts.SVs = append(opts.SVs, svs...)
	}

	if !classifyUseSheet {
		return nil
	}

	sc, err := sheets.ServiceCredentialsFromConfig(c)
	if err != nil {
		return err
	}

	s, err := sheets.New(sc)
	if err != nil {
		return err
	}

	svs, err := s.StructuralVariants(c.SheetID)
	if err != nil {
		return err
	}

	opts.SVs = append(opts.SVs, svs...)

	refs, err := s.References(c.SheetID)
	if err != nil {
		return err
	}

	opts.RefLengths = refs.Lengths

	if len(refs.Labels) > 0 {
		opts.RefLabels = refs.Labels
		opts.Combined = true
	}

	info("read %d known structural variants and %d references from the sheet", len(svs), len(refs.Lengths))

	return nil
}

func readSVBed(path string) ([]misassembly.SVRegion, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer fh.Close()

	return coords.ReadSVBed(fh)
}

// loadJobs reads the contigs and alignments of each contigs.fa,alignments.bam
// arg.
func loadJobs(args []string, opts classify.Options) ([]batch.Job, error) {
	var faiLengths map[string]int

	if classifyFai != "" {
		var err error

		if faiLengths, err = readFai(classifyFai); err != nil {
			return nil, err
		}
	}

	jobs := make([]batch.Job, len(args))

	for i, arg := range args {
		job, err := loadJob(arg, opts, faiLengths)
		if err != nil {
			return nil, err
		}

		jobs[i] = *job
	}

	return jobs, nil
}

func loadJob(arg string, opts classify.Options, faiLengths map[string]int) (*batch.Job, error) {
	faPath, alnPath, ok := strings.Cut(arg, assemblyArgSep)
	if !ok || faPath == "" || alnPath == "" {
		return nil, fmt.Errorf("%w: %s", ErrBadAssemblyArg, arg)
	}

	records, err := fasta.ReadFile(faPath)
	if err != nil {
		return nil, err
	}

	aligns, err := readAlignments(alnPath)
	if err != nil {
		return nil, err
	}

	name := assemblyName(faPath)

	switch {
	case faiLengths != nil:
		opts.RefLengths = faiLengths
	case opts.RefLengths == nil:
		opts.RefLengths = aligns.RefLengths
	}

	if classifyLabelSeparator != "" {
		opts.RefLabels = labelsFromNames(opts.RefLengths, classifyLabelSeparator)
		opts.Combined = true
	}

	opts.Logger = appLogger.New("assembly", name)

	contigs := make([]classify.Contig, len(records))
	for i, rec := range records {
		contigs[i] = classify.Contig{Name: rec.Name, Seq: rec.Seq}
	}

	info("%s: read %d contigs, %d of them aligned", name, len(contigs), len(aligns.ByContig))

	return &batch.Job{Name: name, Options: opts, Contigs: contigs, Aligns: aligns.ByContig}, nil
}

func readAlignments(path string) (*coords.Alignments, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer fh.Close()

	if strings.HasSuffix(path, bamSuffix) {
		return coords.ReadBAM(fh)
	}

	return coords.ReadSAM(fh)
}

func readFai(path string) (map[string]int, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer fh.Close()

	return coords.RefLengthsFromFai(fh)
}

// assemblyName is the FASTA file's basename without its extensions.
func assemblyName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".gz")

	return strings.TrimSuffix(name, filepath.Ext(name))
}

// labelsFromNames labels each reference with the part of its name before sep.
// References without sep in their name are their own label.
func labelsFromNames(refLengths map[string]int, sep string) map[string]string {
	labels := make(map[string]string, len(refLengths))

	for ref := range refLengths {
		label, _, _ := strings.Cut(ref, sep)
		labels[ref] = label
	}

	return labels
}

func reportOutcomes(c *config.Config, outcomes []batch.Outcome) error {
	var store *resultdb.Store

	if classifySave {
		if err := c.HasDatabase(); err != nil {
			return err
		}

		var err error

		if store, err = resultdb.New(resultdb.MySQLConfigFromConfig(c)); err != nil {
			return err
		}

		defer store.Close()

		if err = store.CreateTable(); err != nil {
			return err
		}
	}

	cliPrint("%s\n", summaryHeader)

	failed := 0

	for _, out := range outcomes {
		if out.Err != nil {
			warn("%s: %s", out.Name, out.Err)

			failed++

			continue
		}

		sum := resultdb.SummaryFromResult(out.Name, out.Result)
		cliPrint("%s\n", summaryLine(sum))

		if classifyEvents {
			printEvents(out.Name, out.Result.Events)
		}

		if store != nil {
			if err := store.Save(sum); err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrFailedJobs, failed, len(outcomes))
	}

	return nil
}

func printEvents(name string, events []misassembly.Event) {
	for _, e := range events {
		sv := ""
		if e.MatchedSV {
			sv = "known SV"
		}

		cliPrint("#\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n", name, e.Contig, e.Kind, e.Inconsistency,
			e.Left, e.Right, sv)
	}
}
