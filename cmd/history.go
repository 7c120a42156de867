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
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wtsi-hgi/contigqc/config"
	"github.com/wtsi-hgi/contigqc/resultdb"
)

const summaryHeader = "assembly\tcontigs\tcorrect\tmisassembled\tmisassembled_bases\trelocations\t" +
	"translocations\tinversions\tinterspecies\tlocal\tmatched_sv\tambiguous\tambiguous_extra_bases\t" +
	"unaligned\tunaligned_bases\tpartially_unaligned\tmismatches\tindels"

const timeFormat = "2006-01-02T15:04:05"

// historyCmd represents the history command.
var historyCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "history assembly [...]",
	Short: "Show saved summaries of assemblies.",
	Long: `Show saved summaries of assemblies.

Prints, oldest first, the summaries previously stored by "classify --save" for
each named assembly, so you can see how a series of assemblies has improved.
The assembly name is the basename of its FASTA file without extensions.

The database is set by the CONTIGQC_SQL_* environment variables.
`,
	Run: func(_ *cobra.Command, args []string) {
		if err := history(args); err != nil {
			die("%s", err)
		}
	},
}

func init() {
	RootCmd.AddCommand(historyCmd)
}

func history(assemblies []string) error {
	c := config.FromEnv()
	if err := c.HasDatabase(); err != nil {
		return err
	}

	store, err := resultdb.New(resultdb.MySQLConfigFromConfig(c))
	if err != nil {
		return err
	}

	defer store.Close()

	cliPrint("created\t%s\n", summaryHeader)

	for _, assembly := range assemblies {
		sums, err := store.Summaries(assembly)
		if err != nil {
			return err
		}

		if len(sums) == 0 {
			warn("no summaries saved for %s", assembly)
		}

		for _, sum := range sums {
			cliPrint("%s\t%s\n", sum.Created.Format(timeFormat), summaryLine(sum))
		}
	}

	return nil
}

// summaryLine formats a summary in the column order of summaryHeader.
func summaryLine(sum resultdb.Summary) string {
	cols := []int{
		sum.Contigs, sum.Correct, sum.Misassembled, sum.MisassembledBases, sum.Relocations,
		sum.Translocations, sum.Inversions, sum.Interspecies, sum.Local, sum.MatchedSV,
		sum.Ambiguous, sum.AmbiguousExtraBases, sum.FullyUnaligned, sum.FullyUnalignedBases,
		sum.PartiallyUnaligned, sum.Mismatches, sum.Indels,
	}

	var sb strings.Builder

	sb.WriteString(sum.Assembly)

	for _, col := range cols {
		sb.WriteByte('\t')
		sb.WriteString(strconv.Itoa(col))
	}

	return sb.String()
}
