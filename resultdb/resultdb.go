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

// Package resultdb stores per-assembly classification summaries in a MySQL
// database, so that assemblies can be compared over time.
package resultdb

import (
	"database/sql"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/wtsi-hgi/contigqc/classify"
	"github.com/wtsi-hgi/contigqc/config"
	"github.com/wtsi-hgi/contigqc/misassembly"
)

const (
	sqlDriverName   = "mysql"
	sqlNetwork      = "tcp"
	connMaxLifetime = time.Minute * 3
	maxOpenConns    = 10
	maxIdleConns    = 10
)

// MySQLConfigFromConfig returns the mysql.Config for the database described
// by the CONTIGQC_SQL_* settings.
func MySQLConfigFromConfig(c *config.Config) *mysql.Config {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = sqlNetwork
	mc.Addr = net.JoinHostPort(c.Host, c.Port)
	mc.DBName = c.DBName
	mc.ParseTime = true

	return mc
}

// Store is a connection to the results database.
type Store struct {
	pool *sql.DB
}

// New returns a new Store connection using mysql.Config that you can get from
// MySQLConfigFromConfig(config.FromEnv()).
func New(c *mysql.Config) (*Store, error) {
	pool, err := sql.Open(sqlDriverName, c.FormatDSN())
	if err != nil {
		return nil, err
	}

	pool.SetConnMaxLifetime(connMaxLifetime)
	pool.SetMaxOpenConns(maxOpenConns)
	pool.SetMaxIdleConns(maxIdleConns)

	return &Store{pool: pool}, pool.Ping()
}

// Summary is the headline numbers of one classification run.
type Summary struct {
	Assembly            string
	Contigs             int
	Correct             int
	Misassembled        int
	MisassembledBases   int
	Relocations         int
	Translocations      int
	Inversions          int
	Interspecies        int
	Local               int
	MatchedSV           int
	Ambiguous           int
	AmbiguousExtraBases int
	FullyUnaligned      int
	FullyUnalignedBases int
	PartiallyUnaligned  int
	Mismatches          int
	Indels              int
	Created             time.Time
}

// SummaryFromResult extracts the Summary of the given Result.
func SummaryFromResult(assembly string, r *classify.Result) Summary {
	return Summary{
		Assembly:            assembly,
		Contigs:             r.Contigs,
		Correct:             r.Tags[classify.TagCorrect],
		Misassembled:        r.Misassembled(),
		MisassembledBases:   r.MisassembledBases,
		Relocations:         r.Misassemblies[misassembly.Relocation],
		Translocations:      r.Misassemblies[misassembly.Translocation],
		Inversions:          r.Misassemblies[misassembly.Inversion],
		Interspecies:        r.Misassemblies[misassembly.InterspeciesTranslocation],
		Local:               r.Misassemblies[misassembly.Local],
		MatchedSV:           r.MatchedSV,
		Ambiguous:           r.AmbiguousContigs,
		AmbiguousExtraBases: r.AmbiguousExtraBases,
		FullyUnaligned:      r.FullyUnaligned(),
		FullyUnalignedBases: r.FullyUnalignedBases,
		PartiallyUnaligned:  r.PartiallyUnaligned,
		Mismatches:          r.Indels.Mismatches,
		Indels:              len(r.Indels.Indels),
	}
}

const createSummaries = `
CREATE TABLE IF NOT EXISTS contigqc_summary (
id INT AUTO_INCREMENT PRIMARY KEY,
assembly VARCHAR(255) NOT NULL,
contigs INT NOT NULL,
correct INT NOT NULL,
misassembled INT NOT NULL,
misassembled_bases BIGINT NOT NULL,
relocations INT NOT NULL,
translocations INT NOT NULL,
inversions INT NOT NULL,
interspecies INT NOT NULL,
local_misassemblies INT NOT NULL,
matched_sv INT NOT NULL,
ambiguous INT NOT NULL,
ambiguous_extra_bases BIGINT NOT NULL,
fully_unaligned INT NOT NULL,
fully_unaligned_bases BIGINT NOT NULL,
partially_unaligned INT NOT NULL,
mismatches BIGINT NOT NULL,
indels BIGINT NOT NULL,
created DATETIME NOT NULL,
INDEX (assembly)
)
`

// CreateTable creates the summary table if it doesn't already exist.
func (s *Store) CreateTable() error {
	_, err := s.pool.Exec(createSummaries)

	return err
}

const insertSummary = `
INSERT INTO contigqc_summary (assembly, contigs, correct, misassembled,
misassembled_bases, relocations, translocations, inversions, interspecies,
local_misassemblies, matched_sv, ambiguous, ambiguous_extra_bases,
fully_unaligned, fully_unaligned_bases, partially_unaligned, mismatches,
indels, created)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Save stores the given summary. If its Created time is zero, now is used.
func (s *Store) Save(sum Summary) error {
	if sum.Created.IsZero() {
		sum.Created = time.Now().UTC().Truncate(time.Second)
	}

	_, err := s.pool.Exec(insertSummary, sum.Assembly, sum.Contigs, sum.Correct,
		sum.Misassembled, sum.MisassembledBases, sum.Relocations, sum.Translocations,
		sum.Inversions, sum.Interspecies, sum.Local, sum.MatchedSV, sum.Ambiguous,
		sum.AmbiguousExtraBases, sum.FullyUnaligned, sum.FullyUnalignedBases,
		sum.PartiallyUnaligned, sum.Mismatches, sum.Indels, sum.Created)

	return err
}

const getSummaries = `
SELECT assembly, contigs, correct, misassembled, misassembled_bases,
relocations, translocations, inversions, interspecies, local_misassemblies,
matched_sv, ambiguous, ambiguous_extra_bases, fully_unaligned,
fully_unaligned_bases, partially_unaligned, mismatches, indels, created
FROM contigqc_summary
WHERE assembly = ?
ORDER BY created, id
`

// Summaries returns every stored summary for the given assembly, oldest
// first.
func (s *Store) Summaries(assembly string) ([]Summary, error) {
	rows, err := s.pool.Query(getSummaries, assembly)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var sums []Summary

	for rows.Next() {
		var sum Summary

		if err := rows.Scan(
			&sum.Assembly,
			&sum.Contigs,
			&sum.Correct,
			&sum.Misassembled,
			&sum.MisassembledBases,
			&sum.Relocations,
			&sum.Translocations,
			&sum.Inversions,
			&sum.Interspecies,
			&sum.Local,
			&sum.MatchedSV,
			&sum.Ambiguous,
			&sum.AmbiguousExtraBases,
			&sum.FullyUnaligned,
			&sum.FullyUnalignedBases,
			&sum.PartiallyUnaligned,
			&sum.Mismatches,
			&sum.Indels,
			&sum.Created,
		); err != nil {
			return nil, err
		}

		sums = append(sums, sum)
	}

	if err := rows.Close(); err != nil {
		return nil, err
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sums, nil
}

const deleteSummaries = `DELETE FROM contigqc_summary WHERE assembly = ?`

// Delete removes every stored summary for the given assembly.
func (s *Store) Delete(assembly string) error {
	_, err := s.pool.Exec(deleteSummaries, assembly)

	return err
}

// Close closes the connection to the database.
func (s *Store) Close() error {
	return s.pool.Close()
}
