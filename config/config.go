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

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/wtsi-hgi/contigqc/ambiguity"
	"github.com/wtsi-hgi/contigqc/classify"
)

const (
	EnvVarCreds  = "CONTIGQC_CREDENTIALS_FILE"
	EnvVarSheet  = "CONTIGQC_SPREADSHEET_ID"
	EnvVarUser   = "CONTIGQC_SQL_USER"
	EnvVarPass   = "CONTIGQC_SQL_PASS"
	EnvVarHost   = "CONTIGQC_SQL_HOST"
	EnvVarPort   = "CONTIGQC_SQL_PORT"
	EnvVarDBName = "CONTIGQC_SQL_DB"

	EnvVarPolicy            = "CONTIGQC_AMBIGUITY"
	EnvVarAmbiguityScore    = "CONTIGQC_AMBIGUITY_SCORE"
	EnvVarExtensive         = "CONTIGQC_EXTENSIVE_MIN_SIZE"
	EnvVarMaxIndel          = "CONTIGQC_MAX_INDEL_LENGTH"
	EnvVarUnalignedPartSize = "CONTIGQC_UNALIGNED_PART_SIZE"
	EnvVarCyclic            = "CONTIGQC_CYCLIC"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrMissingEnvs = Error("missing required environment variables")
	ErrBadEnv      = Error("invalid environment variable value")
)

// Config holds the settings from CONTIGQC_* environment variables. The
// database and sheet settings are only needed to save results or read known
// structural variants from a Google sheet; the rest override the
// classification defaults.
type Config struct {
	CredentialsPath string
	SheetID         string
	User            string
	Password        string
	Host            string
	Port            string
	DBName          string

	Policy            string
	AmbiguityScore    string
	ExtensiveMinSize  string
	MaxIndelLength    string
	UnalignedPartSize string
	Cyclic            string
}

// FromEnv returns a new Config with properies populated from environment
// variables CONTIGQC_*, where * is amongst: CREDENTIALS_FILE, SPREADSHEET_ID,
// SQL_USER, SQL_PASS, SQL_HOST, SQL_PORT, SQL_DB, AMBIGUITY,
// AMBIGUITY_SCORE, EXTENSIVE_MIN_SIZE, MAX_INDEL_LENGTH, UNALIGNED_PART_SIZE
// and CYCLIC. None are required here; see HasDatabase(), HasSheet() and
// ClassifyOptions().
//
// If these environment variables are defined in a file called .env (and not
// previously set in an environment variable), they will be automatically
// loaded.
//
// Optionally supply a directory to look for the .env file in.
func FromEnv(dir ...string) *Config {
	var parentDir string
	if len(dir) == 1 {
		parentDir = dir[0] + string(os.PathSeparator)
	}

	godotenv.Load(parentDir + ".env") //nolint:errcheck

	return &Config{
		CredentialsPath:   os.Getenv(EnvVarCreds),
		SheetID:           os.Getenv(EnvVarSheet),
		User:              os.Getenv(EnvVarUser),
		Password:          os.Getenv(EnvVarPass),
		Host:              os.Getenv(EnvVarHost),
		Port:              os.Getenv(EnvVarPort),
		DBName:            os.Getenv(EnvVarDBName),
		Policy:            os.Getenv(EnvVarPolicy),
		AmbiguityScore:    os.Getenv(EnvVarAmbiguityScore),
		ExtensiveMinSize:  os.Getenv(EnvVarExtensive),
		MaxIndelLength:    os.Getenv(EnvVarMaxIndel),
		UnalignedPartSize: os.Getenv(EnvVarUnalignedPartSize),
		Cyclic:            os.Getenv(EnvVarCyclic),
	}
}

// HasDatabase returns ErrMissingEnvs unless every SQL_* variable was set.
func (c *Config) HasDatabase() error {
	if c.User == "" || c.Password == "" || c.Host == "" || c.Port == "" || c.DBName == "" {
		return ErrMissingEnvs
	}

	return nil
}

// HasSheet returns ErrMissingEnvs unless the credentials file and spreadsheet
// ID were set.
func (c *Config) HasSheet() error {
	if c.CredentialsPath == "" || c.SheetID == "" {
		return ErrMissingEnvs
	}

	return nil
}

// ClassifyOptions returns the default classify.Options, overridden by any of
// the classification variables that were set.
func (c *Config) ClassifyOptions() (classify.Options, error) {
	opts := classify.DefaultOptions()

	if c.Policy != "" {
		policy, err := ambiguity.ParsePolicy(c.Policy)
		if err != nil {
			return opts, err
		}

		opts.Policy = policy
	}

	conv := &converter{}

	opts.Selection.AmbiguityScore = conv.toFloat(EnvVarAmbiguityScore, c.AmbiguityScore,
		opts.Selection.AmbiguityScore)
	opts.Misassembly.ExtensiveThreshold = conv.toInt(EnvVarExtensive, c.ExtensiveMinSize,
		opts.Misassembly.ExtensiveThreshold)
	opts.Misassembly.MaxIndelLength = conv.toInt(EnvVarMaxIndel, c.MaxIndelLength,
		opts.Misassembly.MaxIndelLength)
	opts.Unaligned.UnalignedPartSize = conv.toInt(EnvVarUnalignedPartSize, c.UnalignedPartSize,
		opts.Unaligned.UnalignedPartSize)
	opts.Cyclic = conv.toBool(EnvVarCyclic, c.Cyclic, opts.Cyclic)

	if conv.err != nil {
		return opts, conv.err
	}

	return opts, opts.Validate()
}

// converter parses optional values, keeping the first error.
type converter struct {
	err error
}

func (c *converter) toInt(name, s string, def int) int {
	if c.err != nil || s == "" {
		return def
	}

	i, err := strconv.Atoi(s)
	if err != nil {
		c.err = fmt.Errorf("%w %s: %w", ErrBadEnv, name, err)

		return def
	}

	return i
}

func (c *converter) toFloat(name, s string, def float64) float64 {
	if c.err != nil || s == "" {
		return def
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		c.err = fmt.Errorf("%w %s: %w", ErrBadEnv, name, err)

		return def
	}

	return f
}

func (c *converter) toBool(name, s string, def bool) bool {
	if c.err != nil || s == "" {
		return def
	}

	b, err := strconv.ParseBool(s)
	if err != nil {
		c.err = fmt.Errorf("%w %s: %w", ErrBadEnv, name, err)

		return def
	}

	return b
}
