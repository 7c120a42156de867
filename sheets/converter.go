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
	"strconv"

	"github.com/wtsi-hgi/contigqc/misassembly"
)

// converter converts strings to other types. The conversions do not return
// errors, but instead set the error field. Check that field after doing all
// your conversions.
type converter struct {
	Err error
}

// ToInt converts a string to an int. If the conversion fails, the error
// field is set, and 0 is returned.
//
// If the error field is already set, this function does nothing and returns 0.
func (c *converter) ToInt(s string) int {
	if c.Err != nil {
		return 0
	}

	if s == "" {
		return 0
	}

	i, err := strconv.Atoi(s)
	if err != nil {
		c.Err = err

		return 0
	}

	return i
}

// ToKind converts a string to a misassembly.Kind. Blank cells and "." become
// the empty Kind, which matches any kind of misassembly. If the conversion
// fails, the error field is set.
//
// If the error field is already set, this function does nothing and returns
// the empty Kind.
func (c *converter) ToKind(s string) misassembly.Kind {
	if c.Err != nil || s == "" || s == "." {
		return ""
	}

	k, err := misassembly.StringToKind(s)
	c.Err = err

	return k
}
