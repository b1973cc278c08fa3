// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"errors"
	"fmt"
)

// ErrAnchorMissingHref is reported for links without a destination
var ErrAnchorMissingHref = errors.New("anchor is missing href")

// Position of a byte in the source. Line and Column are 1-based.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Diagnostic is a fatal error bound to a source location
type Diagnostic struct {
	// Path of the source file, if known
	Path string
	Position
	// Excerpt is the source line holding the error
	Excerpt string
	Err     error
}

func (d *Diagnostic) Error() string {
	loc := fmt.Sprintf("%d:%d", d.Line, d.Column)
	if d.Path != "" {
		loc = d.Path + ":" + loc
	}
	return fmt.Sprintf("%s: %v (offset %d): %s", loc, d.Err, d.Offset, d.Excerpt)
}

// Unwrap returns the underlying error
func (d *Diagnostic) Unwrap() error {
	return d.Err
}
