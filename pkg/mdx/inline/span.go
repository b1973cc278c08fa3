// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package inline

import (
	"strings"

	"github.com/gardener/astroforge/pkg/mdx/ast"
)

// Span is a piece of text together with the source position of each of its lines.
// Lines of a span need not be contiguous in the source, e.g. for dedented list items.
type Span struct {
	Text  string
	Lines []ast.Position
}

// NewSpan creates a span for text that appears unchanged in the source at start
func NewSpan(text string, start ast.Position) Span {
	s := Span{Text: text, Lines: []ast.Position{start}}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			s.Lines = append(s.Lines, ast.Position{Offset: start.Offset + i + 1, Line: start.Line + len(s.Lines), Column: 1})
		}
	}
	return s
}

// Locate maps a byte index of Text to its source position
func (s Span) Locate(i int) ast.Position {
	if i > len(s.Text) {
		i = len(s.Text)
	}
	line := strings.Count(s.Text[:i], "\n")
	lineStart := strings.LastIndexByte(s.Text[:i], '\n') + 1
	if len(s.Lines) == 0 {
		return ast.Position{Offset: i, Line: line + 1, Column: i - lineStart + 1}
	}
	if line >= len(s.Lines) {
		line = len(s.Lines) - 1
	}
	p := s.Lines[line]
	delta := i - lineStart
	return ast.Position{Offset: p.Offset + delta, Line: p.Line, Column: p.Column + delta}
}

// LineAt returns the line of Text holding byte index i
func (s Span) LineAt(i int) string {
	if i > len(s.Text) {
		i = len(s.Text)
	}
	start := strings.LastIndexByte(s.Text[:i], '\n') + 1
	end := strings.IndexByte(s.Text[i:], '\n')
	if end < 0 {
		return s.Text[start:]
	}
	return s.Text[start : i+end]
}
