// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package block

import (
	"strings"

	"github.com/gardener/astroforge/pkg/mdx/ast"
	"github.com/gardener/astroforge/pkg/mdx/inline"
	"github.com/gardener/astroforge/pkg/mdx/scanner"
)

// line is a source line without its line ending
type line struct {
	text string
	pos  ast.Position
}

func (l line) blank() bool {
	return scanner.IsBlankLine(l.text)
}

// trimmed returns the line without leading white space
func (l line) trimmed() string {
	return strings.TrimLeft(l.text, " \t")
}

func shift(p ast.Position, n int) ast.Position {
	return ast.Position{Offset: p.Offset + n, Line: p.Line, Column: p.Column + n}
}

// cut drops the first n bytes of the line
func (l line) cut(n int) line {
	if n > len(l.text) {
		n = len(l.text)
	}
	return line{text: l.text[n:], pos: shift(l.pos, n)}
}

// dedent removes up to cols columns of leading white space
func (l line) dedent(cols int) line {
	i, w := 0, 0
	for i < len(l.text) && w < cols {
		switch l.text[i] {
		case ' ':
			w++
		case '\t':
			w += 4
		default:
			return l.cut(i)
		}
		i++
	}
	return l.cut(i)
}

// splitLines splits source into lines. A trailing \r is dropped from every line.
func splitLines(source string) []line {
	var lines []line
	offset := 0
	for n := 1; ; n++ {
		end := strings.IndexByte(source[offset:], '\n')
		text := source[offset:]
		if end >= 0 {
			text = source[offset : offset+end]
		}
		lines = append(lines, line{
			text: strings.TrimSuffix(text, "\r"),
			pos:  ast.Position{Offset: offset, Line: n, Column: 1},
		})
		if end < 0 {
			return lines
		}
		offset += end + 1
	}
}

// join concatenates lines into a span keeping every line's position
func join(lines []line) inline.Span {
	texts := make([]string, len(lines))
	span := inline.Span{Lines: make([]ast.Position, len(lines))}
	for i, l := range lines {
		texts[i] = l.text
		span.Lines[i] = l.pos
	}
	span.Text = strings.Join(texts, "\n")
	return span
}

// textSpan joins lines into inline text, trimming the white space around every line
func textSpan(lines []line) inline.Span {
	trimmed := make([]line, len(lines))
	for i, l := range lines {
		t := l.trimmed()
		l = l.cut(len(l.text) - len(t))
		l.text = strings.TrimRight(l.text, " \t")
		trimmed[i] = l
	}
	return join(trimmed)
}

// split returns the lines of span.Text[from:to]
func split(span inline.Span, from, to int) []line {
	var lines []line
	for start := from; ; {
		end := strings.IndexByte(span.Text[start:to], '\n')
		if end < 0 {
			return append(lines, line{text: span.Text[start:to], pos: span.Locate(start)})
		}
		lines = append(lines, line{text: span.Text[start : start+end], pos: span.Locate(start)})
		start += end + 1
	}
}

// lineEnd returns the index of the line ending following i, or len(src)
func lineEnd(src string, i int) int {
	if end := strings.IndexByte(src[i:], '\n'); end >= 0 {
		return i + end
	}
	return len(src)
}
