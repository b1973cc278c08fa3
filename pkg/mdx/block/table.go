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

// separatorCell matches a complete delimiter row cell like :---:
var separatorCell = scanner.Seq(
	scanner.Opt(scanner.Literal(":")),
	scanner.Literal("---"),
	scanner.Many(scanner.Literal("-")),
	scanner.Opt(scanner.Literal(":")),
)

func isRow(l line) bool {
	return strings.HasPrefix(l.trimmed(), "|")
}

// splitRow splits a table row into trimmed cells. Pipes that are escaped
// or inside code spans do not separate cells.
func splitRow(l line) []line {
	lead := len(l.text) - len(l.trimmed())
	l = l.cut(lead + 1)
	var cells []line
	start := 0
	for i := 0; i < len(l.text); {
		switch l.text[i] {
		case '\\':
			i += 2
		case '`':
			i = inline.SkipCodeSpan(l.text, i)
		case '|':
			cells = append(cells, trimCell(l, start, i))
			i++
			start = i
		default:
			i++
		}
	}
	if rest := strings.TrimSpace(l.text[min(start, len(l.text)):]); rest != "" {
		cells = append(cells, trimCell(l, start, len(l.text)))
	}
	return cells
}

func trimCell(l line, from, to int) line {
	raw := l.text[from:to]
	t := strings.TrimLeft(raw, " \t")
	c := l.cut(from + len(raw) - len(t))
	c.text = strings.TrimRight(t, " \t")
	return c
}

// alignments parses a delimiter row. ok is false unless every cell is a valid delimiter.
func alignments(cells []line) ([]ast.Alignment, bool) {
	align := make([]ast.Alignment, len(cells))
	for i, c := range cells {
		if separatorCell(c.text, 0) != len(c.text) {
			return nil, false
		}
		left, right := strings.HasPrefix(c.text, ":"), strings.HasSuffix(c.text, ":")
		switch {
		case left && right:
			align[i] = ast.AlignCenter
		case left:
			align[i] = ast.AlignLeft
		case right:
			align[i] = ast.AlignRight
		default:
			align[i] = ast.AlignNone
		}
	}
	return align, len(cells) > 0
}

func isTable(lines []line, i int) bool {
	if !isRow(lines[i]) || i+1 >= len(lines) || !isRow(lines[i+1]) {
		return false
	}
	align, ok := alignments(splitRow(lines[i+1]))
	return ok && len(align) == len(splitRow(lines[i]))
}

func table(b *Builder, lines []line, i int) ([]ast.Block, int, error) {
	header := splitRow(lines[i])
	align, _ := alignments(splitRow(lines[i+1]))
	t := &ast.Table{Align: align}
	rows := [][]line{header}
	j := i + 2
	for ; j < len(lines) && isRow(lines[j]); j++ {
		rows = append(rows, splitRow(lines[j]))
	}
	for _, cells := range rows {
		row := make([][]ast.Inline, len(align))
		for k := range row {
			if k >= len(cells) {
				continue
			}
			content, err := b.inline.Parse(inline.Span{Text: cells[k].text, Lines: []ast.Position{cells[k].pos}})
			if err != nil {
				return nil, noMatch, err
			}
			row[k] = content
		}
		t.Rows = append(t.Rows, row)
	}
	return []ast.Block{t}, j, nil
}
