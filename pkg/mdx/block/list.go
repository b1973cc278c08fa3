// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package block

import (
	"strconv"
	"strings"

	"github.com/gardener/astroforge/pkg/mdx/ast"
	"github.com/gardener/astroforge/pkg/mdx/scanner"
)

// marker describes a list item marker line
type marker struct {
	ordered bool
	// delim is the bullet character or the delimiter following the numeral
	delim byte
	start int
	// indent is the column of the marker
	indent int
	// content is the column where the item content starts
	content int
	// width is the byte length of everything before the content on the marker line
	width int
}

func parseMarker(text string) (marker, bool) {
	t := strings.TrimLeft(text, " \t")
	lead := len(text) - len(t)
	var num, delim string
	end := scanner.Alt(
		scanner.Capture(scanner.OneOf("-*+"), &delim),
		scanner.Seq(scanner.Capture(scanner.Digits, &num), scanner.Capture(scanner.OneOf(".)"), &delim)),
	)(t, 0)
	if end == noMatch || len(num) > 9 || (end < len(t) && t[end] != ' ' && t[end] != '\t') {
		return marker{}, false
	}
	m := marker{ordered: num != "", delim: delim[0], indent: scanner.Indent(text)}
	if m.ordered {
		m.start, _ = strconv.Atoi(num)
	}
	spaces := scanner.SkipBlank(t, end) - end
	if spaces > 4 || end+spaces == len(t) {
		spaces = min(spaces, 1)
	}
	m.width = lead + end + spaces
	m.content = m.indent + end + max(spaces, 1)
	return m, true
}

func isListItem(lines []line, i int) bool {
	_, ok := parseMarker(lines[i].text)
	return ok
}

// sameList tells whether m continues the list started by first
func sameList(first, m marker) bool {
	return m.ordered == first.ordered && m.delim == first.delim
}

func list(b *Builder, lines []line, i int) ([]ast.Block, int, error) {
	first, _ := parseMarker(lines[i].text)
	l := &ast.List{Ordered: first.ordered, Start: first.start, Tight: true}
	j := i
	for j < len(lines) {
		m, ok := parseMarker(lines[j].text)
		if !ok || !sameList(first, m) {
			break
		}
		itemLines, next, loose := gatherItem(lines, j, m)
		blocks, err := b.parseBlocks(itemLines)
		if err != nil {
			return nil, noMatch, err
		}
		l.Items = append(l.Items, &ast.ListItem{Blocks: blocks})
		if loose {
			l.Tight = false
		}
		// blank lines before a sibling item make the list loose
		if next > 0 && next < len(lines) && lines[next-1].blank() {
			if s, ok := parseMarker(lines[next].text); ok && sameList(first, s) {
				l.Tight = false
			}
		}
		j = next
	}
	return []ast.Block{l}, j, nil
}

// gatherItem collects the lines of the item whose marker is on lines[i], dedented
// to the item's content column. loose is set when blank lines separate blocks of the item.
func gatherItem(lines []line, i int, m marker) ([]line, int, bool) {
	item := []line{lines[i].cut(m.width)}
	prevBlank := lines[i].cut(m.width).blank()
	k := i + 1
	for ; k < len(lines); k++ {
		l := lines[k]
		switch {
		case l.blank():
			item = append(item, line{pos: l.pos})
			prevBlank = true
			continue
		case scanner.Indent(l.text) >= m.content:
			item = append(item, l.dedent(m.content))
		case !prevBlank && !interrupts(lines, k):
			// lazy continuation of a paragraph
			item = append(item, l)
		default:
			return trimItem(item, k)
		}
		prevBlank = false
	}
	return trimItem(item, k)
}

// trimItem drops trailing blank lines. An item is loose when a blank line separates
// two of its blocks. Blank lines inside a nested list do not count.
func trimItem(item []line, next int) ([]line, int, bool) {
	n := len(item)
	for n > 1 && item[n-1].blank() {
		n--
	}
	item = item[:n]
	loose := false
	last := item[0]
	for k := 1; k < len(item); k++ {
		if item[k].blank() {
			continue
		}
		if item[k-1].blank() && scanner.Indent(item[k].text) == 0 {
			_, nested := parseMarker(item[k].text)
			_, afterItem := parseMarker(last.text)
			if !nested || (!afterItem && scanner.Indent(last.text) == 0) {
				loose = true
			}
		}
		last = item[k]
	}
	return item, next, loose
}
