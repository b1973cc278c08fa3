// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package renderer

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/gardener/astroforge/pkg/mdx/ast"
)

// pool with reusable buffers
var bufPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// Markdown serializes doc back to Markdown. Parsing the result yields the same structure.
func Markdown(doc *ast.Document) string {
	buf := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(buf)
	buf.Reset()
	r := &markdownRenderer{
		writer:  buf,
		indents: make([]byte, 0, 20),
		markers: make([]int, 0, 5),
	}
	r.renderBlocks(doc.Blocks, false)
	if buf.Len() > 0 {
		r.newLine(false)
	}
	return buf.String()
}

// markdownRenderer holds the buffer writer and the indents of nested list items
type markdownRenderer struct {
	writer  *bytes.Buffer
	indents []byte
	markers []int
	table   bool
}

func (r *markdownRenderer) newLine(indents bool) {
	_ = r.writer.WriteByte('\n')
	if indents {
		_, _ = r.writer.Write(r.indents)
	}
}

// blockSeparator starts a new block. Blocks of loose containers are separated by a blank line.
func (r *markdownRenderer) blockSeparator(tight bool) {
	if !tight {
		_ = r.writer.WriteByte('\n')
	}
	r.newLine(true)
}

// writeContent writes b indenting every line but the first
func (r *markdownRenderer) writeContent(b string) {
	if len(r.indents) == 0 {
		_, _ = r.writer.WriteString(b)
		return
	}
	reader := bufio.NewReader(strings.NewReader(b))
	for i := 0; ; i++ {
		l, err := reader.ReadString('\n')
		if len(l) > 0 {
			if i > 0 {
				_, _ = r.writer.Write(r.indents)
			}
			_, _ = r.writer.WriteString(l)
		}
		if err != nil {
			break // EOF
		}
	}
}

func (r *markdownRenderer) renderBlocks(blocks []ast.Block, tight bool) {
	for i, b := range blocks {
		if i > 0 {
			r.blockSeparator(tight)
		}
		r.renderBlock(b)
	}
}

func (r *markdownRenderer) renderBlock(b ast.Block) {
	switch n := b.(type) {
	case *ast.Frontmatter:
		r.writeContent("---\n" + n.Raw + "\n---")
	case *ast.Heading:
		_, _ = r.writer.WriteString(strings.Repeat("#", n.Level) + " ")
		r.writeContent(r.inlines(n.Content))
	case *ast.Paragraph:
		r.writeContent(r.inlines(n.Content))
	case *ast.List:
		r.renderList(n)
	case *ast.Table:
		r.renderTable(n)
	case *ast.CodeBlock:
		r.renderCodeBlock(n)
	case *ast.Comment:
		r.writeContent(n.Raw)
	case *ast.HTMLBlock:
		if n.Raw != "" {
			r.writeContent(n.Raw)
			return
		}
		r.writeContent(n.Open)
		r.renderChildren(n.Children)
		r.newLine(true)
		r.writeContent(n.Close)
	case *ast.ComponentBlock:
		r.renderComponent(n)
	}
}

func (r *markdownRenderer) renderChildren(children []ast.Block) {
	if len(children) == 0 {
		return
	}
	r.blockSeparator(false)
	r.renderBlocks(children, false)
	_ = r.writer.WriteByte('\n')
}

func buildListMarker(l *ast.List, i int) string {
	if !l.Ordered {
		return "- "
	}
	return strconv.Itoa(l.Start+i) + ". "
}

func (r *markdownRenderer) renderList(l *ast.List) {
	for i, item := range l.Items {
		if i > 0 {
			r.blockSeparator(l.Tight)
		}
		listMarker := buildListMarker(l, i)
		_, _ = r.writer.WriteString(listMarker)
		r.markers = append(r.markers, len(listMarker))
		r.indents = append(r.indents, bytes.Repeat([]byte{' '}, len(listMarker))...)
		r.renderBlocks(item.Blocks, l.Tight)
		r.indents = r.indents[:len(r.indents)-r.markers[len(r.markers)-1]]
		r.markers = r.markers[:len(r.markers)-1]
	}
}

var alignMarkers = map[ast.Alignment]string{
	ast.AlignNone:   "---",
	ast.AlignLeft:   ":---",
	ast.AlignCenter: ":---:",
	ast.AlignRight:  "---:",
}

func (r *markdownRenderer) renderTable(t *ast.Table) {
	r.table = true
	defer func() { r.table = false }()
	for i, row := range t.Rows {
		if i > 0 {
			r.newLine(true)
		}
		cells := make([]string, len(row))
		for k, cell := range row {
			cells[k] = r.inlines(cell)
		}
		_, _ = r.writer.WriteString("| " + strings.Join(cells, " | ") + " |")
		if i == 0 {
			markers := make([]string, len(t.Align))
			for k, a := range t.Align {
				markers[k] = alignMarkers[a]
			}
			r.newLine(true)
			_, _ = r.writer.WriteString("| " + strings.Join(markers, " | ") + " |")
		}
	}
}

// fenceFor returns a backtick fence longer than any backtick run of body
func fenceFor(body string) string {
	longest, run := 0, 0
	for i := 0; i < len(body); i++ {
		if body[i] == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return strings.Repeat("`", max(3, longest+1))
}

func codeInfo(c *ast.CodeBlock) string {
	var info []string
	if c.Language != "" {
		info = append(info, c.Language)
	}
	if c.FirstLine > 0 {
		info = append(info, strconv.Itoa(c.FirstLine))
	}
	if c.Highlight != "" {
		info = append(info, "{"+c.Highlight+"}")
	}
	if c.Title != "" {
		info = append(info, strconv.Quote(c.Title))
	}
	if c.Caption != "" {
		info = append(info, "["+c.Caption+"]")
	}
	if c.Collapse {
		info = append(info, "<>")
	}
	return strings.Join(info, " ")
}

func (r *markdownRenderer) renderCodeBlock(c *ast.CodeBlock) {
	fb := fenceFor(c.Body)
	_, _ = r.writer.WriteString(fb + codeInfo(c))
	r.newLine(true)
	if c.Body != "" {
		r.writeContent(c.Body)
		r.newLine(true)
	}
	_, _ = r.writer.WriteString(fb)
}

func (r *markdownRenderer) renderComponent(c *ast.ComponentBlock) {
	if c.Multiline && len(c.Attributes) > 0 {
		var b strings.Builder
		b.WriteString("<" + c.Name)
		for _, a := range attributeList(c.Attributes) {
			b.WriteString("\n  " + a)
		}
		if c.SelfClosing {
			b.WriteString("\n/>")
		} else {
			b.WriteString("\n>")
		}
		r.writeContent(b.String())
	} else {
		r.writeContent(openTag(c.Name, c.Attributes, c.SelfClosing))
	}
	if c.SelfClosing {
		return
	}
	r.renderChildren(c.Children)
	r.newLine(true)
	r.writeContent("</" + c.Name + ">")
}

var markdownTextEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "`", "\\`", "[", `\[`)

var markdownCellEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "`", "\\`", "[", `\[`, "|", `\|`)

func (r *markdownRenderer) inlines(in []ast.Inline) string {
	var b strings.Builder
	for _, node := range in {
		switch n := node.(type) {
		case *ast.Text:
			if r.table {
				b.WriteString(markdownCellEscaper.Replace(n.Value))
			} else {
				b.WriteString(markdownTextEscaper.Replace(n.Value))
			}
		case *ast.Bold:
			b.WriteString("**" + r.inlines(n.Content) + "**")
		case *ast.Emphasis:
			b.WriteString("*" + r.inlines(n.Content) + "*")
		case *ast.InlineCode:
			b.WriteString(codeSpan(n.Code))
		case *ast.Anchor:
			b.WriteString(r.anchor(n))
		case *ast.InlineComponent:
			b.WriteString(openTag(n.Name, n.Attributes, true))
		case *ast.LineBreakHint:
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func codeSpan(code string) string {
	fence := strings.TrimSuffix(fenceFor(code), "``")
	for strings.Contains(code, fence) {
		fence += "`"
	}
	if strings.HasPrefix(code, "`") || strings.HasSuffix(code, "`") || (strings.HasPrefix(code, " ") && strings.HasSuffix(code, " ")) {
		return fence + " " + code + " " + fence
	}
	return fence + code + fence
}

func (r *markdownRenderer) anchor(a *ast.Anchor) string {
	content := r.inlines(a.Content)
	if !a.Markdown {
		return openTag("a", a.Attributes, false) + content + "</a>"
	}
	dest := a.Href
	if strings.ContainsAny(dest, " \t") {
		dest = "<" + dest + ">"
	}
	if title, ok := ast.Lookup(a.Attributes, "title"); ok {
		return fmt.Sprintf("[%s](%s %s)", content, dest, strconv.Quote(title.Value))
	}
	if content == a.Href && externalScheme(a.Href) {
		return "<" + a.Href + ">"
	}
	return fmt.Sprintf("[%s](%s)", content, dest)
}

func externalScheme(href string) bool {
	h := strings.ToLower(href)
	return strings.HasPrefix(h, "http://") || strings.HasPrefix(h, "https://")
}
