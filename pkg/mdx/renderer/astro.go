// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gardener/astroforge/pkg/mdx/ast"
	"github.com/gardener/astroforge/pkg/mdx/block"
	"github.com/gardener/astroforge/pkg/mdx/inline"
	"github.com/gardener/astroforge/pkg/mdx/scanner"
)

// Options for the Astro renderer
type Options struct {
	// OutputPath is the path of the page, used to derive relative component imports
	OutputPath string
	// ComponentsRoot is an import alias or a directory holding the components
	ComponentsRoot string
	// ComponentPaths overrides the import path of single components
	ComponentPaths map[string]string
	// Preamble lines are appended to the component script
	Preamble []string
}

// Page is a rendered Astro page
type Page struct {
	Script  string
	Body    string
	Imports []string
}

// Markup returns the complete page
func (p *Page) Markup() string {
	return p.Script + p.Body
}

// Astro renders doc as an Astro page
func Astro(doc *ast.Document, opts Options) *Page {
	r := &astroRenderer{writer: &bytes.Buffer{}}
	r.renderBlocks(doc.Blocks, false)
	imports := NewRegistry(opts.ComponentsRoot, opts.ComponentPaths).Imports(doc.Components.Names(), opts.OutputPath)
	return &Page{
		Script:  script(doc, imports, opts.Preamble),
		Body:    r.writer.String(),
		Imports: imports,
	}
}

const (
	externalRel    = "nofollow noopener noreferrer"
	externalTarget = "_blank"
	numberRange    = "&thinsp;&ndash;&thinsp;"
)

type astroRenderer struct {
	writer  *bytes.Buffer
	indents []byte
}

func (r *astroRenderer) push() {
	r.indents = append(r.indents, ' ', ' ')
}

func (r *astroRenderer) pop() {
	r.indents = r.indents[:len(r.indents)-2]
}

// line writes s on a line of its own at the current indentation
func (r *astroRenderer) line(s string) {
	_, _ = r.writer.Write(r.indents)
	_, _ = r.writer.WriteString(s)
	_ = r.writer.WriteByte('\n')
}

func (r *astroRenderer) renderBlocks(blocks []ast.Block, tight bool) {
	for _, b := range blocks {
		switch n := b.(type) {
		case *ast.Frontmatter:
			// metadata only
		case *ast.Heading:
			r.line(fmt.Sprintf(`<h%d id="%s"><Heading client:visible id="%s" text="%s"/></h%d>`,
				n.Level, n.ID, n.ID, renderHeadingText(n.Content), n.Level))
		case *ast.Paragraph:
			if tight {
				r.line(renderInlines(n.Content))
			} else {
				r.line("<p>" + renderInlines(n.Content) + "</p>")
			}
		case *ast.List:
			r.renderList(n)
		case *ast.Table:
			r.renderTable(n)
		case *ast.CodeBlock:
			r.renderCodeBlock(n)
		case *ast.Comment:
			r.line(n.Raw)
		case *ast.HTMLBlock:
			if n.Raw != "" {
				r.line(n.Raw)
				continue
			}
			r.line(n.Open)
			r.renderBlocks(n.Children, false)
			r.line(n.Close)
		case *ast.ComponentBlock:
			r.renderComponent(n)
		}
	}
}

func (r *astroRenderer) renderList(n *ast.List) {
	opening, closing := "<ul>", "</ul>"
	if n.Ordered {
		opening, closing = "<ol>", "</ol>"
		if n.Start != 1 {
			opening = fmt.Sprintf(`<ol start="%d">`, n.Start)
		}
	}
	r.line(opening)
	r.push()
	for _, item := range n.Items {
		if len(item.Blocks) == 0 {
			r.line("<li></li>")
			continue
		}
		if p, ok := item.Blocks[0].(*ast.Paragraph); ok && n.Tight && len(item.Blocks) == 1 {
			r.line("<li>" + renderInlines(p.Content) + "</li>")
			continue
		}
		r.line("<li>")
		r.push()
		r.renderBlocks(item.Blocks, n.Tight)
		r.pop()
		r.line("</li>")
	}
	r.pop()
	r.line(closing)
}

var alignStyles = map[ast.Alignment]string{
	ast.AlignLeft:   ` style="text-align: left"`,
	ast.AlignCenter: ` style="text-align: center"`,
	ast.AlignRight:  ` style="text-align: right"`,
}

func (r *astroRenderer) renderTable(n *ast.Table) {
	r.line("<table>")
	r.push()
	for i, row := range n.Rows {
		switch i {
		case 0:
			r.line("<thead>")
		case 1:
			r.line("<tbody>")
		}
		r.push()
		r.line("<tr>")
		r.push()
		for k, cell := range row {
			var style string
			if k < len(n.Align) {
				style = alignStyles[n.Align[k]]
			}
			if i == 0 {
				r.line(fmt.Sprintf(`<th scope="col"%s>%s</th>`, style, renderInlines(cell)))
			} else {
				r.line(fmt.Sprintf(`<td%s>%s</td>`, style, renderInlines(cell)))
			}
		}
		r.pop()
		r.line("</tr>")
		r.pop()
		switch {
		case i == 0:
			r.line("</thead>")
		case i == len(n.Rows)-1:
			r.line("</tbody>")
		}
	}
	r.pop()
	r.line("</table>")
}

func (r *astroRenderer) renderCodeBlock(n *ast.CodeBlock) {
	r.line("<" + block.CodeBlockComponent)
	r.push()
	r.line("client:visible")
	if n.Language != "" {
		r.line(fmt.Sprintf(`language="%s"`, htmlEscaper.Replace(n.Language)))
	}
	if n.FirstLine > 0 {
		r.line(fmt.Sprintf("firstLine={%d}", n.FirstLine))
	}
	if n.Highlight != "" {
		r.line("highlightLines={`" + EscapeCode(n.Highlight) + "`}")
	}
	if n.Title != "" {
		r.line(fmt.Sprintf(`title="%s"`, htmlEscaper.Replace(n.Title)))
	}
	if n.Caption != "" {
		r.line(fmt.Sprintf(`caption="%s"`, htmlEscaper.Replace(n.Caption)))
	}
	if n.Collapse {
		r.line("collapse")
	}
	// the body must not be indented
	r.line("code={`" + EscapeCode(n.Body) + "`} />")
	r.pop()
}

func attributeList(attrs []ast.Attribute) []string {
	out := make([]string, len(attrs))
	for i, a := range attrs {
		out[i] = a.String()
	}
	return out
}

func openTag(name string, attrs []ast.Attribute, selfClosing bool) string {
	var b strings.Builder
	b.WriteString("<" + name)
	for _, a := range attributeList(attrs) {
		b.WriteString(" " + a)
	}
	if selfClosing {
		b.WriteString(" />")
	} else {
		b.WriteString(">")
	}
	return b.String()
}

func (r *astroRenderer) renderComponent(n *ast.ComponentBlock) {
	if n.Multiline && len(n.Attributes) > 0 {
		r.line("<" + n.Name)
		r.push()
		for _, a := range attributeList(n.Attributes) {
			r.line(a)
		}
		r.pop()
		if n.SelfClosing {
			r.line("/>")
		} else {
			r.line(">")
		}
	} else {
		r.line(openTag(n.Name, n.Attributes, n.SelfClosing))
	}
	if n.SelfClosing {
		return
	}
	r.renderBlocks(n.Children, false)
	r.line("</" + n.Name + ">")
}

func inlineCode(code string) string {
	return fmt.Sprintf("<%s code={`%s`} />", inline.InlineCodeComponent, EscapeCode(code))
}

// numberRangeEnd returns the code span closing a number range that starts at in[i]
func numberRangeEnd(in []ast.Inline, i int) (*ast.InlineCode, bool) {
	first, ok := in[i].(*ast.InlineCode)
	if !ok || !scanner.IsDigits(first.Code) || i+2 >= len(in) {
		return nil, false
	}
	sep, ok := in[i+1].(*ast.Text)
	if !ok || (sep.Value != "-" && sep.Value != "&ndash;") {
		return nil, false
	}
	last, ok := in[i+2].(*ast.InlineCode)
	if !ok || !scanner.IsDigits(last.Code) {
		return nil, false
	}
	return last, true
}

func renderInlines(in []ast.Inline) string {
	var b strings.Builder
	for i := 0; i < len(in); i++ {
		switch n := in[i].(type) {
		case *ast.Text:
			b.WriteString(escapeText(n.Value))
		case *ast.Bold:
			b.WriteString("<strong>" + renderInlines(n.Content) + "</strong>")
		case *ast.Emphasis:
			b.WriteString("<em>" + renderInlines(n.Content) + "</em>")
		case *ast.InlineCode:
			b.WriteString(inlineCode(n.Code))
			if last, ok := numberRangeEnd(in, i); ok {
				b.WriteString(numberRange + inlineCode(last.Code))
				i += 2
			}
		case *ast.Anchor:
			b.WriteString(renderAnchor(n))
		case *ast.InlineComponent:
			b.WriteString(openTag(n.Name, n.Attributes, true))
		case *ast.LineBreakHint:
			b.WriteString("&nbsp;")
		}
	}
	return b.String()
}

// anchorAttributes returns the attributes of the rendered anchor. External
// anchors open in a new tab and pass no referrer unless told otherwise.
func anchorAttributes(n *ast.Anchor) []ast.Attribute {
	var attrs []ast.Attribute
	if n.Markdown {
		attrs = append(attrs, ast.Attribute{Name: "href", Value: n.Href, Kind: ast.Quoted, Quote: '"'})
	}
	attrs = append(attrs, n.Attributes...)
	if !n.External {
		return attrs
	}
	if _, ok := ast.Lookup(attrs, "target"); !ok {
		attrs = append(attrs, ast.Attribute{Name: "target", Value: externalTarget, Kind: ast.Quoted, Quote: '"'})
	}
	if _, ok := ast.Lookup(attrs, "rel"); !ok {
		attrs = append(attrs, ast.Attribute{Name: "rel", Value: externalRel, Kind: ast.Quoted, Quote: '"'})
	}
	return attrs
}

func renderAnchor(n *ast.Anchor) string {
	content := renderInlines(n.Content)
	if n.External {
		content += "&nbsp;<" + inline.LinkIconComponent + " />"
	}
	return openTag("a", anchorAttributes(n), false) + content + "</a>"
}

// headingWriter renders heading content for the text attribute of the Heading component
type headingWriter struct {
	b strings.Builder
	// open is set when a quote at the current position opens a quotation
	open bool
}

func renderHeadingText(in []ast.Inline) string {
	w := &headingWriter{open: true}
	w.write(in)
	return w.b.String()
}

func (w *headingWriter) write(in []ast.Inline) {
	for _, node := range in {
		switch n := node.(type) {
		case *ast.Text:
			w.b.WriteString(headingText(n.Value, w.open))
			if n.Value != "" {
				last := n.Value[len(n.Value)-1]
				w.open = last == ' ' || last == '\t' || last == '('
			}
		case *ast.InlineCode:
			w.b.WriteString("<code>" + htmlEscaper.Replace(n.Code) + "</code>")
			w.open = false
		case *ast.Bold:
			w.b.WriteString("<strong>")
			w.write(n.Content)
			w.b.WriteString("</strong>")
		case *ast.Emphasis:
			w.b.WriteString("<em>")
			w.write(n.Content)
			w.b.WriteString("</em>")
		case *ast.Anchor:
			w.write(n.Content)
		case *ast.LineBreakHint:
			w.b.WriteString(lineBreakHint)
			w.open = true
		}
	}
}
