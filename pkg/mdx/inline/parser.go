// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package inline

import (
	"net/url"
	"strings"
	"sync"

	"github.com/gardener/astroforge/pkg/mdx/ast"
	"github.com/gardener/astroforge/pkg/mdx/scanner"
	"github.com/npillmayer/uax/grapheme"
)

// Components the renderer needs for inline nodes
const (
	InlineCodeComponent = "InlineCodeFragment"
	LinkIconComponent   = "LinkIcon"
)

// widowLength is the grapheme count from which a final heading word may stand alone
const widowLength = 5

// handler for each character that triggers a response when parsing inline data.
// It returns the node, the position after it, or scanner.NoMatch.
type handler func(r *run, src string, pos int) (ast.Inline, int, error)

var handlers [256]handler

func init() {
	handlers['\\'] = escape
	handlers['`'] = codeSpan
	handlers['<'] = leftAngle
	handlers['['] = link
	handlers['!'] = image
	handlers['*'] = emphasis
}

// Parser turns text spans into inline nodes. Components required by the
// produced nodes are recorded in the component set.
type Parser struct {
	siteHost   string
	components *ast.ComponentSet
}

// NewParser creates a Parser. Links to siteOrigin are not considered external.
func NewParser(siteOrigin string, components *ast.ComponentSet) *Parser {
	p := &Parser{components: components}
	if siteOrigin != "" {
		if u, err := url.Parse(siteOrigin); err == nil && u.Host != "" {
			p.siteHost = u.Host
		} else {
			p.siteHost = strings.TrimSuffix(siteOrigin, "/")
		}
	}
	if p.components == nil {
		p.components = ast.NewComponentSet()
	}
	return p
}

var externalScheme = scanner.Alt(scanner.LiteralFold("https://"), scanner.LiteralFold("http://"))

// IsExternal returns true if href points to another origin
func (p *Parser) IsExternal(href string) bool {
	if externalScheme(href, 0) == scanner.NoMatch {
		return false
	}
	if p.siteHost == "" {
		return true
	}
	u, err := url.Parse(href)
	if err != nil {
		return true
	}
	return !strings.EqualFold(u.Host, p.siteHost)
}

// Parse parses the text of a paragraph, table cell or list item
func (p *Parser) Parse(span Span) ([]ast.Inline, error) {
	r := &run{p: p, span: span}
	return r.parseRange(0, len(span.Text))
}

// ParseHeading parses heading text. Components are not recognized, and
// the space before a short final word is replaced by a LineBreakHint.
func (p *Parser) ParseHeading(span Span) ([]ast.Inline, error) {
	r := &run{p: p, span: span, heading: true}
	out, err := r.parseRange(0, len(span.Text))
	if err != nil {
		return nil, err
	}
	return avoidWidow(out), nil
}

type run struct {
	p       *Parser
	span    Span
	heading bool
}

func (r *run) parseRange(start, end int) ([]ast.Inline, error) {
	var (
		src  = r.span.Text[:end]
		out  []ast.Inline
		text strings.Builder
	)
	flush := func() {
		if text.Len() > 0 {
			out = append(out, &ast.Text{Value: text.String()})
			text.Reset()
		}
	}
	for pos := start; pos < end; {
		h := handlers[src[pos]]
		if h == nil {
			text.WriteByte(src[pos])
			pos++
			continue
		}
		node, next, err := h(r, src, pos)
		if err != nil {
			return nil, err
		}
		if next == scanner.NoMatch {
			// no action from the callback
			text.WriteByte(src[pos])
			pos++
			continue
		}
		if t, ok := node.(*ast.Text); ok {
			text.WriteString(t.Value)
		} else {
			flush()
			out = append(out, node)
		}
		pos = next
	}
	flush()
	return out, nil
}

func (r *run) fatal(pos int) error {
	return &ast.Diagnostic{
		Position: r.span.Locate(pos),
		Excerpt:  strings.TrimSpace(r.span.LineAt(pos)),
		Err:      ast.ErrAnchorMissingHref,
	}
}

func (r *run) anchor(href string, attrs []ast.Attribute, content []ast.Inline, markdown bool) *ast.Anchor {
	a := &ast.Anchor{
		Href:       href,
		Attributes: attrs,
		Content:    content,
		External:   r.p.IsExternal(href),
		Markdown:   markdown,
	}
	if a.External && !r.heading {
		r.p.components.Add(LinkIconComponent)
	}
	return a
}

func escape(_ *run, src string, pos int) (ast.Inline, int, error) {
	if pos+1 < len(src) && scanner.IsPunct(src[pos+1]) {
		return &ast.Text{Value: src[pos+1 : pos+2]}, pos + 2, nil
	}
	return nil, scanner.NoMatch, nil
}

func codeSpan(r *run, src string, pos int) (ast.Inline, int, error) {
	n := scanner.SkipChar(src, pos, '`') - pos
	fence := src[pos : pos+n]
	for i := pos + n; ; {
		k := strings.Index(src[i:], fence)
		if k < 0 {
			// unterminated, the whole backtick run is literal
			return &ast.Text{Value: fence}, pos + n, nil
		}
		k += i
		end := scanner.SkipChar(src, k, '`')
		if end-k != n {
			i = end
			continue
		}
		code := strings.ReplaceAll(src[pos+n:k], "\n", " ")
		if len(code) > 2 && code[0] == ' ' && code[len(code)-1] == ' ' && strings.Trim(code, " ") != "" {
			code = code[1 : len(code)-1]
		}
		if !r.heading {
			r.p.components.Add(InlineCodeComponent)
		}
		return &ast.InlineCode{Code: code}, end, nil
	}
}

// SkipCodeSpan returns the position after the code span starting at src[i].
// An unterminated backtick run is skipped on its own.
func SkipCodeSpan(src string, i int) int {
	n := scanner.SkipChar(src, i, '`') - i
	fence := src[i : i+n]
	for j := i + n; ; {
		k := strings.Index(src[j:], fence)
		if k < 0 {
			return i + n
		}
		k += j
		end := scanner.SkipChar(src, k, '`')
		if end-k == n {
			return end
		}
		j = end
	}
}

var (
	autolink    = scanner.Seq(scanner.Literal("<"), externalScheme, scanner.Many1(scanner.NoneOf(" \t\n<>")), scanner.Literal(">"))
	anchorStart = scanner.Seq(scanner.LiteralFold("<a"), scanner.OneOf(" \t\n>"))
)

func leftAngle(r *run, src string, pos int) (ast.Inline, int, error) {
	if end := autolink(src, pos); end != scanner.NoMatch {
		href := src[pos+1 : end-1]
		return r.anchor(href, nil, []ast.Inline{&ast.Text{Value: href}}, true), end, nil
	}
	if anchorStart(src, pos) != scanner.NoMatch {
		return r.htmlAnchor(src, pos)
	}
	if !r.heading && pos+1 < len(src) && scanner.IsUpper(src[pos+1]) {
		tag, end := ScanTag(src, pos)
		if end == scanner.NoMatch || !tag.SelfClosing {
			return nil, scanner.NoMatch, nil
		}
		r.p.components.Add(tag.Name)
		return &ast.InlineComponent{Name: tag.Name, Attributes: tag.Attributes}, end, nil
	}
	return nil, scanner.NoMatch, nil
}

func (r *run) htmlAnchor(src string, pos int) (ast.Inline, int, error) {
	tag, end := ScanTag(src, pos)
	if end == scanner.NoMatch || tag.SelfClosing {
		return nil, scanner.NoMatch, nil
	}
	closing := indexFold(src, end, "</a>")
	if closing < 0 {
		return nil, scanner.NoMatch, nil
	}
	href, ok := ast.Lookup(tag.Attributes, "href")
	if !ok || strings.TrimSpace(href.Value) == "" {
		return nil, scanner.NoMatch, r.fatal(pos)
	}
	content, err := r.parseRange(end, closing)
	if err != nil {
		return nil, scanner.NoMatch, err
	}
	return r.anchor(href.Value, tag.Attributes, content, false), closing + len("</a>"), nil
}

func indexFold(src string, from int, lit string) int {
	m := scanner.LiteralFold(lit)
	for i := from; i+len(lit) <= len(src); i++ {
		if m(src, i) != scanner.NoMatch {
			return i
		}
	}
	return -1
}

func link(r *run, src string, pos int) (ast.Inline, int, error) {
	textEnd := closeBracket(src, pos)
	if textEnd < 0 || textEnd+1 >= len(src) || src[textEnd+1] != '(' {
		return nil, scanner.NoMatch, nil
	}
	destEnd := closeParen(src, textEnd+1)
	if destEnd < 0 {
		return nil, scanner.NoMatch, nil
	}
	href, title := splitDestination(strings.TrimSpace(src[textEnd+2 : destEnd]))
	if href == "" {
		return nil, scanner.NoMatch, r.fatal(pos)
	}
	content, err := r.parseRange(pos+1, textEnd)
	if err != nil {
		return nil, scanner.NoMatch, err
	}
	var attrs []ast.Attribute
	if title != "" {
		attrs = append(attrs, ast.Attribute{Name: "title", Value: quoteEscaper.Replace(title), Kind: ast.Quoted, Quote: '"'})
	}
	return r.anchor(quoteEscaper.Replace(href), attrs, content, true), destEnd + 1, nil
}

// image keeps Markdown images literal, images are written as components
func image(_ *run, src string, pos int) (ast.Inline, int, error) {
	if pos+1 >= len(src) || src[pos+1] != '[' {
		return nil, scanner.NoMatch, nil
	}
	textEnd := closeBracket(src, pos+1)
	if textEnd < 0 || textEnd+1 >= len(src) || src[textEnd+1] != '(' {
		return nil, scanner.NoMatch, nil
	}
	destEnd := closeParen(src, textEnd+1)
	if destEnd < 0 {
		return nil, scanner.NoMatch, nil
	}
	return &ast.Text{Value: src[pos : destEnd+1]}, destEnd + 1, nil
}

// closeBracket returns the index of the ']' matching the '[' at pos
func closeBracket(src string, pos int) int {
	depth := 0
	for i := pos; i < len(src); {
		switch src[i] {
		case '\\':
			i += 2
			continue
		case '`':
			i = SkipCodeSpan(src, i)
			continue
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
		i++
	}
	return -1
}

// closeParen returns the index of the ')' matching the '(' at pos
func closeParen(src string, pos int) int {
	depth := 0
	for i := pos; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '\n':
			if depth > 0 && i+1 < len(src) && src[i+1] == '\n' {
				return -1
			}
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// quoteEscaper keeps unescaped destinations and titles inside double quoted attributes
var quoteEscaper = strings.NewReplacer(`"`, "&quot;")

func splitDestination(dest string) (string, string) {
	var href, rest string
	if strings.HasPrefix(dest, "<") {
		end := scanner.SkipUntilChar(dest, 0, '>')
		if end == len(dest) {
			return "", ""
		}
		href, rest = dest[1:end], dest[end+1:]
	} else {
		i := strings.IndexAny(dest, " \t\n")
		if i < 0 {
			return dest, ""
		}
		href, rest = dest[:i], dest[i:]
	}
	rest = strings.TrimSpace(rest)
	if len(rest) >= 2 {
		switch o, c := rest[0], rest[len(rest)-1]; {
		case o == '"' && c == '"', o == '\'' && c == '\'', o == '(' && c == ')':
			rest = rest[1 : len(rest)-1]
		}
	}
	return scanner.Unescape(href), scanner.Unescape(rest)
}

func emphasis(r *run, src string, pos int) (ast.Inline, int, error) {
	strong := strings.HasPrefix(src[pos:], "**")
	if strong {
		if node, end, err := r.delimited(src, pos, "**"); err != nil || end != scanner.NoMatch {
			return node, end, err
		}
	}
	if node, end, err := r.delimited(src, pos, "*"); err != nil || end != scanner.NoMatch {
		return node, end, err
	}
	if strong {
		// unmatched markers stay literal
		return &ast.Text{Value: "**"}, pos + 2, nil
	}
	return nil, scanner.NoMatch, nil
}

func (r *run) delimited(src string, pos int, marker string) (ast.Inline, int, error) {
	open := pos + len(marker)
	if open >= len(src) || scanner.IsSpace(src[open]) {
		return nil, scanner.NoMatch, nil
	}
	if marker == "*" && src[open] == '*' {
		return nil, scanner.NoMatch, nil
	}
	k := findCloser(src, open, marker)
	if k < 0 {
		return nil, scanner.NoMatch, nil
	}
	content, err := r.parseRange(open, k)
	if err != nil {
		return nil, scanner.NoMatch, err
	}
	if marker == "**" {
		return &ast.Bold{Content: content}, k + len(marker), nil
	}
	return &ast.Emphasis{Content: content}, k + len(marker), nil
}

// findCloser returns the index of the closing marker. Code spans are skipped,
// a strong span nested in an emphasis is skipped as a whole.
func findCloser(src string, from int, marker string) int {
	for i := from; i < len(src); {
		switch {
		case src[i] == '\\':
			i += 2
			continue
		case src[i] == '`':
			i = SkipCodeSpan(src, i)
			continue
		case strings.HasPrefix(src[i:], marker):
			if marker == "*" && strings.HasPrefix(src[i:], "**") {
				if k := findCloser(src, i+2, "**"); k >= 0 {
					i = k + 2
				} else {
					i += 2
				}
				continue
			}
			if marker == "**" && i+2 < len(src) && src[i+2] == '*' {
				// closing run of ***, the strong marker is the last two
				i++
			}
			if i > from && !scanner.IsSpace(src[i-1]) {
				return i
			}
			i += len(marker)
			continue
		}
		i++
	}
	return -1
}

var graphemeSetup sync.Once

func graphemeLen(s string) int {
	graphemeSetup.Do(grapheme.SetupGraphemeClasses)
	return grapheme.StringFromString(s).Len()
}

func avoidWidow(out []ast.Inline) []ast.Inline {
	if len(out) == 0 {
		return out
	}
	t, ok := out[len(out)-1].(*ast.Text)
	if !ok {
		return out
	}
	idx := strings.LastIndexByte(t.Value, ' ')
	if idx < 0 {
		return out
	}
	before, last := t.Value[:idx], t.Value[idx+1:]
	if last == "" || graphemeLen(last) >= widowLength {
		return out
	}
	if len(out) == 1 && strings.TrimSpace(before) == "" {
		return out
	}
	head := out[:len(out)-1]
	if before != "" {
		head = append(head, &ast.Text{Value: before})
	}
	return append(head, &ast.LineBreakHint{}, &ast.Text{Value: last})
}
