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

const noMatch = scanner.NoMatch

// recognizer matches one kind of block. start is a cheap test without side effects,
// also used to find where a paragraph ends. parse may still return noMatch.
type recognizer struct {
	name  string
	start func(lines []line, i int) bool
	parse func(b *Builder, lines []line, i int) ([]ast.Block, int, error)
}

// recognizers in priority order. Frontmatter is handled before them, paragraphs after.
var recognizers []recognizer

func init() {
	recognizers = []recognizer{
		{"fenced code", isFence, fencedCode},
		{"comment", isComment, comment},
		{"component", isComponent, componentBlock},
		{"html", isHTMLBlock, htmlBlock},
		{"table", isTable, table},
		{"heading", isHeading, heading},
		{"list", isListItem, list},
	}
}

// fence returns the indentation and the length of the backtick run opening text
func fence(text string) (int, int) {
	t := strings.TrimLeft(text, " \t")
	indent := len(text) - len(t)
	return indent, scanner.SkipChar(t, 0, '`')
}

func isFence(lines []line, i int) bool {
	indent, n := fence(lines[i].text)
	return indent <= 3 && n >= 3 && strings.IndexByte(lines[i].text[indent+n:], '`') < 0
}

func fencedCode(b *Builder, lines []line, i int) ([]ast.Block, int, error) {
	indent, n := fence(lines[i].text)
	code := parseInfo(strings.TrimSpace(lines[i].text[indent+n:]))
	var body []string
	j := i + 1
	for ; j < len(lines); j++ {
		ind, m := fence(lines[j].text)
		if ind <= 3 && m >= n && strings.TrimSpace(lines[j].text[ind+m:]) == "" {
			break
		}
		body = append(body, lines[j].dedent(indent).text)
	}
	code.Body = strings.Join(body, "\n")
	b.components.Add(CodeBlockComponent)
	if j < len(lines) {
		j++
	}
	return []ast.Block{code}, j, nil
}

// parseInfo reads the fence meta: language, first line number, {highlight},
// "title", [caption] and <> for collapsible blocks
func parseInfo(info string) *ast.CodeBlock {
	c := &ast.CodeBlock{}
	for i := scanner.SkipBlank(info, 0); i < len(info); i = scanner.SkipBlank(info, i) {
		switch info[i] {
		case '{':
			c.Highlight, i = enclosed(info, i, '}')
		case '"':
			c.Title, i = enclosed(info, i, '"')
		case '[':
			c.Caption, i = enclosed(info, i, ']')
		default:
			if strings.HasPrefix(info[i:], "<>") {
				c.Collapse = true
				i += 2
				continue
			}
			end := i
			for end < len(info) && !scanner.IsSpace(info[end]) {
				end++
			}
			token := info[i:end]
			switch {
			case scanner.IsDigits(token) && c.FirstLine == 0:
				c.FirstLine = atoi(token)
			case c.Language == "":
				c.Language = token
			}
			i = end
		}
	}
	return c
}

func enclosed(s string, i int, closing byte) (string, int) {
	end := strings.IndexByte(s[i+1:], closing)
	if end < 0 {
		return s[i+1:], len(s)
	}
	return s[i+1 : i+1+end], i + end + 2
}

func atoi(digits string) int {
	n := 0
	for i := 0; i < len(digits); i++ {
		n = n*10 + int(digits[i]-'0')
	}
	return n
}

func isComment(lines []line, i int) bool {
	return strings.HasPrefix(lines[i].trimmed(), "<!--")
}

// comment runs to the line holding -->, or to the end of the document
func comment(b *Builder, lines []line, i int) ([]ast.Block, int, error) {
	span := join(lines[i:])
	src := span.Text
	start := strings.Index(src, "<!--")
	end := len(src)
	if k := strings.Index(src[start+4:], "-->"); k >= 0 {
		end = start + 4 + k + 3
	}
	out := []ast.Block{&ast.Comment{Raw: src[start:end]}}
	trail, err := b.trailing(span, end)
	if err != nil {
		return nil, noMatch, err
	}
	return append(out, trail...), i + strings.Count(src[:end], "\n") + 1, nil
}

func isComponent(lines []line, i int) bool {
	t := lines[i].trimmed()
	if len(t) < 2 || t[0] != '<' || !scanner.IsUpper(t[1]) {
		return false
	}
	tag, end := inline.ScanTag(t, 0)
	if end == noMatch {
		// the tag may continue on the following lines
		return true
	}
	return !tag.SelfClosing || strings.TrimSpace(t[end:]) == ""
}

func componentBlock(b *Builder, lines []line, i int) ([]ast.Block, int, error) {
	span := join(lines[i:])
	src := span.Text
	start := scanner.SkipBlank(src, 0)
	tag, end := inline.ScanTag(src, start)
	if end == noMatch || !scanner.IsUpper(tag.Name[0]) {
		return nil, noMatch, nil
	}
	c := &ast.ComponentBlock{
		Name:        tag.Name,
		Attributes:  tag.Attributes,
		SelfClosing: tag.SelfClosing,
		Multiline:   tag.Multiline,
	}
	after := end
	if tag.SelfClosing {
		if strings.TrimSpace(src[end:lineEnd(src, end)]) != "" {
			// used inline, the paragraph will pick it up
			return nil, noMatch, nil
		}
		b.components.Add(tag.Name)
	} else {
		b.components.Add(tag.Name)
		closeStart, closeEnd := findClose(src, end, tag.Name)
		if closeStart < 0 {
			closeStart, closeEnd = len(src), len(src)
		}
		children, err := b.parseBlocks(split(span, end, closeStart))
		if err != nil {
			return nil, noMatch, err
		}
		c.Children = children
		after = closeEnd
	}
	trail, err := b.trailing(span, after)
	if err != nil {
		return nil, noMatch, err
	}
	return append([]ast.Block{c}, trail...), i + strings.Count(src[:after], "\n") + 1, nil
}

// findClose finds the closing tag matching an element opened before from.
// Nested elements of the same name and fenced code are skipped.
func findClose(src string, from int, name string) (int, int) {
	depth := 1
	for i := from; i < len(src); i++ {
		if i > from && src[i-1] == '\n' {
			i = skipFencedCode(src, i)
			if i >= len(src) {
				break
			}
		}
		if src[i] != '<' {
			continue
		}
		if strings.HasPrefix(src[i+1:], "/"+name) {
			k := scanner.SkipSpace(src, i+2+len(name))
			if k < len(src) && src[k] == '>' {
				if depth--; depth == 0 {
					return i, k + 1
				}
			}
			continue
		}
		if strings.HasPrefix(src[i+1:], name) {
			if tag, end := inline.ScanTag(src, i); end != noMatch && tag.Name == name && !tag.SelfClosing {
				depth++
			}
		}
	}
	return -1, -1
}

// skipFencedCode returns the index after the fenced code starting on the line
// at i, i when no fence starts there. An unclosed fence runs to the end of src.
func skipFencedCode(src string, i int) int {
	text := src[i:scanner.SkipUntilChar(src, i, '\n')]
	indent, n := fence(text)
	if indent > 3 || n < 3 || strings.IndexByte(text[indent+n:], '`') >= 0 {
		return i
	}
	for j := i + len(text); j < len(src); {
		j++
		text = src[j:scanner.SkipUntilChar(src, j, '\n')]
		if ind, m := fence(text); ind <= 3 && m >= n && strings.TrimSpace(text[ind+m:]) == "" {
			return j + len(text)
		}
		j += len(text)
	}
	return len(src)
}

// htmlBlockTags lists the block level elements. The value tells whether
// their content is Markdown.
var htmlBlockTags = map[string]bool{
	"div":     true,
	"dl":      false,
	"figure":  false,
	"details": false,
	"aside":   false,
	"section": false,
	"table":   false,
}

var htmlTagName = scanner.Seq(scanner.Literal("<"), scanner.Class(scanner.IsLetter), scanner.Many(scanner.Class(scanner.IsAlnum)))

func isHTMLBlock(lines []line, i int) bool {
	t := lines[i].trimmed()
	end := htmlTagName(t, 0)
	if end == noMatch || (end < len(t) && !scanner.IsSpace(t[end]) && t[end] != '>' && t[end] != '/') {
		return false
	}
	_, ok := htmlBlockTags[strings.ToLower(t[1:end])]
	return ok
}

func htmlBlock(b *Builder, lines []line, i int) ([]ast.Block, int, error) {
	span := join(lines[i:])
	src := span.Text
	start := scanner.SkipBlank(src, 0)
	tag, end := inline.ScanTag(src, start)
	if end == noMatch {
		return nil, noMatch, nil
	}
	name := strings.ToLower(tag.Name)
	markdown, ok := htmlBlockTags[name]
	if !ok {
		return nil, noMatch, nil
	}
	h := &ast.HTMLBlock{Tag: name}
	after := end
	if tag.SelfClosing {
		h.Raw = src[start:end]
	} else {
		closeStart, closeEnd := findClose(src, end, tag.Name)
		if closeStart < 0 {
			closeStart, closeEnd = len(src), len(src)
		}
		after = closeEnd
		if markdown {
			children, err := b.parseBlocks(split(span, end, closeStart))
			if err != nil {
				return nil, noMatch, err
			}
			h.Open, h.Close, h.Children = src[start:end], src[closeStart:closeEnd], children
		} else {
			h.Raw = src[start:closeEnd]
		}
	}
	trail, err := b.trailing(span, after)
	if err != nil {
		return nil, noMatch, err
	}
	return append([]ast.Block{h}, trail...), i + strings.Count(src[:after], "\n") + 1, nil
}

func headingParts(l line) (int, line, bool) {
	t := l.trimmed()
	indent := len(l.text) - len(t)
	n := scanner.SkipCharN(t, 0, '#', 7)
	if indent > 3 || n < 1 || n > 6 || (n < len(t) && t[n] != ' ' && t[n] != '\t') {
		return 0, line{}, false
	}
	c := l.cut(indent + n)
	c = c.cut(len(c.text) - len(c.trimmed()))
	text := strings.TrimRight(c.text, " \t")
	// optional closing sequence
	if k := strings.TrimRight(text, "#"); k != text && (k == "" || strings.HasSuffix(k, " ") || strings.HasSuffix(k, "\t")) {
		text = strings.TrimRight(k, " \t")
	}
	c.text = text
	return n, c, true
}

func isHeading(lines []line, i int) bool {
	_, _, ok := headingParts(lines[i])
	return ok
}

func heading(b *Builder, lines []line, i int) ([]ast.Block, int, error) {
	level, c, _ := headingParts(lines[i])
	content, err := b.inline.ParseHeading(inline.Span{Text: c.text, Lines: []ast.Position{c.pos}})
	if err != nil {
		return nil, noMatch, err
	}
	text := ast.PlainText(content)
	h := &ast.Heading{Level: level, Content: content, ID: b.slugs.Assign(text)}
	b.components.Add(HeadingComponent)
	if level == 1 && b.firstH1 == "" {
		b.firstH1 = text
	}
	return []ast.Block{h}, i + 1, nil
}
