// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package inline

import (
	"strings"

	"github.com/gardener/astroforge/pkg/mdx/ast"
	"github.com/gardener/astroforge/pkg/mdx/scanner"
)

// Tag is a scanned opening tag
type Tag struct {
	Name        string
	Attributes  []ast.Attribute
	SelfClosing bool
	// Multiline is set when the tag spans more than one line
	Multiline bool
}

var tagName = scanner.Seq(scanner.Class(scanner.IsLetter), scanner.Many(scanner.Class(func(c byte) bool {
	return scanner.IsAlnum(c) || c == '.' || c == '_' || c == '-'
})))

// ScanTag scans the opening tag at src[pos]. Attribute values may span lines.
// It returns the position right after the closing '>' or scanner.NoMatch
// when the tag is not terminated.
func ScanTag(src string, pos int) (Tag, int) {
	var tag Tag
	if pos >= len(src) || src[pos] != '<' {
		return tag, scanner.NoMatch
	}
	name, i, ok := scanner.Match(tagName, src, pos+1)
	if !ok {
		return tag, scanner.NoMatch
	}
	tag.Name = name
	for {
		j := scanner.SkipSpace(src, i)
		if j >= len(src) {
			return tag, scanner.NoMatch
		}
		separated := j > i
		i = j
		switch {
		case strings.HasPrefix(src[i:], "/>"):
			tag.SelfClosing = true
			tag.Multiline = strings.Contains(src[pos:i], "\n")
			return tag, i + 2
		case src[i] == '>':
			tag.Multiline = strings.Contains(src[pos:i], "\n")
			return tag, i + 1
		case !separated:
			// attributes must be separated by white space
			return tag, scanner.NoMatch
		case src[i] == '{':
			end := ScanBraces(src, i)
			if end == scanner.NoMatch {
				return tag, scanner.NoMatch
			}
			tag.Attributes = append(tag.Attributes, ast.Attribute{Value: src[i+1 : end-1], Kind: ast.Spread})
			i = end
		default:
			attr, end := scanAttribute(src, i)
			if end == scanner.NoMatch {
				return tag, scanner.NoMatch
			}
			tag.Attributes = append(tag.Attributes, attr)
			i = end
		}
	}
}

func isAttrNameChar(c byte) bool {
	return !scanner.IsSpace(c) && strings.IndexByte("=/>{}\"'", c) < 0
}

func scanAttribute(src string, i int) (ast.Attribute, int) {
	start := i
	for i < len(src) && isAttrNameChar(src[i]) {
		i++
	}
	if i == start {
		return ast.Attribute{}, scanner.NoMatch
	}
	name := src[start:i]
	if i >= len(src) || src[i] != '=' {
		if strings.Contains(name, ":") {
			return ast.Attribute{Name: name, Kind: ast.Directive}, i
		}
		return ast.Attribute{Name: name, Kind: ast.Bare}, i
	}
	i++
	if i >= len(src) {
		return ast.Attribute{}, scanner.NoMatch
	}
	switch q := src[i]; q {
	case '"', '\'':
		end := strings.IndexByte(src[i+1:], q)
		if end < 0 {
			return ast.Attribute{}, scanner.NoMatch
		}
		return ast.Attribute{Name: name, Value: src[i+1 : i+1+end], Kind: ast.Quoted, Quote: q}, i + end + 2
	case '{':
		end := ScanBraces(src, i)
		if end == scanner.NoMatch {
			return ast.Attribute{}, scanner.NoMatch
		}
		return ast.Attribute{Name: name, Value: src[i+1 : end-1], Kind: ast.Expression}, end
	}
	vstart := i
	for i < len(src) && !scanner.IsSpace(src[i]) && src[i] != '>' && !strings.HasPrefix(src[i:], "/>") {
		i++
	}
	if i == vstart {
		return ast.Attribute{}, scanner.NoMatch
	}
	return ast.Attribute{Name: name, Value: src[vstart:i], Kind: ast.Quoted, Quote: '"'}, i
}

// ScanBraces matches a balanced {...} expression starting at src[pos]. Braces
// inside string and template literals do not count.
func ScanBraces(src string, pos int) int {
	if pos >= len(src) || src[pos] != '{' {
		return scanner.NoMatch
	}
	depth := 0
	var quote byte
	for i := pos; i < len(src); i++ {
		c := src[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return scanner.NoMatch
}
