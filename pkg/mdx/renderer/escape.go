// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package renderer

import (
	"fmt"
	"strings"
)

// unicodeEscape returns the JavaScript escape sequence of c
func unicodeEscape(c byte) string {
	return fmt.Sprintf("\\u%04X", c)
}

// codeEscapes are applied in order to code placed in a template literal
var codeEscapes [][2]string

// lineBreakHint is the escaped no-break space of heading text
var lineBreakHint = "\\u" + "00a0"

func init() {
	codeEscapes = [][2]string{{"\\", "\\\\"}}
	for _, c := range []byte{'<', '>', '`', '{', '}'} {
		codeEscapes = append(codeEscapes, [2]string{string(c), unicodeEscape(c)})
	}
	codeEscapes = append(codeEscapes,
		[2]string{"import.", "import.."},
		[2]string{"process.env", "process..env"},
	)
}

// EscapeCode makes code inert inside a template literal of an Astro expression
func EscapeCode(code string) string {
	for _, e := range codeEscapes {
		code = strings.ReplaceAll(code, e[0], e[1])
	}
	return code
}

var textEscaper = strings.NewReplacer("{", "&#123;", "}", "&#125;")

// escapeText keeps braces in text from opening expressions
func escapeText(s string) string {
	return textEscaper.Replace(s)
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// headingText formats text for the text attribute of a heading. Hyphens do not
// break and straight quotes become typographic quotes. preceded tells whether
// the text follows a space or starts the heading.
func headingText(s string, preceded bool) string {
	var b strings.Builder
	open := preceded
	for _, c := range s {
		switch c {
		case '-':
			b.WriteString("&#x2011;")
		case '\'':
			if open {
				b.WriteRune('‘')
			} else {
				b.WriteRune('’')
			}
		case '"':
			if open {
				b.WriteRune('“')
			} else {
				b.WriteRune('”')
			}
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '{':
			b.WriteString("&#123;")
		case '}':
			b.WriteString("&#125;")
		default:
			b.WriteRune(c)
		}
		open = c == ' ' || c == '\t' || c == '('
	}
	return b.String()
}
