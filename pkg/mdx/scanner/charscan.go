// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package scanner

import "strings"

// SkipCharN skips up to max occurrences of c starting at i
func SkipCharN(src string, i int, c byte, max int) int {
	n := len(src)
	for i < n && max > 0 && src[i] == c {
		i++
		max--
	}
	return i
}

// SkipChar skips all consecutive occurrences of c starting at i
func SkipChar(src string, i int, c byte) int {
	n := len(src)
	for i < n && src[i] == c {
		i++
	}
	return i
}

// SkipSpace skips white-space characters, new lines included
func SkipSpace(src string, i int) int {
	n := len(src)
	for i < n && IsSpace(src[i]) {
		i++
	}
	return i
}

// SkipBlank skips spaces and tabs but stops at line ends
func SkipBlank(src string, i int) int {
	n := len(src)
	for i < n && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	return i
}

// SkipUntilChar returns the index of the first c at or after i, len(src) when there is none
func SkipUntilChar(src string, i int, c byte) int {
	n := len(src)
	for i < n && src[i] != c {
		i++
	}
	return i
}

// Indent returns the width of the leading white space of line. A tab counts as four columns.
func Indent(line string) int {
	w := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			w++
		case '\t':
			w += 4
		default:
			return w
		}
	}
	return w
}

// IsBlankLine returns true if line holds white space only
func IsBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}

// IsSpace returns true if c is a white-space character
func IsSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// IsLetter returns true if c is ascii letter
func IsLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// IsUpper returns true if c is an upper case ascii letter
func IsUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

// IsDigit returns true if c is an ascii digit
func IsDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// IsAlnum returns true if c is a digit or letter
func IsAlnum(c byte) bool {
	return IsDigit(c) || IsLetter(c)
}

// IsPunct returns true if c is ascii punctuation that may be escaped with a backslash
func IsPunct(c byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0
}

// IsDigits returns true if s is a non-empty run of ascii digits
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !IsDigit(s[i]) {
			return false
		}
	}
	return true
}

// Unescape drops the backslash of every backslash escape in src
func Unescape(src string) string {
	if strings.IndexByte(src, '\\') < 0 {
		return src
	}
	var b strings.Builder
	i := 0
	for i < len(src) {
		org := i
		for i < len(src) && src[i] != '\\' {
			i++
		}
		if i > org {
			b.WriteString(src[org:i])
		}
		if i+1 >= len(src) {
			if i < len(src) {
				b.WriteByte('\\')
			}
			break
		}
		b.WriteByte(src[i+1])
		i += 2
	}
	return b.String()
}
