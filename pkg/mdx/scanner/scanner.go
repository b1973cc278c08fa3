// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package scanner

import "strings"

// NoMatch is the position returned by a Matcher that does not match
const NoMatch = -1

// Matcher tries to match src at pos. On success it returns the position right after the match,
// otherwise NoMatch. A Matcher never mutates state, so callers are free to backtrack
// and try an alternative from the same position.
type Matcher func(src string, pos int) int

// Match runs m at pos and returns the matched text together with the advanced position
func Match(m Matcher, src string, pos int) (string, int, bool) {
	end := m(src, pos)
	if end == NoMatch {
		return "", pos, false
	}
	return src[pos:end], end, true
}

func inRange(src string, pos int) bool {
	return pos >= 0 && pos <= len(src)
}

// Literal matches lit exactly
func Literal(lit string) Matcher {
	return func(src string, pos int) int {
		if inRange(src, pos) && strings.HasPrefix(src[pos:], lit) {
			return pos + len(lit)
		}
		return NoMatch
	}
}

// LiteralFold matches lit ignoring ASCII case
func LiteralFold(lit string) Matcher {
	return func(src string, pos int) int {
		if inRange(src, pos) && len(src)-pos >= len(lit) && strings.EqualFold(src[pos:pos+len(lit)], lit) {
			return pos + len(lit)
		}
		return NoMatch
	}
}

// Class matches a single byte accepted by pred
func Class(pred func(c byte) bool) Matcher {
	return func(src string, pos int) int {
		if pos >= 0 && pos < len(src) && pred(src[pos]) {
			return pos + 1
		}
		return NoMatch
	}
}

// OneOf matches a single byte contained in set
func OneOf(set string) Matcher {
	return Class(func(c byte) bool { return strings.IndexByte(set, c) >= 0 })
}

// NoneOf matches a single byte not contained in set
func NoneOf(set string) Matcher {
	return Class(func(c byte) bool { return strings.IndexByte(set, c) < 0 })
}

// Many matches m zero or more times. It stops as soon as m fails or stops advancing.
func Many(m Matcher) Matcher {
	return func(src string, pos int) int {
		if !inRange(src, pos) {
			return NoMatch
		}
		for {
			next := m(src, pos)
			if next == NoMatch || next == pos {
				return pos
			}
			pos = next
		}
	}
}

// Many1 matches m one or more times
func Many1(m Matcher) Matcher {
	return Seq(m, Many(m))
}

// Seq matches all matchers one after the other
func Seq(ms ...Matcher) Matcher {
	return func(src string, pos int) int {
		for _, m := range ms {
			if pos = m(src, pos); pos == NoMatch {
				return NoMatch
			}
		}
		return pos
	}
}

// Alt returns the result of the first matcher that matches
func Alt(ms ...Matcher) Matcher {
	return func(src string, pos int) int {
		for _, m := range ms {
			if next := m(src, pos); next != NoMatch {
				return next
			}
		}
		return NoMatch
	}
}

// Opt matches m or nothing
func Opt(m Matcher) Matcher {
	return func(src string, pos int) int {
		if next := m(src, pos); next != NoMatch {
			return next
		}
		if !inRange(src, pos) {
			return NoMatch
		}
		return pos
	}
}

// Capture matches m and stores the matched text in dst. dst is left untouched when m fails,
// so a Capture inside a failing Alt branch leaves no trace.
func Capture(m Matcher, dst *string) Matcher {
	return func(src string, pos int) int {
		next := m(src, pos)
		if next != NoMatch {
			*dst = src[pos:next]
		}
		return next
	}
}

// Until consumes everything up to, but not including, the first occurrence of delim.
// A delimiter preceded by a backslash does not terminate the span. Until fails when
// delim does not occur.
func Until(delim string) Matcher {
	return func(src string, pos int) int {
		if !inRange(src, pos) || delim == "" {
			return NoMatch
		}
		for i := pos; i < len(src); i++ {
			if src[i] == '\\' && i+1 < len(src) {
				i++
				continue
			}
			if strings.HasPrefix(src[i:], delim) {
				return i
			}
		}
		return NoMatch
	}
}

// UntilAny consumes everything up to the first unescaped byte contained in set, or up to
// the end of src. It never fails on a valid position.
func UntilAny(set string) Matcher {
	return func(src string, pos int) int {
		if !inRange(src, pos) {
			return NoMatch
		}
		for i := pos; i < len(src); i++ {
			if src[i] == '\\' && i+1 < len(src) {
				i++
				continue
			}
			if strings.IndexByte(set, src[i]) >= 0 {
				return i
			}
		}
		return len(src)
	}
}

// Common matchers shared by the grammars
var (
	Blank   = Many(OneOf(" \t"))
	Blank1  = Many1(OneOf(" \t"))
	Digits  = Many1(Class(IsDigit))
	Newline = Alt(Literal("\r\n"), Literal("\n"))
	// Name matches a tag or attribute name
	Name = Seq(Class(IsLetter), Many(Class(func(c byte) bool { return IsAlnum(c) || c == '-' || c == '_' || c == '.' || c == ':' })))
	// ComponentName matches a capitalized component tag name
	ComponentName = Seq(Class(IsUpper), Many(Class(func(c byte) bool { return IsAlnum(c) || c == '.' || c == '_' })))
)
