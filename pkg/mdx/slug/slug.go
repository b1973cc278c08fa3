// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package slug

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gardener/astroforge/pkg/mdx/scanner"
	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Fallback is used for text without a single letter or digit
const Fallback = "section"

// dropped characters vanish without leaving a separator behind
const dropped = "'\"`?!:[]()*_~"

var selfClosingTag = regexp.MustCompile(`<[^<>]*/>`)

// Make converts text into a lowercase, hyphen-joined, URL-safe token
func Make(text string) string {
	text = selfClosingTag.ReplaceAllString(text, "")
	text = norm.NFKC.String(text)
	text = unidecode.Unidecode(text)
	// a Caser keeps state and must not be shared between goroutines
	text = cases.Lower(language.Und).String(text)

	var b strings.Builder
	separate := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case strings.IndexByte(dropped, c) >= 0:
		case scanner.IsAlnum(c):
			if separate && b.Len() > 0 {
				b.WriteByte('-')
			}
			separate = false
			b.WriteByte(c)
		default:
			separate = true
		}
	}
	if b.Len() == 0 {
		return Fallback
	}
	return b.String()
}

// Registry issues slugs that are unique within one document
type Registry struct {
	issued map[string]int
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{issued: map[string]int{}}
}

// Assign slugifies text and reserves the result
func (r *Registry) Assign(text string) string {
	return r.Reserve(Make(text))
}

// Reserve registers id. When id was already issued, the first free
// numeric suffix (-1, -2, ...) is appended instead.
func (r *Registry) Reserve(id string) string {
	count, taken := r.issued[id]
	if !taken {
		r.issued[id] = 1
		return id
	}
	for n := count; ; n++ {
		candidate := fmt.Sprintf("%s-%d", id, n)
		if _, ok := r.issued[candidate]; !ok {
			r.issued[id] = n + 1
			r.issued[candidate] = 1
			return candidate
		}
	}
}

// Has returns true if id was issued
func (r *Registry) Has(id string) bool {
	_, ok := r.issued[id]
	return ok
}

// Issued returns a copy of the issued ids and how often their base was requested
func (r *Registry) Issued() map[string]int {
	out := make(map[string]int, len(r.issued))
	for k, v := range r.issued {
		out[k] = v
	}
	return out
}
