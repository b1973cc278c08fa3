// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package block

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gardener/astroforge/pkg/mdx/ast"
	"gopkg.in/yaml.v3"
)

// ErrFrontMatterNotClosed is raised to signal
// that the rules for defining a frontmatter element
// in a markdown document have been violated
var ErrFrontMatterNotClosed = errors.New("missing closing frontmatter `---`")

const frontmatterDelimiter = "---"

// frontmatter recognizes the YAML block on the very first line of a document.
// An unclosed block is not frontmatter, its lines are parsed as regular content.
func (b *Builder) frontmatter(lines []line) (*ast.Frontmatter, int) {
	if len(lines) == 0 || strings.TrimRight(lines[0].text, " \t") != frontmatterDelimiter {
		return nil, 0
	}
	for j := 1; j < len(lines); j++ {
		if t := strings.TrimRight(lines[j].text, " \t"); t != frontmatterDelimiter && t != "..." {
			continue
		}
		raw := join(lines[1:j]).Text
		meta := map[string]interface{}{}
		if err := yaml.Unmarshal([]byte(raw), &meta); err != nil {
			b.doc.Warnings = append(b.doc.Warnings, fmt.Errorf("invalid frontmatter: %w", err))
		} else {
			b.doc.Meta = meta
		}
		return &ast.Frontmatter{Raw: raw}, j + 1
	}
	b.doc.Warnings = append(b.doc.Warnings, ErrFrontMatterNotClosed)
	return nil, 0
}
