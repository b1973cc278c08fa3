// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package block

import (
	"strings"

	"github.com/gardener/astroforge/pkg/mdx/ast"
	"github.com/gardener/astroforge/pkg/mdx/inline"
	"github.com/gardener/astroforge/pkg/mdx/slug"
)

// Components the renderer needs for blocks
const (
	HeadingComponent   = "Heading"
	CodeBlockComponent = "CodeFragment"
)

// Options for the block grammar
type Options struct {
	// SiteOrigin is the origin of the site, links to it are not external
	SiteOrigin string
	// FileSlug is the document slug used when neither frontmatter nor a
	// level 1 heading provide one
	FileSlug string
}

// Builder builds one Document. It owns the slug registry and the component
// set for the lifetime of that document and must not be reused.
type Builder struct {
	opts       Options
	slugs      *slug.Registry
	components *ast.ComponentSet
	inline     *inline.Parser
	doc        *ast.Document
	// firstH1 is the text of the first level 1 heading
	firstH1 string
}

// NewBuilder creates a Builder
func NewBuilder(opts Options) *Builder {
	components := ast.NewComponentSet()
	return &Builder{
		opts:       opts,
		slugs:      slug.NewRegistry(),
		components: components,
		inline:     inline.NewParser(opts.SiteOrigin, components),
		doc:        &ast.Document{Components: components},
	}
}

// Parse runs the block grammar over source
func Parse(source string, opts Options) (*ast.Document, error) {
	return NewBuilder(opts).Build(source)
}

// Build partitions source into blocks and returns the finished Document
func (b *Builder) Build(source string) (*ast.Document, error) {
	lines := splitLines(source)
	fm, next := b.frontmatter(lines)
	blocks, err := b.parseBlocks(lines[next:])
	if err != nil {
		return nil, err
	}
	if fm != nil {
		blocks = append([]ast.Block{fm}, blocks...)
	}
	b.doc.Blocks = blocks
	b.doc.Slugs = b.slugs.Issued()
	b.doc.Title = b.title()
	b.doc.Slug = b.documentSlug()
	if fm != nil {
		fm.Slug = b.doc.Slug
	}
	return b.doc, nil
}

func (b *Builder) metaString(key string) string {
	if v, ok := b.doc.Meta[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func (b *Builder) title() string {
	if t := b.metaString("title"); t != "" {
		return t
	}
	return b.firstH1
}

// documentSlug prefers the frontmatter slug, then the title, then the file name
func (b *Builder) documentSlug() string {
	if s := b.metaString("slug"); s != "" {
		return s
	}
	if t := b.title(); t != "" {
		return slug.Make(t)
	}
	return b.opts.FileSlug
}

// parseBlocks tries the recognizers in priority order at the start of every block.
// Lines no recognizer accepts form paragraphs.
func (b *Builder) parseBlocks(lines []line) ([]ast.Block, error) {
	var blocks []ast.Block
	for i := 0; i < len(lines); {
		if lines[i].blank() {
			i++
			continue
		}
		matched := false
		for _, r := range recognizers {
			if !r.start(lines, i) {
				continue
			}
			out, next, err := r.parse(b, lines, i)
			if err != nil {
				return nil, err
			}
			if next == noMatch {
				continue
			}
			blocks = append(blocks, out...)
			i = next
			matched = true
			break
		}
		if matched {
			continue
		}
		p, next, err := b.paragraph(lines, i)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, p)
		i = next
	}
	return blocks, nil
}

// interrupts returns true if a block other than a paragraph starts at lines[i]
func interrupts(lines []line, i int) bool {
	for _, r := range recognizers {
		if r.start(lines, i) {
			return true
		}
	}
	return false
}

func (b *Builder) paragraph(lines []line, i int) (ast.Block, int, error) {
	j := i + 1
	for j < len(lines) && !lines[j].blank() && !interrupts(lines, j) {
		j++
	}
	content, err := b.inline.Parse(textSpan(lines[i:j]))
	if err != nil {
		return nil, noMatch, err
	}
	return &ast.Paragraph{Content: content}, j, nil
}

// trailing turns text that follows a closing tag on the same line into a paragraph
func (b *Builder) trailing(span inline.Span, from int) ([]ast.Block, error) {
	end := lineEnd(span.Text, from)
	if strings.TrimSpace(span.Text[from:end]) == "" {
		return nil, nil
	}
	content, err := b.inline.Parse(textSpan(split(span, from, end)))
	if err != nil {
		return nil, err
	}
	return []ast.Block{&ast.Paragraph{Content: content}}, nil
}
