// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package ast defines the document model produced by the block grammar.
// Block and Inline are closed sets: every variant is declared in this package.
package ast

import (
	"fmt"
	"strings"
)

// Document is the parsed form of one source file
type Document struct {
	// Blocks in source order
	Blocks []Block
	// Slugs maps every issued heading id to the number of times it was requested
	Slugs map[string]int
	// Components used anywhere in the tree, in order of first use
	Components *ComponentSet
	// Meta is the decoded frontmatter, nil when there is none
	Meta map[string]interface{}
	// Slug identifies the document itself
	Slug string
	// Title is the frontmatter title or the text of the first level 1 heading
	Title string
	// Warnings are recoverable problems met while parsing
	Warnings []error
}

// Block is a top-level structural unit
type Block interface {
	block()
}

// Inline is a span-level construct within a block
type Inline interface {
	inline()
}

// Frontmatter is the YAML block at the top of a document
type Frontmatter struct {
	Raw  string
	Slug string
}

// Heading is an ATX heading
type Heading struct {
	Level   int
	Content []Inline
	ID      string
}

// Paragraph is a run of consecutive text lines
type Paragraph struct {
	Content []Inline
}

// List is an ordered or unordered list
type List struct {
	Ordered bool
	// Start is the numeral of the first item of an ordered list
	Start int
	// Tight lists are not separated by blank lines
	Tight bool
	Items []*ListItem
}

// ListItem holds the blocks of a single list entry
type ListItem struct {
	Blocks []Block
}

// Alignment of a table column
type Alignment int

const (
	// AlignNone is the default column alignment
	AlignNone Alignment = iota
	// AlignLeft is set by a `:---` separator cell
	AlignLeft
	// AlignCenter is set by a `:---:` separator cell
	AlignCenter
	// AlignRight is set by a `---:` separator cell
	AlignRight
)

// Table is a pipe table. Rows[0] is the header row.
type Table struct {
	Align []Alignment
	Rows  [][][]Inline
}

// CodeBlock is a fenced code block. Body is never parsed.
type CodeBlock struct {
	Language  string
	Title     string
	Caption   string
	FirstLine int
	Highlight string
	Collapse  bool
	Body      string
}

// HTMLBlock is a block level HTML element. Elements with Markdown content
// carry Children, all others keep their source in Raw.
type HTMLBlock struct {
	Tag      string
	Raw      string
	Open     string
	Close    string
	Children []Block
}

// Comment is an HTML comment
type Comment struct {
	Raw string
}

// ComponentBlock is a JSX-like component standing on its own lines
type ComponentBlock struct {
	Name        string
	Attributes  []Attribute
	SelfClosing bool
	// Multiline is set when the opening tag spans several source lines
	Multiline bool
	Children  []Block
}

func (*Frontmatter) block()    {}
func (*Heading) block()        {}
func (*Paragraph) block()      {}
func (*List) block()           {}
func (*Table) block()          {}
func (*CodeBlock) block()      {}
func (*HTMLBlock) block()      {}
func (*Comment) block()        {}
func (*ComponentBlock) block() {}

// Text is a literal run of characters
type Text struct {
	Value string
}

// Bold is strong emphasis
type Bold struct {
	Content []Inline
}

// Emphasis is regular emphasis
type Emphasis struct {
	Content []Inline
}

// InlineCode is a code span. Code is never parsed.
type InlineCode struct {
	Code string
}

// Anchor is a link, written either as an <a> element or in Markdown syntax
type Anchor struct {
	Href       string
	Attributes []Attribute
	Content    []Inline
	External   bool
	Markdown   bool
}

// InlineComponent is a self-closing component inside text
type InlineComponent struct {
	Name       string
	Attributes []Attribute
}

// LineBreakHint marks the space before a short final word of a heading
type LineBreakHint struct{}

func (*Text) inline()            {}
func (*Bold) inline()            {}
func (*Emphasis) inline()        {}
func (*InlineCode) inline()      {}
func (*Anchor) inline()          {}
func (*InlineComponent) inline() {}
func (*LineBreakHint) inline()   {}

// AttributeKind tells how an attribute is written
type AttributeKind int

const (
	// Quoted attributes have a string value: name="value"
	Quoted AttributeKind = iota
	// Expression attributes have an expression value: name={value}
	Expression
	// Bare attributes have no value: name
	Bare
	// Directive attributes are framework directives like client:visible
	Directive
	// Spread attributes spread an object: {value}
	Spread
)

// Attribute of an element or component
type Attribute struct {
	Name  string
	Value string
	Kind  AttributeKind
	// Quote is the quote character of a Quoted attribute
	Quote byte
}

// String serializes the attribute the way it is written in source
func (a Attribute) String() string {
	switch a.Kind {
	case Expression:
		return fmt.Sprintf("%s={%s}", a.Name, a.Value)
	case Bare, Directive:
		return a.Name
	case Spread:
		return fmt.Sprintf("{%s}", a.Value)
	}
	q := a.Quote
	if q == 0 {
		q = '"'
	}
	return fmt.Sprintf("%s=%c%s%c", a.Name, q, a.Value, q)
}

// Lookup finds the attribute with the given name
func Lookup(attrs []Attribute, name string) (Attribute, bool) {
	for _, a := range attrs {
		if a.Kind != Spread && strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Attribute{}, false
}

// PlainText returns the visible text of inlines without any markup
func PlainText(inlines []Inline) string {
	var b strings.Builder
	writePlain(&b, inlines)
	return b.String()
}

func writePlain(b *strings.Builder, inlines []Inline) {
	for _, in := range inlines {
		switch n := in.(type) {
		case *Text:
			b.WriteString(n.Value)
		case *InlineCode:
			b.WriteString(n.Code)
		case *Bold:
			writePlain(b, n.Content)
		case *Emphasis:
			writePlain(b, n.Content)
		case *Anchor:
			writePlain(b, n.Content)
		case *LineBreakHint:
			b.WriteByte(' ')
		case *InlineComponent:
		}
	}
}
