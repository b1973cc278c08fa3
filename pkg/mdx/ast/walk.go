// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package ast

// Visitor receives every node of a tree. Either function may be nil.
type Visitor struct {
	Block  func(Block)
	Inline func(Inline)
}

// Walk traverses blocks depth-first in document order
func Walk(blocks []Block, v Visitor) {
	for _, b := range blocks {
		if v.Block != nil {
			v.Block(b)
		}
		switch n := b.(type) {
		case *Heading:
			walkInlines(n.Content, v)
		case *Paragraph:
			walkInlines(n.Content, v)
		case *List:
			for _, item := range n.Items {
				Walk(item.Blocks, v)
			}
		case *Table:
			for _, row := range n.Rows {
				for _, cell := range row {
					walkInlines(cell, v)
				}
			}
		case *HTMLBlock:
			Walk(n.Children, v)
		case *ComponentBlock:
			Walk(n.Children, v)
		case *Frontmatter, *CodeBlock, *Comment:
		}
	}
}

func walkInlines(inlines []Inline, v Visitor) {
	for _, in := range inlines {
		if v.Inline != nil {
			v.Inline(in)
		}
		switch n := in.(type) {
		case *Bold:
			walkInlines(n.Content, v)
		case *Emphasis:
			walkInlines(n.Content, v)
		case *Anchor:
			walkInlines(n.Content, v)
		}
	}
}
