// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttributeString(t *testing.T) {
	testCases := []struct {
		attr Attribute
		want string
	}{
		{Attribute{Name: "href", Value: "/x", Kind: Quoted}, `href="/x"`},
		{Attribute{Name: "alt", Value: "it's", Kind: Quoted, Quote: '"'}, `alt="it's"`},
		{Attribute{Name: "title", Value: `say "hi"`, Kind: Quoted, Quote: '\''}, `title='say "hi"'`},
		{Attribute{Name: "count", Value: "3", Kind: Expression}, `count={3}`},
		{Attribute{Name: "collapse", Kind: Bare}, `collapse`},
		{Attribute{Name: "client:visible", Kind: Directive}, `client:visible`},
		{Attribute{Value: "questions", Kind: Spread}, `{questions}`},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, tc.attr.String())
	}
}

func TestLookup(t *testing.T) {
	attrs := []Attribute{{Value: "props", Kind: Spread}, {Name: "Href", Value: "/a", Kind: Quoted}}
	a, ok := Lookup(attrs, "href")
	assert.True(t, ok)
	assert.Equal(t, "/a", a.Value)
	_, ok = Lookup(attrs, "props")
	assert.False(t, ok)
}

func TestComponentSet(t *testing.T) {
	s := NewComponentSet("Heading", "Poll")
	s.Add("Heading")
	s.Add("Video")
	assert.Equal(t, []string{"Heading", "Poll", "Video"}, s.Names())
	assert.True(t, s.Has("Poll"))
	assert.False(t, s.Has("Image"))
	assert.Equal(t, 3, s.Len())

	var empty *ComponentSet
	assert.False(t, empty.Has("Poll"))
	assert.Nil(t, empty.Names())
	assert.Equal(t, 0, empty.Len())
}

func TestPlainText(t *testing.T) {
	in := []Inline{
		&Text{Value: "Use "},
		&InlineCode{Code: "go test"},
		&Text{Value: " for"},
		&LineBreakHint{},
		&Bold{Content: []Inline{&Emphasis{Content: []Inline{&Text{Value: "speed"}}}}},
		&InlineComponent{Name: "Icon"},
	}
	assert.Equal(t, "Use go test for speed", PlainText(in))
}

func TestWalk(t *testing.T) {
	blocks := []Block{
		&Heading{Level: 1, Content: []Inline{&Text{Value: "A"}}},
		&List{Items: []*ListItem{{Blocks: []Block{
			&Paragraph{Content: []Inline{&Anchor{Href: "/x", Content: []Inline{&InlineCode{Code: "c"}}}}},
		}}}},
		&ComponentBlock{Name: "HowTo", Children: []Block{&CodeBlock{Body: "x"}}},
	}
	var blockCount, inlineCount int
	Walk(blocks, Visitor{
		Block:  func(Block) { blockCount++ },
		Inline: func(Inline) { inlineCount++ },
	})
	assert.Equal(t, 5, blockCount)
	assert.Equal(t, 3, inlineCount)
}
