// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gardener/astroforge/pkg/mdx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisk(t *testing.T) {
	dir := filepath.Join(os.TempDir(), fmt.Sprintf("cache%s", uuid.New().String()))
	defer os.RemoveAll(dir)

	c := NewDisk(dir)
	key := Key([]byte("# Title"), mdx.Options{InputPath: "a.md"})
	_, ok := c.Get(key)
	assert.False(t, ok)

	require.NoError(t, c.Put(key, []byte("<h1>Title</h1>")))
	page, ok := c.Get(key)
	assert.True(t, ok)
	assert.Equal(t, "<h1>Title</h1>", string(page))

	// a second instance reads the entries from disk
	page, ok = NewDisk(dir).Get(key)
	assert.True(t, ok)
	assert.Equal(t, "<h1>Title</h1>", string(page))
}

func TestKey(t *testing.T) {
	source := []byte("# Title")
	base := mdx.Options{
		InputPath:      "docs/a.md",
		OutputPath:     "dist/a.astro",
		ComponentPaths: map[string]string{"Poll": "~/poll", "Video": "~/video"},
	}
	key := Key(source, base)
	assert.Len(t, key, 64)
	assert.Equal(t, key, Key(source, mdx.Options{
		InputPath:      "docs/a.md",
		OutputPath:     "dist/a.astro",
		ComponentPaths: map[string]string{"Video": "~/video", "Poll": "~/poll"},
	}))

	variants := []mdx.Options{
		{InputPath: "docs/b.md", OutputPath: "dist/a.astro", ComponentPaths: base.ComponentPaths},
		{InputPath: "docs/a.md", OutputPath: "dist/a.astro", ComponentPaths: map[string]string{"Poll": "~/other"}},
		{InputPath: "docs/a.md", OutputPath: "dist/a.astro", ComponentPaths: base.ComponentPaths, Format: mdx.FormatMarkdown},
		{InputPath: "docs/a.md", OutputPath: "dist/a.astro", ComponentPaths: base.ComponentPaths, Preamble: []string{"const x = 1;"}},
		{InputPath: "docs/a.md", OutputPath: "dist/a.astro", ComponentPaths: base.ComponentPaths, SiteOrigin: "https://example.com"},
	}
	for i, v := range variants {
		assert.NotEqual(t, key, Key(source, v), "variant %d", i)
	}
	assert.NotEqual(t, key, Key([]byte("# Other"), base))
}
