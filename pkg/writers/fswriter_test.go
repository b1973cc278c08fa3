// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package writers

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	testCases := []struct {
		description string
		name        string
		path        string
		content     []byte
		wantWritten bool
	}{
		{
			description: "writes page in nested directory",
			name:        "intro.astro",
			path:        "a/b",
			content:     []byte("<p>Test</p>\n"),
			wantWritten: true,
		},
		{
			description: "writes page in root",
			name:        "index.astro",
			path:        "",
			content:     []byte("<p>Test</p>\n"),
			wantWritten: true,
		},
		{
			description: "skips empty content",
			name:        "empty.astro",
			path:        "a",
			content:     nil,
			wantWritten: false,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			testPath := filepath.Join(os.TempDir(), fmt.Sprintf("test%s", uuid.New().String()))
			defer func() {
				require.NoError(t, os.RemoveAll(testPath))
			}()
			fs := &FSWriter{Root: testPath}
			fPath := filepath.Join(fs.Root, tc.path, tc.name)

			require.NoError(t, fs.Write(tc.name, tc.path, tc.content, nil))

			b, err := os.ReadFile(fPath)
			if !tc.wantWritten {
				assert.True(t, os.IsNotExist(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.content, b)
		})
	}
}

func TestWriteError(t *testing.T) {
	testPath := filepath.Join(os.TempDir(), fmt.Sprintf("test%s", uuid.New().String()))
	defer os.RemoveAll(testPath)
	require.NoError(t, os.MkdirAll(filepath.Join(testPath, "page.astro"), os.ModePerm))

	fs := &FSWriter{Root: testPath}
	err := fs.Write("page.astro", "", []byte("x"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error writing")
}
