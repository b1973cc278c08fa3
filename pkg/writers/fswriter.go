// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package writers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gardener/astroforge/pkg/mdx"
)

// FSWriter is implementation of Writer interface for writing pages to the file system
type FSWriter struct {
	Root string
}

// Write creates the directories of path below Root and writes content to the file name.
// Empty content is not written.
func (f *FSWriter) Write(name, path string, content []byte, _ *mdx.Result) error {
	if len(content) == 0 {
		return nil
	}
	p := filepath.Join(f.Root, path)
	if err := os.MkdirAll(p, os.ModePerm); err != nil {
		return fmt.Errorf("error creating %s: %w", p, err)
	}
	filePath := filepath.Join(p, name)
	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", filePath, err)
	}
	return nil
}
