// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gardener/astroforge/pkg/osfakes/osshim"
	"github.com/hashicorp/go-multierror"
)

// SourceExtensions are the file extensions of compiled documents
var SourceExtensions = []string{".md", ".mdx"}

// IsSource reports whether path has one of the SourceExtensions
func IsSource(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SourceExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ListSources expands the directories among args to the sources they contain.
// Files are taken as they are, whatever their extension. Hidden directories are skipped.
func ListSources(os osshim.Os, args []string) ([]string, error) {
	var (
		sources []string
		errs    *multierror.Error
	)
	seen := map[string]bool{}
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			sources = append(sources, p)
		}
	}
	for _, arg := range args {
		isDir, err := os.IsDir(arg)
		if err != nil {
			if os.IsNotExist(err) {
				errs = multierror.Append(errs, fmt.Errorf("input %s does not exist", arg))
				continue
			}
			errs = multierror.Append(errs, fmt.Errorf("input %s: %w", arg, err))
			continue
		}
		if !isDir {
			add(arg)
			continue
		}
		err = os.WalkDir(arg, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != arg && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if IsSource(p) {
				add(p)
			}
			return nil
		})
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("listing %s failed: %w", arg, err))
		}
	}
	return sources, errs.ErrorOrNil()
}
