// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package renderer

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// DefaultComponentsRoot is the import alias of the components directory
const DefaultComponentsRoot = "~components"

// knownComponents lists the component files relative to the components root, in import order
var knownComponents = []struct{ name, file string }{
	{"CodeFragment", "CodeFragment.svelte"},
	{"Heading", "Heading.svelte"},
	{"HowTo", "HowTo/index.svelte"},
	{"HowToSection", "HowTo/HowToSection.svelte"},
	{"HowToStep", "HowTo/HowToStep.svelte"},
	{"HowToDirection", "HowTo/HowToDirection.svelte"},
	{"GatsbyNotMaintained", "BlogPost/GatsbyNotMaintained.svelte"},
	{"Image", "BlogPost/Image.svelte"},
	{"LinkIcon", "Icons/Link.svelte"},
	{"InlineCodeFragment", "InlineCodeFragment.svelte"},
	{"Poll", "Poll.svelte"},
	{"Questions", "Questions.svelte"},
	{"Tweet", "Tweet.svelte"},
	{"TwitterMessageLink", "Link/TwitterMessageLink.svelte"},
	{"Video", "Video.svelte"},
}

// Registry resolves the import path of components
type Registry struct {
	root      string
	overrides map[string]string
}

// NewRegistry creates a Registry. root is either an import alias starting with
// '~' or '@', or a directory. overrides map component names to verbatim import paths.
func NewRegistry(root string, overrides map[string]string) *Registry {
	if root == "" {
		root = DefaultComponentsRoot
	}
	return &Registry{root: root, overrides: overrides}
}

func componentFile(name string) string {
	for _, c := range knownComponents {
		if c.name == name {
			return c.file
		}
	}
	return name + ".svelte"
}

// isAlias returns true if root is resolved by the bundler rather than the file system
func isAlias(root string) bool {
	return strings.HasPrefix(root, "~") || strings.HasPrefix(root, "@")
}

// Path returns the import path of the component name for a page written to outputPath
func (r *Registry) Path(name, outputPath string) string {
	if p, ok := r.overrides[name]; ok {
		return p
	}
	file := componentFile(name)
	if isAlias(r.root) {
		return path.Join(r.root, file)
	}
	target := filepath.Join(r.root, filepath.FromSlash(file))
	if outputPath == "" {
		return filepath.ToSlash(target)
	}
	rel, err := filepath.Rel(filepath.Dir(outputPath), target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

// Imports returns one import statement per component. Known components come
// first in their fixed order followed by the others in the given order.
func (r *Registry) Imports(components []string, outputPath string) []string {
	used := map[string]bool{}
	for _, c := range components {
		used[c] = true
	}
	var ordered []string
	for _, c := range knownComponents {
		if used[c.name] {
			ordered = append(ordered, c.name)
			delete(used, c.name)
		}
	}
	for _, c := range components {
		if used[c] {
			ordered = append(ordered, c)
		}
	}
	imports := make([]string, 0, len(ordered))
	for _, name := range ordered {
		imports = append(imports, fmt.Sprintf("import %s from '%s';", name, r.Path(name, outputPath)))
	}
	return imports
}
