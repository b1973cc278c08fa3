// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package mdx compiles Markdown documents with JSX-like components into Astro pages.
package mdx

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gardener/astroforge/pkg/mdx/ast"
	"github.com/gardener/astroforge/pkg/mdx/block"
	"github.com/gardener/astroforge/pkg/mdx/renderer"
	"github.com/gardener/astroforge/pkg/mdx/slug"
)

// Diagnostic is the fatal error returned by Compile
type Diagnostic = ast.Diagnostic

// ErrAnchorMissingHref is wrapped by the Diagnostic of an anchor without destination
var ErrAnchorMissingHref = ast.ErrAnchorMissingHref

// Format of the compiled output
type Format string

const (
	// FormatAstro renders an Astro page
	FormatAstro Format = "astro"
	// FormatMarkdown re-serializes the document as Markdown
	FormatMarkdown Format = "markdown"
)

// Extension returns the file extension of the format
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return ".astro"
}

// Options for Compile
type Options struct {
	// InputPath names the source in diagnostics and provides the fallback document slug
	InputPath string
	// OutputPath is the destination of the page, relative component imports are derived from it
	OutputPath string
	// ComponentsRoot is an import alias like ~components or a components directory
	ComponentsRoot string
	// SiteOrigin is the origin of the site, links to it are not external
	SiteOrigin string
	// ComponentPaths overrides the import path of single components
	ComponentPaths map[string]string
	// Preamble lines are appended to the component script
	Preamble []string
	// Format of Result.Markup, FormatAstro when empty
	Format Format
}

// Result of a compile
type Result struct {
	// Markup is the complete output
	Markup string
	// Script is the component script of an Astro page
	Script string
	// Body is the page content following the script
	Body string
	// Slug of the document, set when a component depends on it
	Slug string
	// Imports are the import statements of the used components
	Imports []string
	// Components used by the document in order of first use
	Components []string
	// Meta is the decoded frontmatter
	Meta map[string]interface{}
	// Warnings are recoverable problems, the output is complete nonetheless
	Warnings []error
	// Document is the parsed model
	Document *ast.Document
}

// Compile compiles one document. A fatal error is returned as *Diagnostic and
// no output is produced.
func Compile(source []byte, opts Options) (*Result, error) {
	doc, err := block.Parse(string(source), block.Options{
		SiteOrigin: opts.SiteOrigin,
		FileSlug:   FileSlug(opts.InputPath),
	})
	if err != nil {
		var d *Diagnostic
		if errors.As(err, &d) {
			d.Path = opts.InputPath
			return nil, d
		}
		return nil, fmt.Errorf("parsing %s failed: %w", opts.InputPath, err)
	}
	res := &Result{
		Components: doc.Components.Names(),
		Meta:       doc.Meta,
		Warnings:   doc.Warnings,
		Document:   doc,
	}
	if renderer.NeedsSlug(doc.Components) {
		res.Slug = doc.Slug
	}
	if opts.Format == FormatMarkdown {
		res.Markup = renderer.Markdown(doc)
		res.Body = res.Markup
		return res, nil
	}
	page := renderer.Astro(doc, renderer.Options{
		OutputPath:     opts.OutputPath,
		ComponentsRoot: opts.ComponentsRoot,
		ComponentPaths: opts.ComponentPaths,
		Preamble:       opts.Preamble,
	})
	res.Markup = page.Markup()
	res.Script = page.Script
	res.Body = page.Body
	res.Imports = page.Imports
	return res, nil
}

// FileSlug derives a document slug from its path. An index file is named
// after its directory.
func FileSlug(path string) string {
	if path == "" {
		return slug.Fallback
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if strings.EqualFold(name, "index") {
		if dir := filepath.Base(filepath.Dir(path)); dir != "." && dir != string(filepath.Separator) {
			name = dir
		}
	}
	return slug.Make(name)
}

// OutputName returns the file name of the compiled page of the source at path
func OutputName(path string, format Format) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return name + format.Extension()
}
