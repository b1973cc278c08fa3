// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package renderer

import (
	"fmt"
	"strings"

	"github.com/gardener/astroforge/pkg/mdx/ast"
)

// SlugComponents need the document slug in the page script
var SlugComponents = []string{"HowTo", "Image", "Poll", "Questions", "Video"}

// NeedsSlug returns true if one of the components depends on the document slug
func NeedsSlug(components *ast.ComponentSet) bool {
	for _, c := range SlugComponents {
		if components.Has(c) {
			return true
		}
	}
	return false
}

var jsStringEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", " ")

// script builds the component script of the page, the part between the --- fences
func script(doc *ast.Document, imports []string, preamble []string) string {
	components := doc.Components
	lines := append([]string(nil), imports...)
	image, video, tweet := components.Has("Image"), components.Has("Video"), components.Has("Tweet")
	if image || video || tweet {
		lines = append(lines, "import { getEntry } from 'astro:content';")
	}
	slug := jsStringEscaper.Replace(doc.Slug)
	if components.Has("Questions") {
		lines = append(lines, fmt.Sprintf("import questions from '~content-raw/blog/%s/questions.json';", slug))
	}
	if NeedsSlug(components) {
		lines = append(lines, "", fmt.Sprintf("const slug = '%s';", slug))
	}
	if image || video {
		lines = append(lines, "const postImagesContentCollectionEntry = await getEntry('post-images', slug);")
	}
	if image {
		lines = append(lines,
			"const { data: { pictures } } = postImagesContentCollectionEntry;",
			"const imageProps = pictures.map((element, index) => ({ index, ...element, slug }));",
		)
	}
	if video {
		lines = append(lines, "const { data: { pagePictures: { poster: { src: poster } } } } = postImagesContentCollectionEntry;")
	}
	if tweet {
		lines = append(lines,
			"const pageImagesContentCollectionEntry = await getEntry('page-images', 'blog');",
			"const { data: { pagePictures: { twitterAvatar: { src: avatarSrc, placeholder: avatarPlaceholder } } } } = pageImagesContentCollectionEntry;",
		)
	}
	lines = append(lines, preamble...)
	if len(lines) == 0 {
		return ""
	}
	return "---\n" + strings.Join(lines, "\n") + "\n---\n\n"
}
