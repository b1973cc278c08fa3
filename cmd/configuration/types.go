// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package configuration

// Config is the content of the astroforge configuration file. Unset values
// leave the corresponding command line defaults in place.
type Config struct {
	// CacheDir is the directory of the compiled pages cache
	CacheDir *string `yaml:"cacheDir,omitempty"`
	// SiteOrigin is the origin of the site, links to it are not external
	SiteOrigin *string `yaml:"siteOrigin,omitempty"`
	// ComponentsRoot is an import alias like ~components or a components directory
	ComponentsRoot *string `yaml:"componentsRoot,omitempty"`
	// ComponentPaths override the import paths of single components
	ComponentPaths map[string]string `yaml:"componentPaths,omitempty"`
	// Preamble lines are appended to the component script of every page
	Preamble []string `yaml:"preamble,omitempty"`
	// Workers is the number of parallel compile workers
	Workers *int32 `yaml:"workers,omitempty"`
}
