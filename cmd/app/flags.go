// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"os"
	"path/filepath"

	"github.com/gardener/astroforge/cmd/configuration"
	"github.com/gardener/astroforge/pkg/mdx/renderer"
	"github.com/gardener/astroforge/pkg/watch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func configureFlags(command *cobra.Command, vip *viper.Viper) {
	command.Flags().StringP("destination", "d", "",
		"Destination directory of the compiled pages. Pages are written next to their sources when empty.")
	_ = vip.BindPFlag("destination", command.Flags().Lookup("destination"))

	command.Flags().String("components-root", renderer.DefaultComponentsRoot,
		"Import alias (starting with ~ or @) or directory of the components imported by the pages.")
	_ = vip.BindPFlag("components-root", command.Flags().Lookup("components-root"))

	command.Flags().StringToString("component-paths", map[string]string{},
		"Import paths of single components, overriding the components root (example: Poll=~/lib/Poll.svelte).")
	_ = vip.BindPFlag("component-paths", command.Flags().Lookup("component-paths"))

	command.Flags().String("site-origin", "",
		"Origin of the site (example: https://www.example.com). Links to it are not treated as external.")
	_ = vip.BindPFlag("site-origin", command.Flags().Lookup("site-origin"))

	command.Flags().String("format", "astro",
		"Output format. Must be one of: `astro` or `markdown`.")
	_ = vip.BindPFlag("format", command.Flags().Lookup("format"))

	command.Flags().Bool("watch", false,
		"Compiles the inputs and then recompiles every source on change until interrupted.")
	_ = vip.BindPFlag("watch", command.Flags().Lookup("watch"))

	command.Flags().Duration("debounce", watch.DefaultDebounce,
		"Quiet period after the last change of a source before it is recompiled. Only useful with --watch=true")
	_ = vip.BindPFlag("debounce", command.Flags().Lookup("debounce"))

	command.Flags().Int("workers", 10,
		"Number of parallel workers compiling documents.")
	_ = vip.BindPFlag("workers", command.Flags().Lookup("workers"))

	command.Flags().Bool("fail-fast", false,
		"Fail-fast vs fault tolerant operation.")
	_ = vip.BindPFlag("fail-fast", command.Flags().Lookup("fail-fast"))

	command.Flags().Bool("dry-run", false,
		"Runs the command end-to-end but instead of writing files, it will output the projected file/folder hierarchy to the standard output and statistics for each page.")
	_ = vip.BindPFlag("dry-run", command.Flags().Lookup("dry-run"))

	command.Flags().Bool("dump", false,
		"Prints the parsed document model of every compiled source to the standard output.")
	_ = vip.BindPFlag("dump", command.Flags().Lookup("dump"))

	cacheDir := ""
	if userHomeDir, err := os.UserHomeDir(); err == nil {
		// default value $HOME/.astroforge/cache
		cacheDir = filepath.Join(userHomeDir, configuration.AstroforgeHomeDir, "cache")
	}
	command.Flags().String("cache-dir", cacheDir,
		"Cache directory, used for the compiled pages cache.")
	_ = vip.BindPFlag("cache-dir", command.Flags().Lookup("cache-dir"))

	command.Flags().Bool("no-cache", false,
		"Compiles every source, disregarding the cache.")
	_ = vip.BindPFlag("no-cache", command.Flags().Lookup("no-cache"))
}
