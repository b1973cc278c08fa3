// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gardener/astroforge/cmd/configuration"
	"github.com/gardener/astroforge/pkg/mdx"
	"github.com/spf13/viper"
)

// newOptions decodes the options bound to vip. Values of the configuration
// file apply where neither a flag nor an environment variable is set.
func newOptions(vip *viper.Viper, config *configuration.Config) (*options, error) {
	o := &options{}
	if err := vip.Unmarshal(o); err != nil {
		return nil, fmt.Errorf("decoding options failed: %w", err)
	}
	if config == nil {
		config = &configuration.Config{}
	}
	if config.SiteOrigin != nil && !vip.IsSet("site-origin") {
		o.SiteOrigin = *config.SiteOrigin
	}
	if config.ComponentsRoot != nil && !vip.IsSet("components-root") {
		o.ComponentsRoot = *config.ComponentsRoot
	}
	if config.Workers != nil && !vip.IsSet("workers") {
		o.Workers = int(*config.Workers)
	}
	if config.CacheDir != nil && !vip.IsSet("cache-dir") {
		o.CacheDir = expandHome(*config.CacheDir)
	}
	o.ComponentPaths = mergeComponentPaths(o.ComponentPaths, config.ComponentPaths)
	o.Preamble = config.Preamble
	if err := validate(o); err != nil {
		return nil, err
	}
	return o, nil
}

// mergeComponentPaths combines the paths of the configuration file with the
// paths of the flags, the flags take precedence
func mergeComponentPaths(fromFlags, fromConfig map[string]string) map[string]string {
	paths := make(map[string]string, len(fromFlags)+len(fromConfig))
	for k, v := range fromConfig {
		paths[k] = v
	}
	for k, v := range fromFlags {
		paths[k] = v
	}
	return paths
}

func validate(o *options) error {
	switch mdx.Format(o.Format) {
	case mdx.FormatAstro, mdx.FormatMarkdown:
	default:
		return fmt.Errorf("unknown format '%s'. Must be one of %v", o.Format, []mdx.Format{mdx.FormatAstro, mdx.FormatMarkdown})
	}
	if o.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative: %s", o.Debounce)
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
