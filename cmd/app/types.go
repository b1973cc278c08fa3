// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package app

import "time"

// options of the compile command, decoded from the flags, the environment
// and the configuration file
type options struct {
	DestinationPath string            `mapstructure:"destination"`
	ComponentsRoot  string            `mapstructure:"components-root"`
	ComponentPaths  map[string]string `mapstructure:"component-paths"`
	SiteOrigin      string            `mapstructure:"site-origin"`
	Format          string            `mapstructure:"format"`
	Watch           bool              `mapstructure:"watch"`
	Debounce        time.Duration     `mapstructure:"debounce"`
	Workers         int               `mapstructure:"workers"`
	FailFast        bool              `mapstructure:"fail-fast"`
	DryRun          bool              `mapstructure:"dry-run"`
	Dump            bool              `mapstructure:"dump"`
	CacheDir        string            `mapstructure:"cache-dir"`
	NoCache         bool              `mapstructure:"no-cache"`
	Preamble        []string          `mapstructure:"-"`
}
