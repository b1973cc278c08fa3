// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package configuration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"k8s.io/utils/pointer"
)

func Test_load(t *testing.T) {
	tests := []struct {
		name           string
		configFilePath string
		want           *Config
		wantErr        bool
	}{
		{
			name:           "only_site_origin",
			configFilePath: "testdata/config_sparse.yaml",
			want: &Config{
				SiteOrigin: pointer.StringPtr("https://www.example.com"),
			},
		},
		{
			name:           "empty_path",
			configFilePath: "",
			want:           &Config{},
		},
		{
			name:           "config_full",
			configFilePath: "testdata/config_full.yaml",
			want: &Config{
				CacheDir:       pointer.StringPtr("~/.astroforge/cache_old"),
				SiteOrigin:     pointer.StringPtr("https://www.example.com"),
				ComponentsRoot: pointer.StringPtr("src/components"),
				ComponentPaths: map[string]string{
					"Poll":  "~/lib/Poll.svelte",
					"Video": "~/lib/Video.svelte",
				},
				Preamble: []string{"import Layout from '~layouts/Page.astro';"},
				Workers:  pointer.Int32Ptr(4),
			},
		},
		{
			name:           "missing_config_file",
			configFilePath: "testdata/missing_file.yaml",
			want:           &Config{},
		},
		{
			name:           "invalid_yaml",
			configFilePath: "testdata/config_invalid.yaml",
			wantErr:        true,
		},
		{
			name:           "directory",
			configFilePath: "testdata",
			wantErr:        true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := load(tt.configFilePath)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
