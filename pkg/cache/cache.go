// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package cache stores compiled pages on disk, keyed by their input
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/gardener/astroforge/pkg/mdx"
	"github.com/gardener/astroforge/pkg/version"
	"github.com/peterbourgon/diskv"
	"k8s.io/klog/v2"
)

const cacheSizeMax = 64 * 1024 * 1024

// Cache of compiled pages
type Cache interface {
	// Get returns the page stored under key
	Get(key string) ([]byte, bool)
	// Put stores page under key
	Put(key string, page []byte) error
}

// Disk is a Cache backed by a directory
type Disk struct {
	d *diskv.Diskv
}

// NewDisk creates a Cache storing pages as flat files in basePath
func NewDisk(basePath string) *Disk {
	flatTransform := func(s string) []string { return []string{} }
	return &Disk{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			Transform:    flatTransform,
			CacheSizeMax: cacheSizeMax,
		}),
	}
}

// Get returns the page stored under key
func (c *Disk) Get(key string) ([]byte, bool) {
	if !c.d.Has(key) {
		return nil, false
	}
	page, err := c.d.Read(key)
	if err != nil {
		klog.V(4).Infof("reading cache entry %s failed: %v\n", key, err)
		return nil, false
	}
	return page, true
}

// Put stores page under key
func (c *Disk) Put(key string, page []byte) error {
	if err := c.d.Write(key, page); err != nil {
		return fmt.Errorf("writing cache entry %s failed: %w", key, err)
	}
	return nil
}

// Key identifies the compile of source with opts. Everything influencing
// the output is hashed, the binary version included.
func Key(source []byte, opts mdx.Options) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\x00%s\x00%s\x00%s\x00",
		version.Version, opts.InputPath, opts.OutputPath, opts.ComponentsRoot, opts.SiteOrigin, opts.Format, source)
	names := make([]string, 0, len(opts.ComponentPaths))
	for name := range opts.ComponentPaths {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(h, "%s=%s\x00", name, opts.ComponentPaths[name])
	}
	for _, line := range opts.Preamble {
		fmt.Fprintf(h, "%s\n", line)
	}
	return hex.EncodeToString(h.Sum(nil))
}
