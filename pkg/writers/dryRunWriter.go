// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package writers

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gardener/astroforge/pkg/mdx"
)

// DryRunWriter is the functional interface for working
// with dry run writers
type DryRunWriter interface {
	// GetWriter creates DryRunWriters writing to the
	// same backend but for different roots
	GetWriter(root string) Writer
	// Flush wraps up dryrun writing and flushes
	// results to the underlying writer (e.g. os.Stdout)
	Flush() bool
}

type dryRunWriter struct {
	Writer io.Writer
	mux    sync.Mutex
	files  []*file
	t1     time.Time
}

type file struct {
	path  string
	stats []string
}

type writer struct {
	root    string
	factory *dryRunWriter
}

// NewDryRunWritersFactory creates factory for DryRunWriters
// writing to the same backend but for different roots
func NewDryRunWritersFactory(w io.Writer) DryRunWriter {
	return &dryRunWriter{
		Writer: w,
		files:  []*file{},
		t1:     time.Now(),
	}
}

func (d *dryRunWriter) GetWriter(root string) Writer {
	return &writer{
		root:    root,
		factory: d,
	}
}

// Write records the projected file. Workers write concurrently.
func (w *writer) Write(name, p string, content []byte, res *mdx.Result) error {
	f := &file{
		path:  path.Join(w.root, p, name),
		stats: stats(content, res),
	}
	w.factory.mux.Lock()
	defer w.factory.mux.Unlock()
	w.factory.files = append(w.factory.files, f)
	return nil
}

func stats(content []byte, res *mdx.Result) []string {
	s := []string{fmt.Sprintf("size: %s", humanize.Bytes(uint64(len(content))))}
	if res == nil {
		return s
	}
	if len(res.Components) > 0 {
		s = append(s, fmt.Sprintf("components: %s", strings.Join(res.Components, ", ")))
	}
	if res.Slug != "" {
		s = append(s, fmt.Sprintf("slug: %s", res.Slug))
	}
	for _, w := range res.Warnings {
		s = append(s, fmt.Sprintf("warning: %v", w))
	}
	return s
}

// Flush formats and writes the dry-run result to the
// underlying writer
func (d *dryRunWriter) Flush() bool {
	var b bytes.Buffer

	d.mux.Lock()
	sort.Slice(d.files, func(i, j int) bool { return d.files[i].path < d.files[j].path })
	format(d.files, &b)
	d.mux.Unlock()

	b.WriteString(fmt.Sprintf("\nBuild finished in %f seconds\n", time.Since(d.t1).Seconds()))
	if _, err := d.Writer.Write(b.Bytes()); err != nil {
		fmt.Println(err.Error())
		return false
	}
	return true
}

// format prints the files as a tree, the stats of a file follow its name
func format(files []*file, b *bytes.Buffer) {
	seen := map[string]bool{}
	for _, f := range files {
		segments := strings.Split(strings.TrimPrefix(f.path, "/"), "/")
		for i, s := range segments {
			p := strings.Join(segments[:i+1], "/")
			if seen[p] {
				continue
			}
			seen[p] = true
			b.WriteString(strings.Repeat("  ", i))
			b.WriteString(s)
			b.WriteString("\n")
			if i < len(segments)-1 {
				continue
			}
			for _, st := range f.stats {
				b.WriteString(strings.Repeat("  ", i+1))
				b.WriteString(st)
				b.WriteString("\n")
			}
		}
	}
}
