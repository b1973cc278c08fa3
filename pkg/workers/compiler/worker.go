// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gardener/astroforge/pkg/cache"
	"github.com/gardener/astroforge/pkg/mdx"
	"github.com/gardener/astroforge/pkg/osfakes/osshim"
	"github.com/gardener/astroforge/pkg/writers"
	"github.com/k0kubun/pp"
	"k8s.io/klog/v2"
)

// ErrOverwriteSource is returned when the page of a source would be written
// over the source itself
var ErrOverwriteSource = errors.New("output would overwrite the source, set a destination")

// Options are applied to every compiled document
type Options struct {
	// Destination is the output directory, the directory of the input when empty
	Destination    string
	ComponentsRoot string
	SiteOrigin     string
	ComponentPaths map[string]string
	Preamble       []string
	Format         mdx.Format
	// ReportErrors logs failed compiles instead of returning the error,
	// see Worker.ReportErrors
	ReportErrors bool
}

// Task is the compile of one input file
type Task struct {
	Source string
	// RunID correlates the log messages of one watch dispatch
	RunID string
}

// Worker compiles input files and writes the pages
type Worker struct {
	os      osshim.Os
	writer  writers.Writer
	cache   cache.Cache
	options Options

	dump    io.Writer
	dumpMux sync.Mutex

	reportErrors atomic.Bool
}

// NewWorker creates a Worker. The cache and dump writer are optional.
func NewWorker(os osshim.Os, writer writers.Writer, c cache.Cache, options Options, dump io.Writer) *Worker {
	w := &Worker{
		os:      os,
		writer:  writer,
		cache:   c,
		options: options,
		dump:    dump,
	}
	w.reportErrors.Store(options.ReportErrors)
	return w
}

// ReportErrors switches between logging failed compiles and returning their
// errors to the queue. A watch reports, so that its queue keeps running.
func (w *Worker) ReportErrors(report bool) {
	w.reportErrors.Store(report)
}

// Compile reads the source of task, compiles it and writes the page
func (w *Worker) Compile(ctx context.Context, task *Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	content, err := w.os.ReadFile(task.Source)
	if err != nil {
		return fmt.Errorf("reading %s failed: %w", task.Source, err)
	}
	outDir := w.options.Destination
	if outDir == "" {
		outDir = filepath.Dir(task.Source)
	}
	name := mdx.OutputName(task.Source, w.options.Format)
	if samePath(filepath.Join(outDir, name), task.Source) {
		return fmt.Errorf("compiling %s failed: %w", task.Source, ErrOverwriteSource)
	}
	opts := mdx.Options{
		InputPath:      task.Source,
		OutputPath:     filepath.Join(outDir, name),
		ComponentsRoot: w.options.ComponentsRoot,
		SiteOrigin:     w.options.SiteOrigin,
		ComponentPaths: w.options.ComponentPaths,
		Preamble:       w.options.Preamble,
		Format:         w.options.Format,
	}

	var key string
	if w.cache != nil {
		key = cache.Key(content, opts)
		if page, ok := w.cache.Get(key); ok {
			klog.V(4).Infof("%s %s is up to date\n", runPrefix(task), task.Source)
			return w.write(name, outDir, page, nil)
		}
	}

	start := time.Now()
	res, err := mdx.Compile(content, opts)
	if err != nil {
		return err
	}
	for _, warning := range res.Warnings {
		klog.Warningf("%s %s: %v\n", runPrefix(task), task.Source, warning)
	}
	w.dumpDocument(task.Source, res)

	page := []byte(res.Markup)
	if err = w.write(name, outDir, page, res); err != nil {
		return err
	}
	if w.cache != nil {
		if err = w.cache.Put(key, page); err != nil {
			klog.Warning(err.Error())
		}
	}
	klog.Infof("%s compiled %s (%s) in %s\n", runPrefix(task), task.Source, humanize.Bytes(uint64(len(page))), time.Since(start).Round(time.Microsecond))
	return nil
}

func (w *Worker) write(name, dir string, page []byte, res *mdx.Result) error {
	if err := w.writer.Write(name, dir, page, res); err != nil {
		return fmt.Errorf("writing %s failed: %w", filepath.Join(dir, name), err)
	}
	return nil
}

func (w *Worker) dumpDocument(source string, res *mdx.Result) {
	if w.dump == nil {
		return
	}
	w.dumpMux.Lock()
	defer w.dumpMux.Unlock()
	fmt.Fprintf(w.dump, "# %s\n", source)
	if _, err := pp.Fprintln(w.dump, res.Document); err != nil {
		klog.Warningf("dumping %s failed: %v\n", source, err)
	}
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func runPrefix(task *Task) string {
	if task.RunID == "" {
		return "[batch]"
	}
	return "[" + task.RunID + "]"
}
