// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package watch recompiles sources when they change
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gardener/astroforge/pkg/workers/compiler"
	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

// DefaultDebounce is the quiet period after the last change of a file
const DefaultDebounce = 150 * time.Millisecond

// Watcher dispatches changed sources to a compiler. Bursts of changes to one
// file are collapsed into a single compile after the debounce period. Files
// are debounced independently.
type Watcher struct {
	scheduler compiler.Interface
	debounce  time.Duration

	mux    sync.Mutex
	timers map[string]pending
	// gen numbers the registered changes, a timer fires for the latest one only
	gen uint64
	// files are explicitly watched inputs, accepted whatever their extension
	files map[string]bool
}

type pending struct {
	timer *time.Timer
	gen   uint64
}

// New creates a Watcher. A non-positive debounce means DefaultDebounce.
func New(scheduler compiler.Interface, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		scheduler: scheduler,
		debounce:  debounce,
		timers:    map[string]pending{},
		files:     map[string]bool{},
	}
}

// Run watches the inputs until ctx is done. Directories are watched
// recursively, for files their parent directory is watched.
func (w *Watcher) Run(ctx context.Context, inputs []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher failed: %w", err)
	}
	defer func() {
		w.stopTimers()
		watcher.Close() // nolint: errcheck
		klog.V(6).Infof("watching files stopped\n")
	}()

	watched := map[string]bool{}
	add := func(dir string) error {
		if watched[dir] {
			return nil
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("could not watch %s: %w", dir, err)
		}
		watched[dir] = true
		klog.V(6).Infof("watching %s\n", dir)
		return nil
	}
	for _, input := range inputs {
		input = filepath.Clean(input)
		stat, err := os.Stat(input)
		if err != nil {
			return fmt.Errorf("could not watch %s: %w", input, err)
		}
		if !stat.IsDir() {
			w.mux.Lock()
			w.files[input] = true
			w.mux.Unlock()
			if err = add(filepath.Dir(input)); err != nil {
				return err
			}
			continue
		}
		if err = addTree(input, add); err != nil {
			return err
		}
	}
	klog.Infof("watching %d directories for changes\n", len(watched))

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if stat, err := os.Stat(event.Name); err == nil && stat.IsDir() {
					if err = addTree(event.Name, add); err != nil {
						klog.Warning(err.Error())
					}
					continue
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.Notify(event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			klog.Warningf("watcher error: %v\n", err)
		case <-ctx.Done():
			return nil
		}
	}
}

// Notify registers a change of the file name. The file is scheduled for
// compile when no further change is registered during the debounce period.
func (w *Watcher) Notify(name string) {
	name = filepath.Clean(name)
	w.mux.Lock()
	defer w.mux.Unlock()
	if !w.files[name] && !compiler.IsSource(name) {
		return
	}
	if p, ok := w.timers[name]; ok {
		p.timer.Stop()
	}
	w.gen++
	gen := w.gen
	w.timers[name] = pending{time.AfterFunc(w.debounce, func() { w.fire(name, gen) }), gen}
}

// fire schedules the compile of name, unless a later change of name
// registered a new timer
func (w *Watcher) fire(name string, gen uint64) {
	w.mux.Lock()
	if p, ok := w.timers[name]; !ok || p.gen != gen {
		w.mux.Unlock()
		return
	}
	delete(w.timers, name)
	w.mux.Unlock()
	if _, err := os.Stat(name); err != nil {
		klog.V(6).Infof("skipping %s: %v\n", name, err)
		return
	}
	runID := uuid.New().String()
	klog.V(4).Infof("[%s] %s changed\n", runID, name)
	w.scheduler.Schedule(name, runID)
}

func (w *Watcher) stopTimers() {
	w.mux.Lock()
	defer w.mux.Unlock()
	for name, p := range w.timers {
		p.timer.Stop()
		delete(w.timers, name)
	}
}

// addTree adds dir and its subdirectories, hidden ones excepted
func addTree(dir string, add func(string) error) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return add(p)
	})
}
