// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/gardener/astroforge/pkg/cache"
	"github.com/gardener/astroforge/pkg/mdx"
	"github.com/gardener/astroforge/pkg/osfakes/osshim"
	"github.com/gardener/astroforge/pkg/watch"
	"github.com/gardener/astroforge/pkg/workers/compiler"
	"github.com/gardener/astroforge/pkg/workers/taskqueue"
	"github.com/gardener/astroforge/pkg/writers"
	"k8s.io/klog/v2"
)

// exec compiles the sources among inputs. With o.Watch it keeps recompiling
// changed sources until ctx is done.
func exec(ctx context.Context, o *options, inputs []string, out io.Writer) error {
	shim := &osshim.OsShim{}
	sources, err := compiler.ListSources(shim, inputs)
	if err != nil {
		return err
	}
	if len(sources) == 0 && !o.Watch {
		return fmt.Errorf("no sources found in %v", inputs)
	}
	if o.DestinationPath != "" {
		klog.Infof("Output dir: %s", o.DestinationPath)
	}

	var (
		writer writers.Writer
		dryRun writers.DryRunWriter
		c      cache.Cache
		dump   io.Writer
	)
	if o.DryRun {
		dryRun = writers.NewDryRunWritersFactory(out)
		writer = dryRun.GetWriter("")
	} else {
		writer = &writers.FSWriter{}
	}
	if !o.NoCache && !o.DryRun && o.CacheDir != "" {
		cacheDir := filepath.Join(o.CacheDir, "pages")
		klog.V(4).Infof("Cache dir: %s", cacheDir)
		c = cache.NewDisk(cacheDir)
	}
	if o.Dump {
		dump = out
	}
	worker := compiler.NewWorker(shim, writer, c, compiler.Options{
		Destination:    o.DestinationPath,
		ComponentsRoot: o.ComponentsRoot,
		SiteOrigin:     o.SiteOrigin,
		ComponentPaths: o.ComponentPaths,
		Preamble:       o.Preamble,
		Format:         mdx.Format(o.Format),
	}, dump)

	wg := &sync.WaitGroup{}
	scheduler, queue, err := compiler.New(o.Workers, o.FailFast, wg, worker)
	if err != nil {
		return err
	}
	run := taskqueue.NewRun(wg, queue)
	run.Start(ctx)
	for _, source := range sources {
		scheduler.Schedule(source, "")
	}
	run.Wait()
	// the exit status reflects the initial batch only
	batchErr := run.Errors().ErrorOrNil()

	if o.Watch && (batchErr == nil || !o.FailFast) {
		worker.ReportErrors(true)
		if err = watch.New(scheduler, o.Debounce).Run(ctx, inputs); err != nil {
			run.Stop()
			return err
		}
		run.Wait()
	}
	run.Stop()
	run.LogStats()
	if dryRun != nil {
		dryRun.Flush()
	}
	return batchErr
}
