// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package compiler_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/gardener/astroforge/pkg/mdx"
	"github.com/gardener/astroforge/pkg/osfakes/osshim"
	"github.com/gardener/astroforge/pkg/osfakes/osshim/osshimfakes"
	"github.com/gardener/astroforge/pkg/workers/compiler"
	"github.com/gardener/astroforge/pkg/writers/writersfakes"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type memCache struct {
	mux     sync.Mutex
	entries map[string][]byte
}

func (m *memCache) Get(key string) ([]byte, bool) {
	m.mux.Lock()
	defer m.mux.Unlock()
	page, ok := m.entries[key]
	return page, ok
}

func (m *memCache) Put(key string, page []byte) error {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.entries[key] = page
	return nil
}

var _ = Describe("Compiler", func() {
	var (
		fakeOs  *osshimfakes.FakeOs
		writer  *writersfakes.FakeWriter
		cache   *memCache
		options compiler.Options
		dump    *bytes.Buffer
		worker  *compiler.Worker
		ctx     context.Context
		task    *compiler.Task
		err     error
	)
	BeforeEach(func() {
		fakeOs = &osshimfakes.FakeOs{}
		fakeOs.ReadFileReturns([]byte("# Intro\n\nSome *text*.\n"), nil)
		writer = &writersfakes.FakeWriter{}
		cache = nil
		options = compiler.Options{}
		dump = nil
		ctx = context.Background()
		task = &compiler.Task{Source: "docs/intro.md"}
	})
	JustBeforeEach(func() {
		if cache != nil {
			worker = compiler.NewWorker(fakeOs, writer, cache, options, nil)
		} else if dump != nil {
			worker = compiler.NewWorker(fakeOs, writer, nil, options, dump)
		} else {
			worker = compiler.NewWorker(fakeOs, writer, nil, options, nil)
		}
		err = worker.Compile(ctx, task)
	})
	When("compiling a document", func() {
		It("writes the page next to the source", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(fakeOs.ReadFileCallCount()).To(Equal(1))
			Expect(fakeOs.ReadFileArgsForCall(0)).To(Equal("docs/intro.md"))
			Expect(writer.WriteCallCount()).To(Equal(1))
			name, dir, content, res := writer.WriteArgsForCall(0)
			Expect(name).To(Equal("intro.astro"))
			Expect(dir).To(Equal("docs"))
			Expect(string(content)).To(ContainSubstring(`<h1 id="intro">`))
			Expect(string(content)).To(ContainSubstring("<em>text</em>"))
			Expect(res).NotTo(BeNil())
			Expect(res.Markup).To(Equal(string(content)))
		})
	})
	When("a destination is set", func() {
		BeforeEach(func() {
			options.Destination = "dist/pages"
			options.ComponentsRoot = "dist/components"
		})
		It("writes the page to the destination", func() {
			Expect(err).NotTo(HaveOccurred())
			_, dir, content, _ := writer.WriteArgsForCall(0)
			Expect(dir).To(Equal("dist/pages"))
			Expect(string(content)).To(ContainSubstring("from '../components/Heading.svelte'"))
		})
	})
	When("the format is markdown", func() {
		BeforeEach(func() {
			options.Format = mdx.FormatMarkdown
			options.Destination = "dist"
		})
		It("writes a markdown file", func() {
			Expect(err).NotTo(HaveOccurred())
			name, dir, content, _ := writer.WriteArgsForCall(0)
			Expect(name).To(Equal("intro.md"))
			Expect(dir).To(Equal("dist"))
			Expect(string(content)).To(HavePrefix("# Intro\n"))
		})
	})
	When("the page would replace its markdown source", func() {
		BeforeEach(func() {
			options.Format = mdx.FormatMarkdown
		})
		It("refuses to write", func() {
			Expect(errors.Is(err, compiler.ErrOverwriteSource)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("docs/intro.md"))
			Expect(writer.WriteCallCount()).To(Equal(0))
		})
		When("the destination is the source directory", func() {
			BeforeEach(func() {
				options.Destination = "./docs/"
			})
			It("refuses to write", func() {
				Expect(errors.Is(err, compiler.ErrOverwriteSource)).To(BeTrue())
				Expect(writer.WriteCallCount()).To(Equal(0))
			})
		})
		When("the source is an mdx file", func() {
			BeforeEach(func() {
				task.Source = "docs/intro.mdx"
			})
			It("writes the markdown next to it", func() {
				Expect(err).NotTo(HaveOccurred())
				name, dir, _, _ := writer.WriteArgsForCall(0)
				Expect(name).To(Equal("intro.md"))
				Expect(dir).To(Equal("docs"))
			})
		})
	})
	When("reading the source fails", func() {
		BeforeEach(func() {
			fakeOs.ReadFileReturns(nil, errors.New("fake_read_err"))
		})
		It("returns the error", func() {
			Expect(err).To(MatchError(ContainSubstring("reading docs/intro.md failed: fake_read_err")))
			Expect(writer.WriteCallCount()).To(Equal(0))
		})
	})
	When("the document has an anchor without href", func() {
		BeforeEach(func() {
			fakeOs.ReadFileReturns([]byte("# Intro\n\nSee <a>here</a>.\n"), nil)
		})
		It("fails without writing", func() {
			Expect(errors.Is(err, mdx.ErrAnchorMissingHref)).To(BeTrue())
			var d *mdx.Diagnostic
			Expect(errors.As(err, &d)).To(BeTrue())
			Expect(d.Path).To(Equal("docs/intro.md"))
			Expect(d.Line).To(Equal(3))
			Expect(writer.WriteCallCount()).To(Equal(0))
		})
	})
	When("writing fails", func() {
		BeforeEach(func() {
			writer.WriteReturns(errors.New("fake_write_err"))
		})
		It("returns the error", func() {
			Expect(err).To(MatchError(ContainSubstring("writing docs/intro.astro failed: fake_write_err")))
		})
	})
	When("the context is canceled", func() {
		BeforeEach(func() {
			var cancel context.CancelFunc
			ctx, cancel = context.WithCancel(context.Background())
			cancel()
		})
		It("does nothing", func() {
			Expect(err).To(MatchError(context.Canceled))
			Expect(fakeOs.ReadFileCallCount()).To(Equal(0))
		})
	})
	When("a dump writer is set", func() {
		BeforeEach(func() {
			dump = &bytes.Buffer{}
		})
		It("dumps the document model", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(dump.String()).To(HavePrefix("# docs/intro.md\n"))
			Expect(dump.String()).To(ContainSubstring("Intro"))
		})
	})
	When("a cache is set", func() {
		BeforeEach(func() {
			cache = &memCache{entries: map[string][]byte{}}
		})
		It("stores the page", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(cache.entries).To(HaveLen(1))
			_, _, content, _ := writer.WriteArgsForCall(0)
			for _, page := range cache.entries {
				Expect(page).To(Equal(content))
			}
		})
		It("writes the stored page on the next compile of the same source", func() {
			for k := range cache.entries {
				cache.entries[k] = []byte("cached")
			}
			Expect(worker.Compile(ctx, task)).To(Succeed())
			Expect(writer.WriteCallCount()).To(Equal(2))
			_, _, content, res := writer.WriteArgsForCall(1)
			Expect(string(content)).To(Equal("cached"))
			Expect(res).To(BeNil())
		})
		It("compiles again when the source changed", func() {
			fakeOs.ReadFileReturns([]byte("# Changed\n"), nil)
			Expect(worker.Compile(ctx, task)).To(Succeed())
			Expect(cache.entries).To(HaveLen(2))
			_, _, content, _ := writer.WriteArgsForCall(1)
			Expect(string(content)).To(ContainSubstring(`id="changed"`))
		})
	})
})

var _ = Describe("Compile queue", func() {
	It("compiles the scheduled sources", func() {
		fakeOs := &osshimfakes.FakeOs{}
		fakeOs.ReadFileCalls(func(name string) ([]byte, error) {
			if name == "broken.md" {
				return []byte("[x]()\n"), nil
			}
			return []byte("# " + name + "\n"), nil
		})
		writer := &writersfakes.FakeWriter{}
		wg := &sync.WaitGroup{}
		scheduler, queue, err := compiler.New(2, false, wg, compiler.NewWorker(fakeOs, writer, nil, compiler.Options{Destination: "out"}, nil))
		Expect(err).NotTo(HaveOccurred())
		queue.Start(context.Background())
		Expect(scheduler.Schedule("a.md", "")).To(BeTrue())
		Expect(scheduler.Schedule("broken.md", "")).To(BeTrue())
		Expect(scheduler.Schedule("b.md", "")).To(BeTrue())
		wg.Wait()
		queue.Stop()

		Expect(queue.GetProcessedTasksCount()).To(Equal(3))
		Expect(writer.WriteCallCount()).To(Equal(2))
		var names []string
		for i := 0; i < writer.WriteCallCount(); i++ {
			name, _, _, _ := writer.WriteArgsForCall(i)
			names = append(names, name)
		}
		sort.Strings(names)
		Expect(names).To(Equal([]string{"a.astro", "b.astro"}))
		Expect(queue.GetErrorList()).NotTo(BeNil())
		Expect(errors.Is(queue.GetErrorList().Errors[0], mdx.ErrAnchorMissingHref)).To(BeTrue())
	})
	It("logs errors instead of collecting them when reporting", func() {
		fakeOs := &osshimfakes.FakeOs{}
		fakeOs.ReadFileReturns([]byte("[x]()\n"), nil)
		wg := &sync.WaitGroup{}
		scheduler, queue, err := compiler.New(1, false, wg, compiler.NewWorker(fakeOs, &writersfakes.FakeWriter{}, nil, compiler.Options{ReportErrors: true}, nil))
		Expect(err).NotTo(HaveOccurred())
		queue.Start(context.Background())
		Expect(scheduler.Schedule("broken.md", "")).To(BeTrue())
		wg.Wait()
		queue.Stop()

		Expect(queue.GetProcessedTasksCount()).To(Equal(1))
		Expect(queue.GetErrorList().ErrorOrNil()).To(BeNil())
	})
	It("switches to reporting errors while running", func() {
		fakeOs := &osshimfakes.FakeOs{}
		fakeOs.ReadFileReturns([]byte("[x]()\n"), nil)
		worker := compiler.NewWorker(fakeOs, &writersfakes.FakeWriter{}, nil, compiler.Options{}, nil)
		wg := &sync.WaitGroup{}
		scheduler, queue, err := compiler.New(1, false, wg, worker)
		Expect(err).NotTo(HaveOccurred())
		queue.Start(context.Background())
		Expect(scheduler.Schedule("broken.md", "")).To(BeTrue())
		wg.Wait()
		worker.ReportErrors(true)
		Expect(scheduler.Schedule("broken.md", "run")).To(BeTrue())
		wg.Wait()
		queue.Stop()

		Expect(queue.GetProcessedTasksCount()).To(Equal(2))
		Expect(queue.GetErrorList().Errors).To(HaveLen(1))
	})
	It("rejects a nil worker", func() {
		_, _, err := compiler.New(1, false, &sync.WaitGroup{}, nil)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ListSources", func() {
	var dir string
	BeforeEach(func() {
		dir = filepath.Join(os.TempDir(), fmt.Sprintf("sources%s", uuid.New().String()))
		for _, f := range []string{"a.md", "b.mdx", "c.txt", "sub/d.MD", ".hidden/e.md"} {
			p := filepath.Join(dir, f)
			Expect(os.MkdirAll(filepath.Dir(p), os.ModePerm)).To(Succeed())
			Expect(os.WriteFile(p, []byte("# x\n"), 0644)).To(Succeed())
		}
	})
	AfterEach(func() {
		Expect(os.RemoveAll(dir)).To(Succeed())
	})
	It("expands directories to their sources", func() {
		sources, err := compiler.ListSources(&osshim.OsShim{}, []string{dir, filepath.Join(dir, "c.txt"), filepath.Join(dir, "a.md")})
		Expect(err).NotTo(HaveOccurred())
		Expect(sources).To(Equal([]string{
			filepath.Join(dir, "a.md"),
			filepath.Join(dir, "b.mdx"),
			filepath.Join(dir, "sub", "d.MD"),
			filepath.Join(dir, "c.txt"),
		}))
	})
	It("reports missing inputs", func() {
		sources, err := compiler.ListSources(&osshim.OsShim{}, []string{filepath.Join(dir, "missing.md"), filepath.Join(dir, "a.md")})
		Expect(err).To(MatchError(ContainSubstring("missing.md does not exist")))
		Expect(sources).To(Equal([]string{filepath.Join(dir, "a.md")}))
	})
})
