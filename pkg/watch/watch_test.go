// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package watch_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gardener/astroforge/pkg/watch"
	"github.com/gardener/astroforge/pkg/workers/compiler/compilerfakes"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Watcher", func() {
	var (
		dir       string
		scheduler *compilerfakes.FakeInterface
		watcher   *watch.Watcher
	)
	touch := func(name string) string {
		p := filepath.Join(dir, name)
		Expect(os.MkdirAll(filepath.Dir(p), os.ModePerm)).To(Succeed())
		Expect(os.WriteFile(p, []byte(fmt.Sprintf("# %s\n", time.Now())), 0644)).To(Succeed())
		return p
	}
	scheduled := func() []string {
		var names []string
		for i := 0; i < scheduler.ScheduleCallCount(); i++ {
			name, _ := scheduler.ScheduleArgsForCall(i)
			names = append(names, name)
		}
		return names
	}
	BeforeEach(func() {
		dir = filepath.Join(os.TempDir(), fmt.Sprintf("watch%s", uuid.New().String()))
		Expect(os.MkdirAll(dir, os.ModePerm)).To(Succeed())
		scheduler = &compilerfakes.FakeInterface{}
		scheduler.ScheduleReturns(true)
		watcher = watch.New(scheduler, 50*time.Millisecond)
	})
	AfterEach(func() {
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	Describe("Notify", func() {
		It("collapses a burst of changes to one compile", func() {
			a := touch("a.md")
			for i := 0; i < 5; i++ {
				watcher.Notify(a)
				time.Sleep(10 * time.Millisecond)
			}
			Eventually(scheduler.ScheduleCallCount).Should(Equal(1))
			Consistently(scheduler.ScheduleCallCount, 200*time.Millisecond).Should(Equal(1))
			name, runID := scheduler.ScheduleArgsForCall(0)
			Expect(name).To(Equal(a))
			_, err := uuid.Parse(runID)
			Expect(err).NotTo(HaveOccurred())
		})
		It("debounces files independently", func() {
			a := touch("a.md")
			b := touch("b.mdx")
			watcher.Notify(a)
			watcher.Notify(b)
			watcher.Notify(a)
			Eventually(scheduled).Should(ConsistOf(a, b))
			_, first := scheduler.ScheduleArgsForCall(0)
			_, second := scheduler.ScheduleArgsForCall(1)
			Expect(first).NotTo(Equal(second))
		})
		It("ignores files that are not sources", func() {
			watcher.Notify(touch("c.txt"))
			Consistently(scheduler.ScheduleCallCount, 200*time.Millisecond).Should(Equal(0))
		})
		It("ignores files removed before the debounce period ended", func() {
			a := touch("a.md")
			watcher.Notify(a)
			Expect(os.Remove(a)).To(Succeed())
			Consistently(scheduler.ScheduleCallCount, 200*time.Millisecond).Should(Equal(0))
		})
	})

	Describe("Run", func() {
		var (
			ctx    context.Context
			cancel context.CancelFunc
			done   chan error
		)
		start := func(inputs ...string) {
			ctx, cancel = context.WithCancel(context.Background())
			done = make(chan error, 1)
			go func() {
				defer GinkgoRecover()
				done <- watcher.Run(ctx, inputs)
			}()
		}
		AfterEach(func() {
			if cancel != nil {
				cancel()
				Eventually(done).Should(Receive(BeNil()))
				cancel = nil
			}
		})
		It("compiles changed sources of a watched directory", func() {
			start(dir)
			Eventually(func() []string {
				touch("page.md")
				return scheduled()
			}, 3*time.Second, 100*time.Millisecond).Should(ContainElement(filepath.Join(dir, "page.md")))
		})
		It("watches directories created while running", func() {
			start(dir)
			Eventually(func() []string {
				touch("sub/nested.md")
				return scheduled()
			}, 3*time.Second, 100*time.Millisecond).Should(ContainElement(filepath.Join(dir, "sub", "nested.md")))
		})
		It("compiles an explicit input whatever its extension", func() {
			notes := touch("notes.txt")
			start(notes)
			Eventually(func() []string {
				touch("notes.txt")
				touch("other.txt")
				return scheduled()
			}, 3*time.Second, 100*time.Millisecond).Should(ContainElement(notes))
			Expect(scheduled()).NotTo(ContainElement(filepath.Join(dir, "other.txt")))
		})
		It("fails on a missing input", func() {
			err := watcher.Run(context.Background(), []string{filepath.Join(dir, "missing")})
			Expect(err).To(MatchError(ContainSubstring("could not watch")))
		})
	})
})
