// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package taskqueue_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gardener/astroforge/pkg/workers/taskqueue"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type task struct{}

var _ = Describe("Queue", func() {
	var (
		size     int
		failFast bool
		worker   taskqueue.WorkerFunc
		wg       *sync.WaitGroup
		ctx      context.Context
		queue    *taskqueue.Queue
		err      error
	)
	BeforeEach(func() {
		size = 2
		failFast = false
		worker = func(ctx context.Context, task interface{}) error {
			if task == nil {
				return errors.New("task is nil")
			}
			return nil
		}
		wg = &sync.WaitGroup{}
		ctx = context.Background()
	})
	JustBeforeEach(func() {
		queue, err = taskqueue.New("TestQueue", size, worker, failFast, wg)
	})
	When("creating a new queue", func() {
		It("creates a queue", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(queue).NotTo(BeNil())
			Expect(queue.Name()).To(Equal("TestQueue"))
		})
		Context("workers size is invalid", func() {
			BeforeEach(func() {
				size = 101
			})
			It("should error", func() {
				Expect(queue).To(BeNil())
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("101"))
			})
		})
		Context("worker func not set", func() {
			BeforeEach(func() {
				worker = nil
			})
			It("should error", func() {
				Expect(queue).To(BeNil())
				Expect(err).To(MatchError(ContainSubstring("worker func is nil")))
			})
		})
		Context("wait group not set", func() {
			BeforeEach(func() {
				wg = nil
			})
			It("should error", func() {
				Expect(queue).To(BeNil())
				Expect(err).To(MatchError(ContainSubstring("wait group is nil")))
			})
		})
	})
	When("adding tasks to a queue that is not started", func() {
		JustBeforeEach(func() {
			Expect(queue.AddTask(struct{}{})).To(BeTrue())
			Expect(queue.AddTask(nil)).To(BeTrue())
			Expect(queue.AddTask(&task{})).To(BeTrue())
		})
		It("buffers the tasks", func() {
			Expect(queue.GetWaitingTasksCount()).To(Equal(3))
			Expect(queue.GetProcessedTasksCount()).To(Equal(0))
		})
	})
	When("adding tasks to a started queue", func() {
		JustBeforeEach(func() {
			queue.Start(ctx)
			Expect(queue.AddTask(struct{}{})).To(BeTrue())
			Expect(queue.AddTask(nil)).To(BeTrue())
			Expect(queue.AddTask(&task{})).To(BeTrue())
			wg.Wait()
		})
		It("processes the tasks", func() {
			Expect(queue.GetProcessedTasksCount()).To(Equal(3))
			Expect(queue.GetWaitingTasksCount()).To(Equal(0))
		})
		It("reports errors during task processing", func() {
			Expect(queue.GetErrorList()).NotTo(BeNil())
			Expect(queue.GetErrorList().Unwrap()).To(Equal(errors.New("task is nil")))
		})
	})
	When("adding tasks to a stopped queue", func() {
		JustBeforeEach(func() {
			queue.Start(context.Background())
			queue.Stop()
		})
		It("skips the tasks", func() {
			Expect(queue.AddTask(struct{}{})).To(BeFalse())
			Expect(queue.AddTask(nil)).To(BeFalse())
			Expect(queue.AddTask(&task{})).To(BeFalse())
		})
	})
	When("fail fast is set", func() {
		BeforeEach(func() {
			failFast = true
		})
		JustBeforeEach(func() {
			Expect(queue.AddTask(nil)).To(BeTrue())
			queue.Start(ctx)
			wg.Wait()
		})
		It("skips the tasks after the first error", func() {
			Expect(queue.GetProcessedTasksCount()).To(Equal(1))
			Expect(queue.AddTask(struct{}{})).To(BeFalse())
			Expect(queue.AddTask(&task{})).To(BeFalse())
			Expect(queue.GetErrorList().Unwrap()).To(Equal(errors.New("task is nil")))
		})
	})
	When("the context is canceled", func() {
		var done context.CancelFunc
		BeforeEach(func() {
			ctx, done = context.WithCancel(context.Background())
		})
		JustBeforeEach(func() {
			queue.Start(ctx)
			done()
		})
		It("skips the tasks after cancellation", func() {
			Eventually(func() bool {
				return queue.AddTask(struct{}{})
			}).Should(BeFalse())
			Expect(queue.AddTask(nil)).To(BeFalse())
			wg.Wait()
		})
	})
	When("the worker func panics", func() {
		BeforeEach(func() {
			worker = func(ctx context.Context, task interface{}) error {
				if task == nil {
					panic("task is nil")
				}
				return nil
			}
		})
		JustBeforeEach(func() {
			queue.Start(ctx)
			Expect(queue.AddTask(struct{}{})).To(BeTrue())
			Expect(queue.AddTask(nil)).To(BeTrue())
			wg.Wait()
		})
		It("recovers the panic and reports an error", func() {
			Expect(queue.GetProcessedTasksCount()).To(Equal(2))
			Expect(queue.GetErrorList()).NotTo(BeNil())
			Expect(queue.GetErrorList().Error()).To(ContainSubstring("task is nil"))
		})
	})
})

var _ = Describe("Run", func() {
	var (
		wg       *sync.WaitGroup
		first    *taskqueue.Queue
		second   *taskqueue.Queue
		received int32
		run      *taskqueue.Run
	)
	BeforeEach(func() {
		var err error
		wg = &sync.WaitGroup{}
		received = 0
		second, err = taskqueue.New("Second", 1, func(ctx context.Context, task interface{}) error {
			atomic.AddInt32(&received, 1)
			if n := task.(int); n%2 == 0 {
				return fmt.Errorf("even %d", n)
			}
			return nil
		}, false, wg)
		Expect(err).NotTo(HaveOccurred())
		first, err = taskqueue.New("First", 3, func(ctx context.Context, task interface{}) error {
			if !second.AddTask(task) {
				return errors.New("rejected")
			}
			return nil
		}, false, wg)
		Expect(err).NotTo(HaveOccurred())
		run = taskqueue.NewRun(wg, first, second)
	})
	It("waits for tasks enqueued by other tasks", func() {
		run.Start(context.Background())
		for i := 1; i <= 4; i++ {
			Expect(first.AddTask(i)).To(BeTrue())
		}
		run.Wait()
		run.Stop()
		Expect(atomic.LoadInt32(&received)).To(Equal(int32(4)))
		errs := run.Errors()
		Expect(errs).NotTo(BeNil())
		Expect(errs.Errors).To(HaveLen(2))
		Expect(errs.Error()).To(ContainSubstring("even 2"))
		Expect(errs.Error()).To(ContainSubstring("even 4"))
	})
	It("counts the outcome of each queue", func() {
		run.Start(context.Background())
		for i := 1; i <= 4; i++ {
			Expect(first.AddTask(i)).To(BeTrue())
		}
		run.Wait()
		run.Stop()
		Expect(run.Stats()).To(Equal([]taskqueue.Stats{
			{Queue: "First", Processed: 4},
			{Queue: "Second", Processed: 4, Failed: 2},
		}))
		Expect(run.Stats()[1].Succeeded()).To(Equal(2))
		Expect(run.Stats()[1].String()).To(Equal("Second: 4 processed, 2 succeeded, 2 failed"))
	})
	It("has no errors when nothing failed", func() {
		run.Start(context.Background())
		Expect(first.AddTask(1)).To(BeTrue())
		run.Wait()
		run.Stop()
		Expect(run.Errors().ErrorOrNil()).To(BeNil())
	})
})

var _ = Describe("Stats", func() {
	It("formats large counts and pending tasks", func() {
		s := taskqueue.Stats{Queue: "Compile", Processed: 1200, Failed: 3, Pending: 5}
		Expect(s.String()).To(Equal("Compile: 1,200 processed, 1,197 succeeded, 3 failed, 5 pending"))
	})
})
