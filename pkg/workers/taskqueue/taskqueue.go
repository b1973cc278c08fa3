// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package taskqueue

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
	"k8s.io/klog/v2"
)

const (
	maxWorkerSize = 100
	minWorkerSize = 1
	bufferSize    = 200
)

// Interface is the producer side of a queue
type Interface interface {
	// AddTask enqueues a task, false is returned when the task is rejected
	AddTask(task interface{}) bool
}

// QueueController can Start/Stop the queue and see its status
type QueueController interface {
	// Start initializes the worker goroutines. The provided context ctx is passed to each task
	Start(ctx context.Context)
	// Stop stops the worker goroutines. It is triggered internally on context cancellation
	// or on the first error of a fail fast queue
	Stop()
	// GetErrorList returns the errors collected during task processing
	GetErrorList() *multierror.Error
	// GetProcessedTasksCount returns the processed tasks count
	GetProcessedTasksCount() int
	// GetWaitingTasksCount returns the waiting tasks count
	GetWaitingTasksCount() int
	// Name identifies the queue in log messages
	Name() string
}

// WorkerFunc processes a single task
type WorkerFunc func(ctx context.Context, task interface{}) error

// Queue feeds tasks to a fixed number of workers
type Queue struct {
	name     string
	size     int
	workFunc WorkerFunc
	// failFast rejects all further tasks once an error occurred
	failFast bool
	// wg is shared between the queues of one run, so that a task
	// enqueued by another task keeps the run alive
	wg      *sync.WaitGroup
	tasks   chan interface{}
	errList *multierror.Error

	startOnce, stopOnce sync.Once
	mux                 sync.Mutex
	stopped             bool
	processed           uint32
}

// New creates a queue with size workers
func New(name string, size int, workFunc WorkerFunc, failFast bool, wg *sync.WaitGroup) (*Queue, error) {
	if size < minWorkerSize || size > maxWorkerSize {
		return nil, fmt.Errorf("queue %s init fails: invalid workers size '%d', valid size interval is [%d,%d]", name, size, minWorkerSize, maxWorkerSize)
	}
	if workFunc == nil {
		return nil, fmt.Errorf("queue %s init fails: worker func is nil", name)
	}
	if wg == nil {
		return nil, fmt.Errorf("queue %s init fails: wait group is nil", name)
	}
	return &Queue{
		name:     name,
		size:     size,
		workFunc: workFunc,
		failFast: failFast,
		wg:       wg,
		tasks:    make(chan interface{}, bufferSize),
	}, nil
}

// Name returns the queue name
func (q *Queue) Name() string {
	return q.name
}

// Start starts the workers, subsequent calls are no-ops
func (q *Queue) Start(ctx context.Context) {
	q.startOnce.Do(func() {
		klog.V(6).Infof("starting %s queue with %d workers\n", q.name, q.size)
		for i := 0; i < q.size; i++ {
			go q.work(ctx)
		}
	})
}

// Stop closes the queue. Buffered tasks are drained without processing.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() {
		q.mux.Lock()
		defer q.mux.Unlock()
		klog.V(6).Infof("stopping %s queue\n", q.name)
		q.stopped = true
		close(q.tasks)
	})
}

// AddTask enqueues task and increments the wait group. It returns false
// when the queue is stopped or a fail fast queue has an error.
func (q *Queue) AddTask(task interface{}) bool {
	defer func() {
		if recover() != nil {
			// send on a queue closed in the meantime
			q.wg.Done()
			klog.V(6).Infof("recover adding task %v in closed %s queue\n", task, q.name)
		}
	}()
	if q.shouldProcess() {
		q.wg.Add(1)
		q.tasks <- task
		return true
	}
	klog.V(6).Infof("skipping task %v in %s queue\n", task, q.name)
	return false
}

// GetErrorList returns the errors collected during task processing
func (q *Queue) GetErrorList() *multierror.Error {
	q.mux.Lock()
	defer q.mux.Unlock()
	return q.errList
}

// GetProcessedTasksCount returns the processed tasks count
func (q *Queue) GetProcessedTasksCount() int {
	return int(atomic.LoadUint32(&q.processed))
}

// GetWaitingTasksCount returns the waiting tasks count
func (q *Queue) GetWaitingTasksCount() int {
	return len(q.tasks)
}

func (q *Queue) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			klog.V(6).Infof("context is done for %s queue\n", q.name)
			q.Stop()
			// drain, so that waiters on wg are released
			for range q.tasks {
				q.wg.Done()
			}
			return
		case t, ok := <-q.tasks:
			if !ok {
				klog.V(6).Infof("queue %s is stopped\n", q.name)
				return
			}
			q.run(ctx, t)
		}
	}
}

func (q *Queue) run(ctx context.Context, t interface{}) {
	defer q.wg.Done()
	defer atomic.AddUint32(&q.processed, 1)
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic in %s for task %v recovered: %v", q.name, t, r)
			klog.Warning(err.Error(), "\n", string(debug.Stack()))
			q.appendError(err)
		}
	}()
	if q.shouldProcess() {
		if err := q.workFunc(ctx, t); err != nil {
			q.appendError(err)
		}
	}
}

func (q *Queue) appendError(err error) {
	q.mux.Lock()
	defer q.mux.Unlock()

	q.errList = multierror.Append(q.errList, err)
	if q.failFast {
		go q.Stop()
	}
}

func (q *Queue) shouldProcess() bool {
	q.mux.Lock()
	defer q.mux.Unlock()

	return !q.stopped && !(q.failFast && q.errList != nil)
}
