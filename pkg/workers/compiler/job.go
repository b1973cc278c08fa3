// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package compiler

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate -header ../../../license_prefix.txt

import (
	"context"
	"fmt"
	"sync"

	"github.com/gardener/astroforge/pkg/workers/taskqueue"
	"k8s.io/klog/v2"
)

// Interface schedules compile tasks
//
//counterfeiter:generate . Interface
type Interface interface {
	// Schedule enqueues the compile of source, false is returned when the task is rejected
	Schedule(source string, runID string) bool
}

type scheduler struct {
	*Worker
	queue taskqueue.Interface
}

// New creates a compile queue with workerCount workers processing the tasks with worker
func New(workerCount int, failFast bool, wg *sync.WaitGroup, worker *Worker) (Interface, taskqueue.QueueController, error) {
	if worker == nil {
		return nil, nil, fmt.Errorf("compile worker is nil")
	}
	queue, err := taskqueue.New("Compile", workerCount, worker.execute, failFast, wg)
	if err != nil {
		return nil, nil, err
	}
	return &scheduler{worker, queue}, queue, nil
}

func (s *scheduler) Schedule(source string, runID string) bool {
	added := s.queue.AddTask(&Task{Source: source, RunID: runID})
	if !added {
		klog.Warningf("scheduling compile failed for %s\n", source)
	}
	return added
}

func (w *Worker) execute(ctx context.Context, task interface{}) error {
	t, ok := task.(*Task)
	if !ok {
		return fmt.Errorf("incorrect compile task: %T", task)
	}
	err := w.Compile(ctx, t)
	if err != nil && w.reportErrors.Load() {
		klog.Errorf("%s %v\n", runPrefix(t), err)
		return nil
	}
	return err
}
