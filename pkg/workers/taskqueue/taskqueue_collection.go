// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package taskqueue

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"k8s.io/klog/v2"
)

// Run groups the queues of one compile run. Tasks of all queues count on
// the same wait group, so a task may enqueue follow-up tasks in another queue
// and Wait still covers them.
type Run struct {
	waitGroup *sync.WaitGroup
	queues    []QueueController
}

// Stats is the outcome of the tasks of one queue
type Stats struct {
	Queue     string
	Processed int
	Failed    int
	Pending   int
}

// Succeeded is the count of tasks processed without error
func (s Stats) Succeeded() int {
	return max(s.Processed-s.Failed, 0)
}

func (s Stats) String() string {
	out := fmt.Sprintf("%s: %s processed, %s succeeded, %s failed",
		s.Queue, humanize.Comma(int64(s.Processed)), humanize.Comma(int64(s.Succeeded())), humanize.Comma(int64(s.Failed)))
	if s.Pending > 0 {
		out += fmt.Sprintf(", %s pending", humanize.Comma(int64(s.Pending)))
	}
	return out
}

// NewRun creates a run over queues sharing waitGroup
func NewRun(waitGroup *sync.WaitGroup, queues ...QueueController) *Run {
	return &Run{waitGroup, queues}
}

func (r *Run) Start(ctx context.Context) {
	for _, queue := range r.queues {
		queue.Start(ctx)
	}
}

func (r *Run) Stop() {
	for _, queue := range r.queues {
		queue.Stop()
	}
}

// Wait blocks until the tasks enqueued so far are processed
func (r *Run) Wait() {
	r.waitGroup.Wait()
}

// Errors merges the task errors of all queues
func (r *Run) Errors() *multierror.Error {
	var errors *multierror.Error
	for _, queue := range r.queues {
		if errs := queue.GetErrorList(); errs != nil {
			errors = multierror.Append(errors, errs.Errors...)
		}
	}
	return errors
}

// Stats returns the outcome of each queue
func (r *Run) Stats() []Stats {
	stats := make([]Stats, 0, len(r.queues))
	for _, queue := range r.queues {
		s := Stats{
			Queue:     queue.Name(),
			Processed: queue.GetProcessedTasksCount(),
			Pending:   queue.GetWaitingTasksCount(),
		}
		if errs := queue.GetErrorList(); errs != nil {
			s.Failed = len(errs.Errors)
		}
		stats = append(stats, s)
	}
	return stats
}

// LogStats logs the outcome of the run, one line per queue
func (r *Run) LogStats() {
	lines := make([]string, 0, len(r.queues))
	for _, s := range r.Stats() {
		lines = append(lines, s.String())
	}
	klog.Infof("%s\n", strings.Join(lines, "; "))
}
