// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gardener/astroforge/pkg/workers/compiler/compilerfakes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFireSkipsSupersededTimers(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "intro.md")
	require.NoError(t, os.WriteFile(name, []byte("# Intro\n"), 0644))

	scheduler := &compilerfakes.FakeInterface{}
	w := New(scheduler, time.Hour)
	defer w.stopTimers()

	w.Notify(name)
	first := w.timers[name].gen
	w.Notify(name)
	latest := w.timers[name].gen
	require.NotEqual(t, first, latest)

	// the first timer fired before the second change stopped it
	w.fire(name, first)
	assert.Equal(t, 0, scheduler.ScheduleCallCount())
	assert.Contains(t, w.timers, name)

	w.fire(name, latest)
	require.Equal(t, 1, scheduler.ScheduleCallCount())
	source, _ := scheduler.ScheduleArgsForCall(0)
	assert.Equal(t, name, source)
	assert.NotContains(t, w.timers, name)

	w.fire(name, latest)
	assert.Equal(t, 1, scheduler.ScheduleCallCount())
}
