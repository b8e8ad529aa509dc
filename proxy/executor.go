// Package proxy drives the external susops CLI and reconciles its state.
// This file contains the Dispatcher and the asynchronous Executor.
package proxy

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/susops/susops-tray/common"
)

// Dispatcher serializes function execution onto a single scheduling
// context. The GTK shell implements it with glib.IdleAdd so callbacks land
// on the main loop; tests and headless callers use LoopDispatcher.
type Dispatcher interface {
	// Invoke schedules fn to run on the dispatch context. fn calls never
	// overlap; each runs to completion before the next starts.
	Invoke(fn func())
}

// LoopDispatcher is a channel-backed Dispatcher running callbacks on one
// dedicated goroutine.
type LoopDispatcher struct {
	queue     chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// NewLoopDispatcher creates a LoopDispatcher. Run must be called for
// queued functions to execute.
func NewLoopDispatcher() *LoopDispatcher {
	return &LoopDispatcher{
		queue: make(chan func(), 64),
		done:  make(chan struct{}),
	}
}

// Run consumes the queue until Close is called. It blocks; callers start
// it on the goroutine that should own all controller state.
func (d *LoopDispatcher) Run() {
	for {
		select {
		case <-d.done:
			return
		case fn := <-d.queue:
			fn()
		}
	}
}

// Invoke schedules fn for execution. After Close it is a no-op.
func (d *LoopDispatcher) Invoke(fn func()) {
	select {
	case <-d.done:
	case d.queue <- fn:
	}
}

// Close stops the dispatcher. Queued functions that have not started are
// dropped.
func (d *LoopDispatcher) Close() {
	d.closeOnce.Do(func() { close(d.done) })
}

// Executor runs CLI invocations on worker goroutines and delivers each
// result back through the Dispatcher. Callbacks arrive in completion
// order, not submission order; any number of invocations may be in flight.
// There is no cancellation: a caller that stops caring must make its
// callback a no-op.
type Executor struct {
	runner     *Runner
	dispatcher Dispatcher
}

// NewExecutor creates an Executor delivering callbacks through dispatcher.
func NewExecutor(runner *Runner, dispatcher Dispatcher) *Executor {
	return &Executor{runner: runner, dispatcher: dispatcher}
}

// Runner returns the underlying Runner for synchronous use (startup check,
// quit-time stop).
func (e *Executor) Runner() *Runner {
	return e.runner
}

// Go runs the susops CLI with args on a fresh worker goroutine and
// schedules callback(result) on the dispatch context once it completes.
func (e *Executor) Go(args []string, timeout time.Duration, callback func(Result)) {
	id := uuid.NewString()[:8]
	issuedAt := time.Now()
	common.LogDebug("exec %s: susops %s", id, strings.Join(args, " "))

	go func() {
		res := e.runner.Run(args, timeout)
		common.LogDebug("exec %s: rc=%d after %s",
			id, res.ExitCode, time.Since(issuedAt).Round(time.Millisecond))
		e.dispatcher.Invoke(func() { callback(res) })
	}()
}
