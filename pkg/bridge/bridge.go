// Package bridge lets synchronous callers wait for work completed by
// another execution context. A Bridge owns a dedicated worker goroutine
// and a single work slot: any number of goroutines may Invoke work, one
// unit at a time, and each Invoke blocks its caller until that unit,
// and only that unit, signals completion.
//
// The intended consumers are storage backends whose read/write/size
// implementations must call out to an asynchronous host operation from
// a synchronous call site: the work function starts the asynchronous
// operation and arranges for its completion callback to call resume,
// which releases the blocked invoker.
package bridge

import (
	"sync"
	"time"

	"github.com/yihonglyu/treefs/pkg/metrics"
)

// workerState is the bridge's state machine. New work may be submitted
// only in stateWaiting.
type workerState int

const (
	stateUninitialized workerState = iota
	stateWaiting
	stateWorkAvailable
	stateShouldExit
)

// Work is one unit of work for the bridge. It runs on the worker
// goroutine and receives a resume callback that it must arrange to be
// called exactly once (immediately, or from an arbitrary later point
// in any goroutine) when the work's result is ready. This is a
// contract on the work function, not enforced internally: work that
// never resumes hangs its invoker permanently (there is deliberately no
// timeout or cancellation), and resuming twice corrupts the completion
// accounting.
type Work func(resume func())

// Bridge is the sync/async bridge. Create one with New and release it
// with Close. All methods are safe for concurrent use.
//
// Invokers never wake on another invoker's completion: each Invoke
// waits on the monotonically increasing completion counter, not on the
// state machine alone, so a second submission racing in cannot cause a
// lost or stale wakeup.
type Bridge struct {
	mu   sync.Mutex
	cond *sync.Cond
	done chan struct{}

	state workerState

	// workCount increments once per completed work unit. Invokers
	// snapshot it at submission and wait for it to move past the
	// snapshot.
	workCount uint64

	// invokers counts goroutines currently inside Invoke. Close
	// asserts on it: tearing down with an invocation outstanding is a
	// fatal misuse.
	invokers int

	// work is the single pending unit, valid only in stateWorkAvailable.
	work Work

	// resumed flags completion of the in-flight unit so the worker
	// knows when to re-arm.
	resumed bool

	metrics metrics.BridgeMetrics
}

// New spins up the worker goroutine and blocks until it is ready to
// accept work. The metrics sink may be nil.
func New(m metrics.BridgeMetrics) *Bridge {
	b := &Bridge{done: make(chan struct{}), metrics: m}
	b.cond = sync.NewCond(&b.mu)

	// Hold the lock across the spawn so the worker's first broadcast
	// cannot fire before we are waiting for it, and so no other
	// goroutine can submit work to a worker that is not ready.
	b.mu.Lock()
	go b.workerLoop()
	for b.state != stateWaiting {
		b.cond.Wait()
	}
	b.mu.Unlock()
	return b
}

// Invoke runs work on the worker goroutine and blocks until its resume
// callback has been called. It first blocks until the worker is free
// (another invoker may have just won the slot), installs the work,
// wakes the worker, and then waits for the completion counter to move
// past its submission snapshot.
func (b *Bridge) Invoke(work Work) {
	start := time.Now()

	b.mu.Lock()
	b.invokers++

	for b.state != stateWaiting {
		if b.state == stateShouldExit {
			panic("bridge: Invoke on a closed bridge")
		}
		b.cond.Wait()
	}

	installed := time.Now()
	id := b.workCount
	b.work = work
	b.state = stateWorkAvailable

	// Broadcast rather than signal: other invokers may be waiting for
	// the slot as well, and the worker must be woken regardless.
	b.cond.Broadcast()
	for b.workCount <= id {
		b.cond.Wait()
	}

	b.invokers--
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.RecordInvocation(installed.Sub(start), time.Since(installed))
	}
}

// Close tears the bridge down: it asserts that no invocation is
// outstanding (closing with one is a fatal misuse), waits for the
// worker to finish re-arming after the last completion, signals exit,
// and joins the worker goroutine. The bridge must not be used after
// Close.
func (b *Bridge) Close() {
	b.mu.Lock()
	if b.invokers > 0 {
		panic("bridge: Close with outstanding invocations")
	}
	for b.state != stateWaiting {
		if b.state == stateShouldExit {
			b.mu.Unlock()
			panic("bridge: Close called twice")
		}
		b.cond.Wait()
	}
	b.state = stateShouldExit
	b.cond.Broadcast()
	b.mu.Unlock()

	<-b.done
}

// workerLoop is the dedicated worker: wait for a submission or an exit
// request; run the submitted work; wait for its resume; re-arm.
func (b *Bridge) workerLoop() {
	b.mu.Lock()
	for {
		b.state = stateWaiting
		// Wake the constructor on the first pass and, on later passes,
		// any invokers blocked waiting for a free slot.
		b.cond.Broadcast()
		for b.state == stateWaiting {
			b.cond.Wait()
		}

		if b.state == stateShouldExit {
			b.mu.Unlock()
			close(b.done)
			return
		}

		work := b.work
		b.work = nil
		b.resumed = false
		b.mu.Unlock()

		// Run outside the lock: the work function may block, start
		// goroutines, or call resume synchronously before returning.
		work(b.resume)

		// Do not accept new work until this unit has resumed; at most
		// one work function is ever in flight on the worker.
		b.mu.Lock()
		for !b.resumed {
			b.cond.Wait()
		}
	}
}

// resume marks the in-flight unit complete. It may be called from any
// goroutine. Broadcast wakes every blocked invoker; each rechecks the
// counter against its own snapshot, so only the submitting invoker
// proceeds.
func (b *Bridge) resume() {
	b.mu.Lock()
	b.workCount++
	b.resumed = true
	b.cond.Broadcast()
	b.mu.Unlock()
}
