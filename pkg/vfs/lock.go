package vfs

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// reentrantMutex is a mutual-exclusion lock that may be re-acquired by
// the goroutine that already holds it.
//
// Re-entrancy is required by the node locking protocol: a single
// logical operation may revisit the same node twice within one call
// chain (for example, a rename whose source and destination paths share
// a prefix locks the shared directory once per phase). The lock is
// released only when Unlock has been called once per successful Lock.
//
// depth is only ever touched by the goroutine that owns the lock, so it
// needs no synchronization of its own; owner is atomic because waiting
// goroutines read it while deciding whether they are re-entering.
type reentrantMutex struct {
	mu    sync.Mutex
	owner atomic.Int64
	depth int
}

// Lock blocks until the lock is held by the calling goroutine. If the
// caller already holds the lock, Lock returns immediately, increasing
// the hold depth.
func (m *reentrantMutex) Lock() {
	id := goroutineID()
	if m.owner.Load() == id {
		m.depth++
		return
	}
	m.mu.Lock()
	m.owner.Store(id)
	m.depth = 1
}

// TryLock attempts a non-blocking acquisition. It returns true when the
// lock was acquired (or re-entered) and false under contention. It
// never blocks, which makes it safe for diagnostics and other callers
// that must not wait.
func (m *reentrantMutex) TryLock() bool {
	id := goroutineID()
	if m.owner.Load() == id {
		m.depth++
		return true
	}
	if !m.mu.TryLock() {
		return false
	}
	m.owner.Store(id)
	m.depth = 1
	return true
}

// Unlock releases one hold on the lock. The lock becomes available to
// other goroutines once the depth returns to zero. Unlocking a mutex
// not held by the calling goroutine is a fatal caller bug.
func (m *reentrantMutex) Unlock() {
	if m.owner.Load() != goroutineID() {
		panic("vfs: unlock of a node lock not held by this goroutine")
	}
	m.depth--
	if m.depth == 0 {
		m.owner.Store(0)
		m.mu.Unlock()
	}
}

var goroutinePrefix = []byte("goroutine ")

// goroutineID returns the runtime ID of the calling goroutine, parsed
// from the first line of its stack trace ("goroutine N [status]:").
// The runtime does not expose the ID directly; this is the standard
// technique and costs one small stack dump per uncontended acquisition.
func goroutineID() int64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	line := bytes.TrimPrefix(buf[:n], goroutinePrefix)
	i := bytes.IndexByte(line, ' ')
	if i < 0 {
		panic(fmt.Sprintf("vfs: malformed goroutine header %q", buf[:n]))
	}
	id, err := strconv.ParseInt(string(line[:i]), 10, 64)
	if err != nil {
		panic(fmt.Sprintf("vfs: malformed goroutine id %q: %v", line[:i], err))
	}
	return id
}
