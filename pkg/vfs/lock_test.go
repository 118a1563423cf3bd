package vfs

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReentrantMutexSameGoroutine(t *testing.T) {
	var m reentrantMutex

	m.Lock()
	m.Lock() // re-entry must not deadlock
	assert.True(t, m.TryLock(), "TryLock by the owner re-enters")
	m.Unlock()
	m.Unlock()
	m.Unlock()

	// Fully released: another goroutine can take it.
	acquired := make(chan bool)
	go func() {
		ok := m.TryLock()
		if ok {
			m.Unlock()
		}
		acquired <- ok
	}()
	assert.True(t, <-acquired)
}

func TestReentrantMutexContention(t *testing.T) {
	var m reentrantMutex
	m.Lock()

	probe := make(chan bool)
	go func() { probe <- m.TryLock() }()
	assert.False(t, <-probe, "TryLock from another goroutine must fail while held")

	m.Unlock()

	go func() {
		ok := m.TryLock()
		if ok {
			m.Unlock()
		}
		probe <- ok
	}()
	assert.True(t, <-probe, "TryLock must succeed after release")
}

func TestReentrantMutexUnlockByNonOwnerPanics(t *testing.T) {
	var m reentrantMutex
	m.Lock()
	defer m.Unlock()

	panicked := make(chan bool)
	go func() {
		defer func() { panicked <- recover() != nil }()
		m.Unlock()
	}()
	assert.True(t, <-panicked)
}

func TestReentrantMutexReleaseOnlyAtDepthZero(t *testing.T) {
	var m reentrantMutex
	m.Lock()
	m.Lock()
	m.Unlock()

	// One hold remains; other goroutines must still be excluded.
	probe := make(chan bool)
	go func() { probe <- m.TryLock() }()
	assert.False(t, <-probe)

	m.Unlock()
}

func TestMaybeLockedNeverBlocks(t *testing.T) {
	d := NewDirectory(0o755, NewBackendID())

	// Hold the lock on another goroutine for the duration.
	held := make(chan *DirectoryHandle)
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h := d.Locked()
		held <- h
		<-release
		h.Unlock()
	}()
	<-held

	start := time.Now()
	h, ok := d.MaybeLocked()
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.Nil(t, h)
	assert.Less(t, elapsed, time.Second, "MaybeLocked must return without waiting")

	close(release)
	wg.Wait()

	h, ok = d.MaybeLocked()
	require.True(t, ok)
	h.Unlock()
}

func TestLockFileGeneric(t *testing.T) {
	s := NewSymlink(0o777, NewBackendID(), "t")

	h := LockFile(s)
	assert.Same(t, File(s), h.File())
	h.Unlock()

	h, ok := TryLockFile(s)
	require.True(t, ok)

	probe := make(chan bool)
	go func() {
		_, ok := TryLockFile(s)
		probe <- ok
	}()
	assert.False(t, <-probe)
	h.Unlock()
}

func TestLockIsPerNode(t *testing.T) {
	d1 := NewDirectory(0o755, NewBackendID())
	d2 := NewDirectory(0o755, NewBackendID())

	h1 := d1.Locked()
	defer h1.Unlock()

	// Holding d1 must not contend with d2, even from another goroutine.
	probe := make(chan bool)
	go func() {
		h2, ok := d2.MaybeLocked()
		if ok {
			h2.Unlock()
		}
		probe <- ok
	}()
	assert.True(t, <-probe)
}
