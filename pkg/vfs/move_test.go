package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yihonglyu/treefs/pkg/vfs/mem"
)

func TestMoveRenameWithinDirectory(t *testing.T) {
	d := NewDirectory(0o755, NewBackendID())
	child := NewDataFile(0o644, NullBackend, mem.NewFile(nil))
	h := d.Locked()
	h.SetEntry("old", child)
	h.Unlock()

	require.NoError(t, Move(d, "old", d, "new"))

	h = d.Locked()
	assert.Nil(t, h.GetEntry("old"))
	assert.Same(t, File(child), h.GetEntry("new"))
	assert.Equal(t, 1, h.NumEntries())
	h.Unlock()

	ch := LockFile(child)
	assert.Same(t, d, ch.Parent())
	ch.Unlock()
}

func TestMoveAcrossDirectories(t *testing.T) {
	src := NewDirectory(0o755, NewBackendID())
	dst := NewDirectory(0o755, NewBackendID())
	child := NewDataFile(0o644, NullBackend, mem.NewFile(nil))
	h := src.Locked()
	h.SetEntry("f", child)
	h.Unlock()

	require.NoError(t, Move(src, "f", dst, "f"))

	h = src.Locked()
	assert.Equal(t, 0, h.NumEntries())
	h.Unlock()

	h = dst.Locked()
	assert.Same(t, File(child), h.GetEntry("f"))
	h.Unlock()

	ch := LockFile(child)
	assert.Same(t, dst, ch.Parent())
	ch.Unlock()
}

func TestMoveReplacesDestination(t *testing.T) {
	src := NewDirectory(0o755, NewBackendID())
	dst := NewDirectory(0o755, NewBackendID())
	moved := NewDataFile(0o644, NullBackend, mem.NewFile(nil))
	displaced := NewDataFile(0o644, NullBackend, mem.NewFile(nil))

	h := src.Locked()
	h.SetEntry("f", moved)
	h.Unlock()
	h = dst.Locked()
	h.SetEntry("f", displaced)
	h.Unlock()

	require.NoError(t, Move(src, "f", dst, "f"))

	h = dst.Locked()
	assert.Same(t, File(moved), h.GetEntry("f"))
	assert.Equal(t, 1, h.NumEntries())
	h.Unlock()

	// The displaced node is detached, not reparented somewhere stale.
	ch := LockFile(displaced)
	assert.Nil(t, ch.Parent())
	ch.Unlock()
}

func TestMoveMissingSource(t *testing.T) {
	src := NewDirectory(0o755, NewBackendID())
	dst := NewDirectory(0o755, NewBackendID())

	err := Move(src, "nope", dst, "f")
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrNoSuchEntry, code)
}

func TestMoveDirectoryKeepsSubtree(t *testing.T) {
	root := NewDirectory(0o755, NewBackendID())
	a := NewDirectory(0o755, NullBackend)
	b := NewDirectory(0o755, NullBackend)
	leaf := NewDataFile(0o644, NullBackend, mem.NewFile([]byte("x")))

	h := root.Locked()
	h.SetEntry("a", a)
	h.SetEntry("b", b)
	h.Unlock()
	h = a.Locked()
	h.SetEntry("leaf", leaf)
	h.Unlock()

	require.NoError(t, Move(root, "a", b, "a"))

	h = b.Locked()
	assert.Same(t, File(a), h.GetEntry("a"))
	h.Unlock()

	// The moved directory still lists its own children.
	h = a.Locked()
	assert.Same(t, File(leaf), h.GetEntry("leaf"))
	h.Unlock()
}
