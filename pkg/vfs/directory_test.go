package vfs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yihonglyu/treefs/pkg/vfs/mem"
)

func TestSetEntryAndGetEntry(t *testing.T) {
	d := NewDirectory(0o755, NewBackendID())
	child := NewDataFile(0o644, NullBackend, mem.NewFile(nil))

	h := d.Locked()
	defer h.Unlock()

	assert.Nil(t, h.GetEntry("f"), "absent name yields nil, not an error")

	h.SetEntry("f", child)
	assert.Same(t, File(child), h.GetEntry("f"))
	assert.Equal(t, 1, h.NumEntries())

	ch := LockFile(child)
	assert.Same(t, d, ch.Parent(), "SetEntry must set the back-edge")
	ch.Unlock()
}

func TestSetEntryBackendInheritance(t *testing.T) {
	backend := NewBackendID()
	d := NewDirectory(0o755, backend)

	t.Run("null backend inherits", func(t *testing.T) {
		child := NewDataFile(0o644, NullBackend, mem.NewFile(nil))
		h := d.Locked()
		h.SetEntry("inherited", child)
		h.Unlock()
		assert.Equal(t, backend, child.Backend())
	})

	t.Run("explicit backend preserved", func(t *testing.T) {
		other := NewBackendID()
		child := NewDataFile(0o644, other, mem.NewFile(nil))
		h := d.Locked()
		h.SetEntry("explicit", child)
		h.Unlock()
		assert.Equal(t, other, child.Backend())
	})
}

func TestSetEntryPanics(t *testing.T) {
	t.Run("duplicate name", func(t *testing.T) {
		d := NewDirectory(0o755, NewBackendID())
		h := d.Locked()
		defer h.Unlock()
		h.SetEntry("f", NewDataFile(0o644, NullBackend, mem.NewFile(nil)))
		assert.Panics(t, func() {
			h.SetEntry("f", NewDataFile(0o644, NullBackend, mem.NewFile(nil)))
		})
	})

	t.Run("already attached node", func(t *testing.T) {
		d1 := NewDirectory(0o755, NewBackendID())
		d2 := NewDirectory(0o755, NewBackendID())
		child := NewDataFile(0o644, NullBackend, mem.NewFile(nil))

		h := d1.Locked()
		h.SetEntry("f", child)
		h.Unlock()

		h2 := d2.Locked()
		defer h2.Unlock()
		assert.Panics(t, func() { h2.SetEntry("g", child) })
	})
}

func TestUnlinkEntry(t *testing.T) {
	d := NewDirectory(0o755, NewBackendID())
	child := NewDataFile(0o644, NullBackend, mem.NewFile(nil))

	h := d.Locked()
	h.SetEntry("f", child)
	h.UnlinkEntry("f")

	assert.Nil(t, h.GetEntry("f"))
	assert.Equal(t, "", h.GetName(child), "reverse lookup finds nothing after unlink")
	assert.Equal(t, 0, h.NumEntries())
	h.Unlock()

	ch := LockFile(child)
	assert.Nil(t, ch.Parent(), "UnlinkEntry must clear the back-edge")
	ch.Unlock()
}

func TestUnlinkEntryMissingPanics(t *testing.T) {
	d := NewDirectory(0o755, NewBackendID())
	h := d.Locked()
	defer h.Unlock()
	assert.Panics(t, func() { h.UnlinkEntry("nope") })
}

func TestGetName(t *testing.T) {
	d := NewDirectory(0o755, NewBackendID())
	child := NewDataFile(0o644, NullBackend, mem.NewFile(nil))
	stranger := NewDataFile(0o644, NullBackend, mem.NewFile(nil))

	h := d.Locked()
	defer h.Unlock()
	h.SetEntry("f", child)

	assert.Equal(t, "f", h.GetName(child))
	assert.Equal(t, "", h.GetName(stranger), "non-child reverse lookup yields empty name")
}

func TestEntriesSorted(t *testing.T) {
	d := NewDirectory(0o755, NewBackendID())
	h := d.Locked()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		h.SetEntry(name, NewDataFile(0o644, NullBackend, mem.NewFile(nil)))
	}
	entries := h.Entries()
	h.Unlock()

	require.Len(t, entries, 3)
	assert.Equal(t, "alpha", entries[0].Name)
	assert.Equal(t, "mid", entries[1].Name)
	assert.Equal(t, "zeta", entries[2].Name)
}

func TestHandleAttributes(t *testing.T) {
	before := time.Now()
	d := NewDirectory(0o755, NewBackendID())
	after := time.Now()

	h := d.Locked()
	defer h.Unlock()

	assert.Equal(t, int64(DirSize), h.Size())

	mtime := h.Mtime()
	assert.False(t, mtime.Before(before))
	assert.False(t, mtime.After(after))
	assert.Equal(t, mtime, h.Ctime(), "creation stamps all three times identically")
	assert.Equal(t, mtime, h.Atime())

	h.SetMode(0o700)
	assert.Equal(t, uint32(0o700), uint32(h.Mode()))

	stamp := time.Unix(1234567890, 0)
	h.SetMtime(stamp)
	assert.Equal(t, stamp, h.Mtime())
}

func TestSymlinkNode(t *testing.T) {
	s := NewSymlink(0o777, NewBackendID(), "/a/b")

	assert.Equal(t, KindSymlink, s.Kind())
	assert.Equal(t, "/a/b", s.Target(), "target readable without holding the lock")

	h := s.Locked()
	assert.Equal(t, int64(len("/a/b")), h.Size())
	h.Unlock()
}
