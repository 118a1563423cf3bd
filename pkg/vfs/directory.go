package vfs

import (
	"fmt"
	"io/fs"
	"sort"
)

// DirSize is the fixed size reported for every directory, a nominal
// filesystem block. Directory size does not reflect the entry count.
const DirSize = 4096

// Directory is a container node mapping names to child nodes. Each
// entry reference is owning; the child's parent pointer is the matching
// non-owning back-edge.
type Directory struct {
	fileBase
	entries map[string]File
}

// NewDirectory constructs an unattached, empty directory node.
func NewDirectory(mode fs.FileMode, backend BackendID) *Directory {
	d := &Directory{entries: make(map[string]File)}
	d.fileBase = newFileBase(KindDirectory, mode, backend)
	return d
}

func (d *Directory) size() int64 { return DirSize }

// Locked blocks until the directory's lock is acquired and returns a
// directory handle over it.
func (d *Directory) Locked() *DirectoryHandle {
	d.mu.Lock()
	return &DirectoryHandle{Handle{file: d}}
}

// MaybeLocked attempts a non-blocking acquisition, returning
// (nil, false) under contention.
func (d *Directory) MaybeLocked() (*DirectoryHandle, bool) {
	if !d.mu.TryLock() {
		return nil, false
	}
	return &DirectoryHandle{Handle{file: d}}, true
}

// DirEntry is one (name, node) pair from a directory listing snapshot.
type DirEntry struct {
	Name string
	File File
}

// DirectoryHandle is the lock-holding accessor for a Directory. Entry
// mutation happens only through this handle, so the entry mapping is
// mutated only under the directory's own lock.
type DirectoryHandle struct {
	Handle
}

func (h *DirectoryHandle) dir() *Directory { return h.file.(*Directory) }

// GetEntry returns the child listed under name, or nil when the name
// is absent. A nil result is a valid state, not an error; create-type
// callers rely on it.
func (h *DirectoryHandle) GetEntry(name string) File {
	return h.dir().entries[name]
}

// SetEntry inserts node into the directory under name and sets the
// node's parent to this directory. The insert and the reparent are
// atomic under the combined lock scope: the directory's lock is already
// held through this handle, and SetEntry additionally locks node for
// the duration (the only two-lock operation besides UnlinkEntry, always
// directory first).
//
// Inserting a node that already has a parent is a caller bug and
// panics: a node may be listed by at most one directory, and movers
// must detach before attaching. Inserting over an existing name
// likewise panics, because silently displacing the old child would
// strand it with a stale parent pointer.
//
// A node attached with the NullBackend identity inherits this
// directory's backend.
func (h *DirectoryHandle) SetEntry(name string, node File) {
	d := h.dir()
	if _, exists := d.entries[name]; exists {
		panic(fmt.Sprintf("vfs: SetEntry: entry %q already exists", name))
	}

	child := LockFile(node)
	defer child.Unlock()

	if child.Parent() != nil {
		panic(fmt.Sprintf("vfs: SetEntry: node %d is already attached", node.Ino()))
	}

	d.entries[name] = node
	if node.Backend() == NullBackend {
		node.base().backend = d.backend
	}
	child.setParent(d)
}

// UnlinkEntry detaches the child listed under name: it clears the
// child's parent pointer and removes the mapping entry, atomically
// under the combined lock scope (directory first, then child).
//
// Calling UnlinkEntry with a name that is not present is a caller bug
// and panics; check GetEntry first.
func (h *DirectoryHandle) UnlinkEntry(name string) {
	d := h.dir()
	node, ok := d.entries[name]
	if !ok {
		panic(fmt.Sprintf("vfs: UnlinkEntry: no entry named %q", name))
	}

	child := LockFile(node)
	child.setParent(nil)
	delete(d.entries, name)
	child.Unlock()
}

// GetName reverse-looks-up the name under which target is listed,
// comparing node identity. It returns "" when target is not a current
// child. O(entries).
func (h *DirectoryHandle) GetName(target File) string {
	for name, node := range h.dir().entries {
		if node == target {
			return name
		}
	}
	return ""
}

// NumEntries returns the number of children.
func (h *DirectoryHandle) NumEntries() int {
	return len(h.dir().entries)
}

// Entries returns a name-ordered snapshot of the directory's children.
// The snapshot is a copy and stays safe to use after the directory's
// lock is released.
func (h *DirectoryHandle) Entries() []DirEntry {
	d := h.dir()
	out := make([]DirEntry, 0, len(d.entries))
	for name, node := range d.entries {
		out = append(out, DirEntry{Name: name, File: node})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
