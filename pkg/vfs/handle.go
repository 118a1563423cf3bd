package vfs

import (
	"io/fs"
	"time"
)

// Handle is a scoped, lock-holding accessor for a node. It is obtained
// by acquiring the node's lock (Locked, MaybeLocked, LockFile) and is
// valid until Unlock is called; every accessor assumes the lock is
// still held. Handles are transient and must not be retained or shared
// across goroutines.
type Handle struct {
	file File
}

// Unlock releases the node's lock. The Handle must not be used
// afterwards.
func (h *Handle) Unlock() {
	h.file.base().mu.Unlock()
}

// File returns the underlying node without affecting the lock. The
// returned reference outlives the Handle and may be stored; accessing
// its guarded state later requires taking a new Handle.
func (h *Handle) File() File { return h.file }

// Size returns the node's current size in bytes: the fixed directory
// block size for directories, the provider-reported size for data
// files, and the target length for symlinks.
func (h *Handle) Size() int64 { return h.file.size() }

// Mode returns the node's permission bits.
func (h *Handle) Mode() fs.FileMode { return h.file.base().mode }

// SetMode replaces the node's permission bits.
func (h *Handle) SetMode(mode fs.FileMode) { h.file.base().mode = mode }

// Ctime returns the time of the last status change.
func (h *Handle) Ctime() time.Time { return h.file.base().ctime }

// SetCtime records a status change time.
func (h *Handle) SetCtime(t time.Time) { h.file.base().ctime = t }

// Mtime returns the time of the last content modification.
func (h *Handle) Mtime() time.Time { return h.file.base().mtime }

// SetMtime records a content modification time.
func (h *Handle) SetMtime(t time.Time) { h.file.base().mtime = t }

// Atime returns the time of the last access.
func (h *Handle) Atime() time.Time { return h.file.base().atime }

// SetAtime records an access time.
func (h *Handle) SetAtime(t time.Time) { h.file.base().atime = t }

// Parent returns the directory currently listing this node, or nil
// while the node is unattached or is a root.
func (h *Handle) Parent() *Directory { return h.file.base().parent }

// setParent is the raw back-reference mutation. It is called only by
// SetEntry and UnlinkEntry, paired with the matching entry-map change
// under the two-lock protocol; nothing else may call it.
func (h *Handle) setParent(parent *Directory) {
	h.file.base().parent = parent
}
