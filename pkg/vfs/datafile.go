package vfs

import "io/fs"

// DataFile is a leaf node exposing positional byte access. The node
// stores no bytes itself: every read, write, and size query is
// delegated to the DataProvider the creating backend supplied.
type DataFile struct {
	fileBase
	provider DataProvider
}

// NewDataFile constructs an unattached data file node over the given
// provider. Backends call this when creating files; the node joins the
// tree when a directory handle inserts it with SetEntry.
func NewDataFile(mode fs.FileMode, backend BackendID, provider DataProvider) *DataFile {
	f := &DataFile{provider: provider}
	f.fileBase = newFileBase(KindDataFile, mode, backend)
	return f
}

func (f *DataFile) size() int64 { return f.provider.Size() }

// Locked blocks until the node's lock is acquired and returns a data
// file handle over it.
func (f *DataFile) Locked() *DataFileHandle {
	f.mu.Lock()
	return &DataFileHandle{Handle{file: f}}
}

// MaybeLocked attempts a non-blocking acquisition, returning
// (nil, false) under contention.
func (f *DataFile) MaybeLocked() (*DataFileHandle, bool) {
	if !f.mu.TryLock() {
		return nil, false
	}
	return &DataFileHandle{Handle{file: f}}, true
}

// DataFileHandle is the lock-holding accessor for a DataFile. It adds
// byte I/O to the base Handle accessors.
type DataFileHandle struct {
	Handle
}

func (h *DataFileHandle) dataFile() *DataFile { return h.file.(*DataFile) }

// Read fills p with bytes starting at offset off, delegating to the
// provider while the node's lock is held. The lock guarantees the
// node's own metadata cannot change mid-call; it does not serialize the
// provider's internal state, which the provider guards itself if
// needed. Provider errors (including io.EOF on short reads) pass
// through unmodified.
func (h *DataFileHandle) Read(p []byte, off int64) (int, error) {
	return h.dataFile().provider.ReadAt(p, off)
}

// Write stores p at offset off, delegating to the provider while the
// node's lock is held. Provider errors pass through unmodified.
func (h *DataFileHandle) Write(p []byte, off int64) (int, error) {
	return h.dataFile().provider.WriteAt(p, off)
}
