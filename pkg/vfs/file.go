package vfs

import (
	"fmt"
	"io/fs"
	"sync/atomic"
	"time"
)

// FileKind tags the closed set of node kinds in the tree.
type FileKind int

const (
	// KindDataFile is a leaf node whose bytes live in a DataProvider.
	KindDataFile FileKind = iota

	// KindDirectory is a container node mapping names to children.
	KindDirectory

	// KindSymlink is a leaf node holding a target path string.
	KindSymlink
)

// String returns the mnemonic name of the kind.
func (k FileKind) String() string {
	switch k {
	case KindDataFile:
		return "data file"
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// File is a single entry in the tree: a *DataFile, *Directory, or
// *Symlink. The kind set is closed; use the Kind method, the As*
// functions (nil on mismatch), or the Must* functions (panic on
// mismatch) for checked variant access.
//
// All mutable state behind a File is guarded by the node's own
// re-entrant lock; accessors that touch that state live on Handle,
// which can only be obtained by acquiring the lock.
type File interface {
	// Kind reports which of the three node kinds this is.
	Kind() FileKind

	// Ino returns the node's process-unique identity, standing in for
	// an inode number. It is assigned at construction and never reused
	// within the process.
	Ino() uint64

	// Backend returns the identity of the storage provider that owns
	// this node (NullBackend until the node inherits one on attach).
	Backend() BackendID

	// base gives package code access to the shared node state. Keeping
	// it unexported closes the kind set to this package.
	base() *fileBase

	// size reports the node's current size while its lock is held.
	size() int64
}

// inoCounter allocates process-unique node identities. The zero value
// is never handed out, so 0 can mean "no node" in external tables.
var inoCounter atomic.Uint64

// fileBase holds the state shared by every node kind. Concrete kinds
// embed it.
type fileBase struct {
	mu reentrantMutex

	kind    FileKind
	ino     uint64
	backend BackendID

	// Guarded by mu, as is parent below.
	mode  fs.FileMode
	ctime time.Time // last status change
	mtime time.Time // last content modification
	atime time.Time // last access

	// parent is a non-owning back-reference to the containing
	// directory, nil while the node is unattached or is a root. It is
	// mutated only by the two-node directory operations, paired with
	// the matching entry-map mutation under both locks.
	parent *Directory
}

// newFileBase initializes the shared state for a node being constructed
// by a backend. All three timestamps start at the construction time.
func newFileBase(kind FileKind, mode fs.FileMode, backend BackendID) fileBase {
	now := time.Now()
	return fileBase{
		kind:    kind,
		ino:     inoCounter.Add(1),
		backend: backend,
		mode:    mode,
		ctime:   now,
		mtime:   now,
		atime:   now,
	}
}

func (b *fileBase) Kind() FileKind     { return b.kind }
func (b *fileBase) Ino() uint64        { return b.ino }
func (b *fileBase) Backend() BackendID { return b.backend }
func (b *fileBase) base() *fileBase    { return b }

// IsDirectory reports whether f is a directory node.
func IsDirectory(f File) bool { return f != nil && f.Kind() == KindDirectory }

// IsDataFile reports whether f is a data file node.
func IsDataFile(f File) bool { return f != nil && f.Kind() == KindDataFile }

// IsSymlink reports whether f is a symlink node.
func IsSymlink(f File) bool { return f != nil && f.Kind() == KindSymlink }

// AsDirectory returns f as a *Directory, or nil when f is nil or a
// different kind. It never fails.
func AsDirectory(f File) *Directory {
	d, _ := f.(*Directory)
	return d
}

// AsDataFile returns f as a *DataFile, or nil when f is nil or a
// different kind. It never fails.
func AsDataFile(f File) *DataFile {
	df, _ := f.(*DataFile)
	return df
}

// AsSymlink returns f as a *Symlink, or nil when f is nil or a
// different kind. It never fails.
func AsSymlink(f File) *Symlink {
	s, _ := f.(*Symlink)
	return s
}

// MustDirectory returns f as a *Directory and panics when it is not
// one. Calling it with the wrong kind is a caller contract violation,
// not a runtime condition to recover from.
func MustDirectory(f File) *Directory {
	d, ok := f.(*Directory)
	if !ok {
		panic(fmt.Sprintf("vfs: node is %s, not directory", kindOf(f)))
	}
	return d
}

// MustDataFile returns f as a *DataFile and panics when it is not one.
func MustDataFile(f File) *DataFile {
	df, ok := f.(*DataFile)
	if !ok {
		panic(fmt.Sprintf("vfs: node is %s, not data file", kindOf(f)))
	}
	return df
}

// MustSymlink returns f as a *Symlink and panics when it is not one.
func MustSymlink(f File) *Symlink {
	s, ok := f.(*Symlink)
	if !ok {
		panic(fmt.Sprintf("vfs: node is %s, not symlink", kindOf(f)))
	}
	return s
}

func kindOf(f File) string {
	if f == nil {
		return "nil"
	}
	return f.Kind().String()
}

// LockFile blocks until f's lock is acquired and returns the generic
// Handle over it. Kind-specific callers normally use the Locked method
// on the concrete type instead, which returns the richer handle.
func LockFile(f File) *Handle {
	f.base().mu.Lock()
	return &Handle{file: f}
}

// TryLockFile attempts a non-blocking acquisition of f's lock. It
// returns (nil, false) on contention and never blocks, which makes it
// usable from diagnostics and other best-effort inspection paths.
func TryLockFile(f File) (*Handle, bool) {
	if !f.base().mu.TryLock() {
		return nil, false
	}
	return &Handle{file: f}, true
}
