package vfs

import "io/fs"

// Symlink is a leaf node holding a target path string. The resolver
// does not traverse symlinks: an intermediate symlink resolves as
// NotADirectory, leaving link-following policy to the layer above.
type Symlink struct {
	fileBase
	target string
}

// NewSymlink constructs an unattached symlink node pointing at target.
func NewSymlink(mode fs.FileMode, backend BackendID, target string) *Symlink {
	s := &Symlink{target: target}
	s.fileBase = newFileBase(KindSymlink, mode, backend)
	return s
}

// Target returns the link target. The target is immutable after
// construction, so no lock is required to read it.
func (s *Symlink) Target() string { return s.target }

// size reports the target length, matching stat semantics for links.
func (s *Symlink) size() int64 { return int64(len(s.target)) }

// Locked blocks until the node's lock is acquired.
func (s *Symlink) Locked() *Handle {
	s.mu.Lock()
	return &Handle{file: s}
}

// MaybeLocked attempts a non-blocking acquisition, returning
// (nil, false) under contention.
func (s *Symlink) MaybeLocked() (*Handle, bool) {
	if !s.mu.TryLock() {
		return nil, false
	}
	return &Handle{file: s}, true
}
