package vfstest

import (
	"fmt"

	"github.com/yihonglyu/treefs/pkg/vfs"
	"github.com/yihonglyu/treefs/pkg/vfs/mem"
)

// NewRoot creates a root directory with conventional mode bits and a
// fresh backend identity.
func NewRoot() *vfs.Directory {
	return vfs.NewDirectory(0o755, vfs.NewBackendID())
}

// Mkdir creates a directory under parent and returns it. The child
// inherits the parent's backend.
func Mkdir(parent *vfs.Directory, name string) *vfs.Directory {
	child := vfs.NewDirectory(0o755, vfs.NullBackend)
	h := parent.Locked()
	h.SetEntry(name, child)
	h.Unlock()
	return child
}

// CreateFile creates a memory-backed data file under parent holding
// contents, and returns the node. The child inherits the parent's
// backend.
func CreateFile(parent *vfs.Directory, name string, contents []byte) *vfs.DataFile {
	child := vfs.NewDataFile(0o644, vfs.NullBackend, mem.NewFile(contents))
	h := parent.Locked()
	h.SetEntry(name, child)
	h.Unlock()
	return child
}

// Symlink creates a symlink under parent pointing at target.
func Symlink(parent *vfs.Directory, name, target string) *vfs.Symlink {
	child := vfs.NewSymlink(0o777, vfs.NullBackend, target)
	h := parent.Locked()
	h.SetEntry(name, child)
	h.Unlock()
	return child
}

// CheckInvariants walks the tree rooted at root and verifies the
// structural invariants: every listed child's parent is exactly the
// listing directory, the directory's reverse lookup agrees with the
// entry name, and no node is reached twice (acyclicity and unique
// listing). It returns the number of nodes visited.
func CheckInvariants(root *vfs.Directory) (int, error) {
	seen := make(map[uint64]bool)
	count := 0

	var walk func(d *vfs.Directory) error
	walk = func(d *vfs.Directory) error {
		if seen[d.Ino()] {
			return fmt.Errorf("directory %d reached twice", d.Ino())
		}
		seen[d.Ino()] = true
		count++

		h := d.Locked()
		entries := h.Entries()
		for _, e := range entries {
			if got := h.GetName(e.File); got != e.Name {
				h.Unlock()
				return fmt.Errorf("reverse lookup of %q returned %q", e.Name, got)
			}
		}
		h.Unlock()

		for _, e := range entries {
			ch := vfs.LockFile(e.File)
			parent := ch.Parent()
			ch.Unlock()
			if parent != d {
				return fmt.Errorf("child %q of directory %d has wrong parent", e.Name, d.Ino())
			}

			if sub := vfs.AsDirectory(e.File); sub != nil {
				if err := walk(sub); err != nil {
					return err
				}
				continue
			}
			if seen[e.File.Ino()] {
				return fmt.Errorf("node %d listed twice", e.File.Ino())
			}
			seen[e.File.Ino()] = true
			count++
		}
		return nil
	}

	if err := walk(root); err != nil {
		return 0, err
	}
	return count, nil
}
