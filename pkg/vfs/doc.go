// Package vfs implements an in-process virtual filesystem tree: a
// hierarchy of data file, directory, and symlink nodes supporting
// concurrent, lock-safe mutation and path resolution.
//
// # Node Model
//
// Every node implements the File interface and is one of three closed
// kinds: *DataFile, *Directory, or *Symlink. Nodes carry permission
// bits, three timestamps (ctime, mtime, atime), an opaque backend
// identity, and a non-owning back-reference to their parent directory.
// A DataFile stores no bytes itself; reads and writes are delegated to
// a backend-supplied DataProvider.
//
// # Locking Protocol
//
// There is no global lock. Each node owns one re-entrant mutex guarding
// all of its mutable state, and concurrency safety comes entirely from
// these per-node locks. Callers acquire a node's lock by obtaining a
// Handle (Locked blocks, MaybeLocked never does) and release it with
// Unlock. Exactly two operations hold two locks at once: directory
// insert (SetEntry) and removal (UnlinkEntry), which lock the directory
// first and the affected child second. That order is a global API
// contract; no other call site may hold two node locks simultaneously.
//
// # Tree Invariants
//
// At any instant when no lock is held mid-mutation:
//
//   - a child appears in exactly one directory's entry mapping, and
//     that directory is exactly the child's parent;
//   - names are unique within a directory;
//   - the tree is acyclic (the parent pointer is a non-owning
//     back-edge, never a second ownership path).
//
// SetEntry enforces the first invariant by panicking when the inserted
// node already has a parent: attaching an attached node is a caller
// bug, not a recoverable condition.
//
// # Path Resolution
//
// SplitPath turns a path string into components (a leading "/"
// component marks an absolute path). A Resolver, configured with
// externally supplied root and working directories, walks components
// with GetDir and GetParsedPath. GetParsedPath distinguishes "parent
// resolved, leaf absent" (a valid result used by create-type
// operations) from resolution failure (an error), so lookup and create
// flows share one walking routine.
//
// # Errors
//
// Resolution and I/O failures are reported as *TreeError values with a
// POSIX-style ErrorCode, never as panics. Panics are reserved for
// caller contract violations (wrong-kind checked casts, inserting an
// attached node, unlinking a missing name).
package vfs
