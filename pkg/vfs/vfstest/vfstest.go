// Package vfstest provides fixtures for exercising code built on
// pkg/vfs: tree-building helpers, a structural invariant checker, and
// an always-failing DataProvider.
//
// These are testing and demo aids. Real storage backings plug in
// through the vfs.DataProvider interface; the in-memory one lives in
// pkg/vfs/mem.
package vfstest

// ErrFile is a DataProvider whose every operation fails with Err,
// for verifying that provider errors pass through the tree opaquely.
type ErrFile struct {
	Err error
}

func (f *ErrFile) ReadAt(p []byte, off int64) (int, error)  { return 0, f.Err }
func (f *ErrFile) WriteAt(p []byte, off int64) (int, error) { return 0, f.Err }
func (f *ErrFile) Size() int64                              { return 0 }
