// Package proxy runs a DataProvider's operations on a dedicated worker
// via the sync/async bridge. It exists for providers that are bound to
// a particular execution context (an event loop, or a thread-affine
// host API) while their callers sit at synchronous
// call sites: every read, write, and size query is shipped to the
// bridge worker and the calling goroutine blocks until the work
// resumes.
package proxy

import (
	"github.com/yihonglyu/treefs/pkg/bridge"
	"github.com/yihonglyu/treefs/pkg/vfs"
)

// ProxiedFile is a vfs.DataProvider decorator that forwards every
// operation to the wrapped provider on the bridge's worker goroutine.
// The bridge serializes the forwarded operations: at most one runs at
// a time, regardless of how many nodes share the bridge.
type ProxiedFile struct {
	proxy *bridge.Bridge
	base  vfs.DataProvider
}

// New wraps base so its operations execute on b's worker. Several
// ProxiedFiles may share one bridge; they then share its worker and
// its serialization.
func New(base vfs.DataProvider, b *bridge.Bridge) *ProxiedFile {
	return &ProxiedFile{proxy: b, base: base}
}

// ReadAt forwards the read to the worker and blocks until it resumes.
func (f *ProxiedFile) ReadAt(p []byte, off int64) (n int, err error) {
	f.proxy.Invoke(func(resume func()) {
		n, err = f.base.ReadAt(p, off)
		resume()
	})
	return n, err
}

// WriteAt forwards the write to the worker and blocks until it resumes.
func (f *ProxiedFile) WriteAt(p []byte, off int64) (n int, err error) {
	f.proxy.Invoke(func(resume func()) {
		n, err = f.base.WriteAt(p, off)
		resume()
	})
	return n, err
}

// Size queries the wrapped provider's size on the worker.
func (f *ProxiedFile) Size() int64 {
	var size int64
	f.proxy.Invoke(func(resume func()) {
		size = f.base.Size()
		resume()
	})
	return size
}

// Release drops the wrapped provider from the worker's context. The
// ProxiedFile must not be used afterwards; the bridge itself stays
// open for other files.
func (f *ProxiedFile) Release() {
	f.proxy.Invoke(func(resume func()) {
		f.base = nil
		resume()
	})
}
