// Package mem provides an in-memory DataProvider. It is the default
// storage backing for data files when no external backend is wired in.
package mem

import (
	"fmt"
	"io"
	"sync"
)

// File is a DataProvider backed by an in-memory byte slice. Writes
// past the current size zero-extend the data, and reads follow the
// io.ReaderAt contract (short reads at end of data return io.EOF).
//
// File synchronizes itself, so a single instance can safely back more
// than one node or be driven from multiple goroutines.
type File struct {
	mu   sync.Mutex
	data []byte
}

// NewFile creates a File holding a copy of initial.
func NewFile(initial []byte) *File {
	f := &File{}
	if len(initial) > 0 {
		f.data = append([]byte(nil), initial...)
	}
	return f
}

// ReadAt implements io.ReaderAt.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if off < 0 {
		return 0, fmt.Errorf("mem: negative read offset %d", off)
	}
	if off >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements io.WriterAt, zero-extending as needed.
func (f *File) WriteAt(p []byte, off int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if off < 0 {
		return 0, fmt.Errorf("mem: negative write offset %d", off)
	}
	if end := off + int64(len(p)); end > int64(len(f.data)) {
		grown := make([]byte, end)
		copy(grown, f.data)
		f.data = grown
	}
	return copy(f.data[off:], p), nil
}

// Size returns the current data length.
func (f *File) Size() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.data))
}

// Bytes returns a copy of the current contents.
func (f *File) Bytes() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]byte(nil), f.data...)
}
