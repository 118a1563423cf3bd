package vfs

import (
	"io"

	"github.com/google/uuid"
)

// BackendID is an opaque, non-owning tag recording which storage
// provider created a node. The tree never interprets the value; it only
// carries it so a syscall layer or backend registry can route
// node-creation and I/O requests to the right provider.
type BackendID string

// NullBackend is the sentinel identity meaning "inherit from context":
// a node attached with NullBackend adopts the backend of the directory
// it is inserted into.
const NullBackend BackendID = ""

// NewBackendID mints a process-unique backend identity. Backend
// implementations call this once at registration time.
func NewBackendID() BackendID {
	return BackendID(uuid.NewString())
}

// DataProvider supplies the byte storage capability for a DataFile.
//
// Concrete providers (in-memory buffers, disk files, remote objects)
// live outside this package; the tree only requires positional reads
// and writes plus a size query. ReadAt and WriteAt follow the standard
// io contract, including short reads with io.EOF at end of data.
//
// The node's lock is held for the duration of each delegated call,
// which serializes the call against mutation of the node's own
// metadata. It does not serialize the provider's internal state across
// distinct nodes; a provider shared between nodes must synchronize
// itself.
type DataProvider interface {
	io.ReaderAt
	io.WriterAt

	// Size returns the current size of the stored data in bytes.
	Size() int64
}
