package vfs

import "errors"

// ErrorCode categorizes a tree operation failure.
//
// These are POSIX-style error categories. A syscall-emulation layer
// sitting on top of this package translates them to errno values; the
// tree itself never returns raw errno integers.
type ErrorCode int

const (
	// ErrNoSuchEntry indicates a path component does not exist.
	ErrNoSuchEntry ErrorCode = iota

	// ErrNotADirectory indicates a path walk hit a non-directory where
	// a directory was required.
	ErrNotADirectory

	// ErrInvalidArgument indicates invalid parameters, including a path
	// walk that traverses a forbidden ancestor (e.g. an operation that
	// would make a directory its own descendant).
	ErrInvalidArgument

	// ErrAlreadyExists indicates a directory entry with the name
	// already exists.
	ErrAlreadyExists

	// ErrBadDescriptor indicates an operation on an invalid or stale
	// file reference.
	ErrBadDescriptor

	// ErrIsADirectory indicates an operation expected a data file but
	// got a directory.
	ErrIsADirectory
)

// String returns the mnemonic name of the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrNoSuchEntry:
		return "NoSuchEntry"
	case ErrNotADirectory:
		return "NotADirectory"
	case ErrInvalidArgument:
		return "InvalidArgument"
	case ErrAlreadyExists:
		return "AlreadyExists"
	case ErrBadDescriptor:
		return "BadDescriptor"
	case ErrIsADirectory:
		return "IsADirectory"
	default:
		return "Unknown"
	}
}

// TreeError is a categorized failure from a tree or resolver operation.
//
// Backend I/O errors are not wrapped in TreeError: a DataProvider's
// errors pass through DataFileHandle.Read/Write opaquely so the backend
// keeps full control over its own error surface.
type TreeError struct {
	// Code is the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the path component or path related to the error, when
	// applicable. It exists for debugging and error reporting.
	Path string
}

// Error implements the error interface.
func (e *TreeError) Error() string {
	if e.Path != "" {
		return e.Message + ": " + e.Path
	}
	return e.Message
}

// NewNoSuchEntry returns a TreeError for a missing path component.
func NewNoSuchEntry(path string) *TreeError {
	return &TreeError{Code: ErrNoSuchEntry, Message: "no such entry", Path: path}
}

// NewNotADirectory returns a TreeError for a non-directory intermediate.
func NewNotADirectory(path string) *TreeError {
	return &TreeError{Code: ErrNotADirectory, Message: "not a directory", Path: path}
}

// NewInvalidArgument returns a TreeError for an invalid parameter or a
// forbidden-ancestor traversal.
func NewInvalidArgument(path string) *TreeError {
	return &TreeError{Code: ErrInvalidArgument, Message: "invalid argument", Path: path}
}

// NewAlreadyExists returns a TreeError for a duplicate entry name.
func NewAlreadyExists(path string) *TreeError {
	return &TreeError{Code: ErrAlreadyExists, Message: "entry already exists", Path: path}
}

// NewBadDescriptor returns a TreeError for an invalid file reference.
func NewBadDescriptor(path string) *TreeError {
	return &TreeError{Code: ErrBadDescriptor, Message: "bad file descriptor", Path: path}
}

// NewIsADirectory returns a TreeError for a directory where a data file
// was expected.
func NewIsADirectory(path string) *TreeError {
	return &TreeError{Code: ErrIsADirectory, Message: "is a directory", Path: path}
}

// CodeOf extracts the ErrorCode from an error, unwrapping as needed.
// The second result reports whether err (or anything it wraps) is a
// *TreeError.
func CodeOf(err error) (ErrorCode, bool) {
	var te *TreeError
	if errors.As(err, &te) {
		return te.Code, true
	}
	return 0, false
}
