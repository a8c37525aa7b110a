package storage

import (
	"context"
	"io"
)

// OutputStream is a resource being created. Handles seek back to the start
// to patch the size prefix before closing the stream.
type OutputStream interface {
	io.Writer
	io.Seeker
	io.Closer
}

// Backend is a physical store of named resources.
//
// Resource names are slash-separated and relative to the backend's root.
type Backend interface {
	// ReadResource returns the raw bytes of a resource or an error matching
	// ErrNotFound. The returned slice must stay valid and unmodified for the
	// backend's lifetime.
	ReadResource(ctx context.Context, name string) ([]byte, error)

	// CreateOutputStream creates or truncates a resource for writing.
	CreateOutputStream(ctx context.Context, name string) (OutputStream, error)

	// Subdir returns a backend rooted at name below this one. It shares
	// caches and underlying state with its parent.
	Subdir(name string) Backend

	// Exists reports whether a resource is present.
	Exists(ctx context.Context, name string) (bool, error)
}
