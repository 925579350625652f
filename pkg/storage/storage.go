// Package storage defines FileStore, the file-oriented backend interface used
// by the streamio tools, together with local-disk, S3 and blob-store
// implementations.
//
// Backends hand out stream.Source and stream.Sink values, so callers can put
// a stream.BufferedReader or stream.BufferedWriter in front of any of them,
// and each backend reports availability in the way that makes sense for it.
package storage

import (
	"context"
	"errors"

	"github.com/haivivi/streamio/pkg/stream"
)

// ErrInvalidPath is returned for paths that are empty, absolute, or escape
// the store root.
var ErrInvalidPath = errors.New("storage: invalid path")

// FileStore is a minimal interface for file-oriented storage.
//
// Paths are forward-slash separated and relative to the store root.
// Implementations must be safe for concurrent use; the returned streams are
// not.
type FileStore interface {
	// Open opens the named file for reading. If the file does not exist, an
	// error wrapping os.ErrNotExist is returned.
	Open(ctx context.Context, path string) (stream.Source, error)

	// Create opens the named file for writing, replacing any existing file.
	// The data is only guaranteed to be stored once the sink is closed.
	// The sinks of the stores in this package implement stream.Aborter:
	// aborting drops the new data and keeps the existing file.
	Create(ctx context.Context, path string) (stream.Sink, error)

	// Delete removes the named file. Deleting a missing file returns nil.
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named file exists.
	Exists(ctx context.Context, path string) (bool, error)
}
