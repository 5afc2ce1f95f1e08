// Package storage defines the FileStore interface used to archive call
// records. It abstracts the backend so deployments can write archives
// to a local directory or an S3-compatible object store without
// changing application code.
package storage

import (
	"context"
	"io"
)

// FileStore is a minimal file-oriented store.
//
// Paths are forward-slash separated and relative to the store root.
// Implementations must be safe for concurrent use.
type FileStore interface {
	// Read opens the named file for reading. If the file does not exist
	// an error wrapping os.ErrNotExist is returned. The caller closes
	// the returned reader.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write opens the named file for writing, truncating any existing
	// content and creating parents as needed. The caller must close the
	// writer to flush.
	Write(ctx context.Context, path string) (io.WriteCloser, error)

	// Delete removes the named file. Deleting a missing file is not an
	// error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named file exists.
	Exists(ctx context.Context, path string) (bool, error)
}
