package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction for accessing immutable data blobs.
// Implementations must be safe for concurrent use.
type Store interface {
	// Open opens a blob for reading.
	// The context bounds every read issued through the returned Blob.
	Open(ctx context.Context, name string) (Blob, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	io.ReaderAt
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
}

// Downloader is an optional interface for stores that can copy a whole blob
// into w, typically with parallel ranged requests.
type Downloader interface {
	Download(ctx context.Context, name string, w io.WriterAt) (int64, error)
}

// Copy writes the full content of the named blob into w. It uses the
// store's Downloader when available and falls back to sequential reads.
func Copy(ctx context.Context, s Store, name string, w io.WriterAt) (int64, error) {
	if d, ok := s.(Downloader); ok {
		return d.Download(ctx, name, w)
	}

	b, err := s.Open(ctx, name)
	if err != nil {
		return 0, err
	}
	defer b.Close()

	return io.Copy(io.NewOffsetWriter(w, 0), io.NewSectionReader(b, 0, b.Size()))
}
