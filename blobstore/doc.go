// Package blobstore provides read access to dataset archives kept in local
// directories or object storage.
//
// A Store opens named, immutable blobs. A Blob is an io.ReaderAt with a known
// size, which is all the zip reader needs to list and stream archive entries,
// so an archive can be read in place from a mirror bucket without first being
// copied to local disk.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem with mmap support
//   - MemoryStore: in-memory blobs, mainly for tests
//   - s3.Store: Amazon S3 with range reads and parallel downloads
//   - minio.Store: MinIO and other S3-compatible storage
//
// # Custom Implementations
//
// Implement the Store interface to support custom storage backends:
//
//	type Store interface {
//	    Open(ctx context.Context, name string) (Blob, error)
//	}
//
// Stores that can copy a whole blob more efficiently than sequential ReadAt
// calls may also implement Downloader.
package blobstore
