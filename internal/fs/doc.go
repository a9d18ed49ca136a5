// Package fs provides the filesystem abstraction used by the archive cache.
//
// Production code uses fs.Default ([LocalFS]). Tests inject [FaultyFS] to
// simulate a disk that fails mid-download:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".part", fs.Fault{FailAfterBytes: 1024})
//
// Filesystem calls take no context.Context; they are short and not
// interruptible at the syscall level. Slow remote reads go through
// blobstore.Blob instead.
package fs
