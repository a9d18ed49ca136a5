// Package mmap provides read-only memory-mapped access to local archive files.
//
// A mapped archive is read through io.ReaderAt by the zip reader, which seeks
// to the central directory at the end of the file and then streams individual
// entries. Mapping the file avoids a read syscall per entry chunk and lets
// every reader stream share the same page cache.
//
//	m, err := mmap.Open("ml-1m.zip")
//	if err != nil { ... }
//	defer m.Close()
//
//	zr, err := zip.NewReader(m, int64(m.Size()))
//
// On Unix the file is mapped with mmap(2) and a sequential access hint is
// given with madvise(2). On Windows CreateFileMapping/MapViewOfFile is used.
package mmap
