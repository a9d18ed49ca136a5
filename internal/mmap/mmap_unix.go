//go:build unix

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

func osMap(f *os.File, size int) ([]byte, func([]byte) error, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}

	// Archives are read front to back entry by entry. The hint is advisory,
	// EINVAL on unaligned mappings is ignored.
	if err := unix.Madvise(data, unix.MADV_SEQUENTIAL); err != nil && err != unix.EINVAL {
		_ = unix.Munmap(data)
		return nil, nil, err
	}

	return data, unix.Munmap, nil
}
