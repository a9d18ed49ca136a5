package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"

	"github.com/hupe1980/movielens/blobstore"
)

// Archive is an opened zip archive. It is safe for concurrent use: each
// call to Open returns an independent entry stream.
type Archive struct {
	blob blobstore.Blob
	zr   *zip.Reader
}

// Open opens the archive file at path. Local archives are memory mapped.
func Open(path string) (*Archive, error) {
	store := blobstore.NewLocalStore(filepath.Dir(path))
	blob, err := store.Open(context.Background(), filepath.Base(path))
	if err != nil {
		return nil, err
	}
	a, err := OpenBlob(blob)
	if err != nil {
		_ = blob.Close()
		return nil, err
	}
	return a, nil
}

// OpenBlob opens an archive stored in blob. The Archive takes ownership of
// blob and closes it on Close.
func OpenBlob(blob blobstore.Blob) (*Archive, error) {
	zr, err := zip.NewReader(blob, blob.Size())
	if err != nil {
		return nil, fmt.Errorf("archive: read zip directory: %w", err)
	}
	zr.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())
	zr.RegisterDecompressor(zstd.ZipMethodPKWare, zstd.ZipDecompressor())

	return &Archive{blob: blob, zr: zr}, nil
}

// Open opens the named entry for streaming read.
func (a *Archive) Open(name string) (io.ReadCloser, error) {
	f, err := a.zr.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
		}
		return nil, err
	}
	return f, nil
}

// Entries returns the names of all file entries in directory order.
func (a *Archive) Entries() []string {
	names := make([]string, 0, len(a.zr.File))
	for _, f := range a.zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		names = append(names, f.Name)
	}
	return names
}

// Close releases the underlying blob.
func (a *Archive) Close() error {
	return a.blob.Close()
}
