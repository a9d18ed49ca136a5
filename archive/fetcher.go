package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/movielens/internal/checksum"
	"github.com/hupe1980/movielens/internal/fs"
)

// Fetcher resolves an archive to a verified local file.
type Fetcher interface {
	// Fetch returns the local path of the archive at url, cached under name.
	// checksum is the hex MD5 digest of the archive; an empty checksum
	// disables verification.
	Fetch(ctx context.Context, url, name, checksum string) (string, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url, name, checksum string) (string, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, url, name, checksum string) (string, error) {
	return f(ctx, url, name, checksum)
}

// LocalFile returns a Fetcher for an archive that already exists on disk.
// The checksum is still verified.
func LocalFile(filePath string) Fetcher {
	return FetcherFunc(func(_ context.Context, url, _, want string) (string, error) {
		if want != "" {
			got, err := checksum.File(filePath)
			if err != nil {
				return "", err
			}
			if !checksum.Equal(got, want) {
				return "", &IntegrityError{URL: url, Want: want, Got: got}
			}
		}
		return filePath, nil
	})
}

// DefaultCacheDir returns the directory used when no cache directory is
// configured: <user cache dir>/movielens-datasets, or the temp dir.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "movielens-datasets")
}

// shared runs fetch once for all concurrent callers with the same key.
// The fetch is detached from the caller's cancellation, so one caller
// giving up does not fail the others; each caller stops waiting when its
// own ctx is done.
func shared(ctx context.Context, g *singleflight.Group, key string, fetch func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	detached := context.WithoutCancel(ctx)
	ch := g.DoChan(key, func() (any, error) {
		return nil, fetch(detached)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cachePath returns <cacheDir>/<name>/<basename of url>.
func cachePath(cacheDir, name, url string) string {
	return filepath.Join(cacheDir, name, path.Base(url))
}

// cached reports whether dst exists and matches want.
func cached(fsys fs.FileSystem, dst, want string) (bool, error) {
	if _, err := fsys.Stat(dst); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if want == "" {
		return true, nil
	}

	f, err := fsys.Open(dst)
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()

	got, err := checksum.Reader(f)
	if err != nil {
		return false, err
	}
	return checksum.Equal(got, want), nil
}

// writeVerified runs fill against a temp file next to dst while hashing the
// bytes written, checks the digest and renames the file into place. On any
// failure the temp file is removed and dst is left untouched.
func writeVerified(fsys fs.FileSystem, url, dst, want string, fill func(w io.Writer) error) (err error) {
	if err := fsys.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	tmp, err := fsys.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.part")
	if err != nil {
		return err
	}
	closed := false
	defer func() {
		if err != nil {
			if !closed {
				_ = tmp.Close()
			}
			_ = fsys.Remove(tmp.Name())
		}
	}()

	h := checksum.New()
	if err := fill(io.MultiWriter(tmp, h)); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	closed = true
	if err := tmp.Close(); err != nil {
		return err
	}

	if want != "" {
		if got := checksum.Hex(h); !checksum.Equal(got, want) {
			return &IntegrityError{URL: url, Want: want, Got: got}
		}
	}

	if err := fsys.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("archive: install %s: %w", dst, err)
	}
	return nil
}
