package archive

import (
	"context"
	"io"
	"log/slog"
	"path"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/movielens/blobstore"
	"github.com/hupe1980/movielens/internal/fs"
	"github.com/hupe1980/movielens/resource"
)

// StoreFetcher copies archives from a blobstore.Store into a local cache.
//
// The blob name is the last path element of the url passed to Fetch, so the
// public archive URL can be used unchanged against a mirror bucket.
type StoreFetcher struct {
	store     blobstore.Store
	cacheDir  string
	logger    *slog.Logger
	resources *resource.Controller
	fsys      fs.FileSystem
	group     singleflight.Group
}

// NewStoreFetcher creates a StoreFetcher. An empty cacheDir selects
// DefaultCacheDir().
func NewStoreFetcher(store blobstore.Store, cacheDir string) *StoreFetcher {
	if cacheDir == "" {
		cacheDir = DefaultCacheDir()
	}
	return &StoreFetcher{
		store:     store,
		cacheDir:  cacheDir,
		logger:    slog.New(slog.DiscardHandler),
		resources: resource.NewController(resource.Config{}),
		fsys:      fs.Default,
	}
}

// WithLogger sets the logger and returns the fetcher.
func (f *StoreFetcher) WithLogger(logger *slog.Logger) *StoreFetcher {
	if logger != nil {
		f.logger = logger
	}
	return f
}

// WithResources shares a resource controller with other fetchers and
// returns the fetcher. Only the fetch slots apply; a blob copy is not
// bandwidth limited.
func (f *StoreFetcher) WithResources(rc *resource.Controller) *StoreFetcher {
	if rc != nil {
		f.resources = rc
	}
	return f
}

// Fetch implements Fetcher.
func (f *StoreFetcher) Fetch(ctx context.Context, url, name, checksum string) (string, error) {
	dst := cachePath(f.cacheDir, name, url)

	if err := shared(ctx, &f.group, dst, func(ctx context.Context) error {
		return f.fetch(ctx, url, dst, checksum)
	}); err != nil {
		return "", err
	}
	return dst, nil
}

func (f *StoreFetcher) fetch(ctx context.Context, url, dst, want string) (err error) {
	blobName := path.Base(url)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "archive.FetchFromStore")
	span.SetAttributes(attribute.String("archive.blob", blobName), attribute.String("archive.path", dst))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	ok, err := cached(f.fsys, dst, want)
	if err != nil {
		return err
	}
	if ok {
		f.logger.DebugContext(ctx, "archive cache hit", "blob", blobName, "path", dst)
		return nil
	}

	if err := f.resources.AcquireFetch(ctx); err != nil {
		return err
	}
	defer f.resources.ReleaseFetch()

	start := time.Now()
	var written int64
	err = writeVerified(f.fsys, url, dst, want, func(out io.Writer) error {
		n, err := blobstore.Copy(ctx, f.store, blobName, &sequentialWriterAt{w: out})
		written = n
		return err
	})
	if err != nil {
		f.logger.ErrorContext(ctx, "archive copy failed", "blob", blobName, "error", err)
		return err
	}

	f.logger.InfoContext(ctx, "archive copied from store",
		"blob", blobName,
		"path", dst,
		"bytes", written,
		"duration", time.Since(start),
	)
	return nil
}

// sequentialWriterAt adapts an io.Writer for blobstore.Copy. Writes must
// arrive in offset order, which holds for the io.Copy path; out of order
// writes from a parallel Downloader are buffered until the gap is filled.
type sequentialWriterAt struct {
	mu      sync.Mutex
	w       io.Writer
	off     int64
	pending map[int64][]byte
}

func (s *sequentialWriterAt) WriteAt(p []byte, off int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if off != s.off {
		if s.pending == nil {
			s.pending = make(map[int64][]byte)
		}
		s.pending[off] = append([]byte(nil), p...)
		return len(p), nil
	}

	if err := s.write(p); err != nil {
		return 0, err
	}
	for {
		next, ok := s.pending[s.off]
		if !ok {
			return len(p), nil
		}
		delete(s.pending, s.off)
		if err := s.write(next); err != nil {
			return 0, err
		}
	}
}

func (s *sequentialWriterAt) write(p []byte) error {
	n, err := s.w.Write(p)
	s.off += int64(n)
	return err
}
