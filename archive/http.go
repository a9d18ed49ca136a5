package archive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/movielens/internal/fs"
	"github.com/hupe1980/movielens/resource"
)

const tracerName = "github.com/hupe1980/movielens/archive"

// HTTPOptions configures an HTTPFetcher.
type HTTPOptions struct {
	// CacheDir is the root of the download cache. Default: DefaultCacheDir().
	CacheDir string

	// Client performs the downloads. Default: a client with an otelhttp
	// instrumented transport and Timeout.
	Client *http.Client

	// Timeout bounds a whole download when Client is nil. Default: 10 minutes.
	Timeout time.Duration

	// RateLimitBytesPerSec throttles the download body when Resources is
	// nil. If 0, unlimited.
	RateLimitBytesPerSec int64

	// Resources bounds concurrent downloads and bandwidth. Share one
	// controller between fetchers to apply a process-wide limit.
	// Default: a controller built from RateLimitBytesPerSec.
	Resources *resource.Controller

	// Logger receives download events. Default: discards.
	Logger *slog.Logger
}

// DefaultHTTPOptions contains the default HTTPFetcher settings.
var DefaultHTTPOptions = HTTPOptions{
	Timeout: 10 * time.Minute,
}

// HTTPFetcher downloads archives over HTTP(S) into a local cache.
// Concurrent fetches of the same archive share a single download. The
// download outlives a cancelled caller and is bounded by the client timeout.
type HTTPFetcher struct {
	opts   HTTPOptions
	client *http.Client
	fsys   fs.FileSystem
	group  singleflight.Group
}

// NewHTTPFetcher creates an HTTPFetcher.
func NewHTTPFetcher(optFns ...func(o *HTTPOptions)) *HTTPFetcher {
	opts := DefaultHTTPOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.CacheDir == "" {
		opts.CacheDir = DefaultCacheDir()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   opts.Timeout,
		}
	}

	if opts.Resources == nil {
		opts.Resources = resource.NewController(resource.Config{
			IOLimitBytesPerSec: opts.RateLimitBytesPerSec,
		})
	}

	return &HTTPFetcher{
		opts:   opts,
		client: client,
		fsys:   fs.Default,
	}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, url, name, checksum string) (string, error) {
	dst := cachePath(f.opts.CacheDir, name, url)

	if err := shared(ctx, &f.group, dst, func(ctx context.Context) error {
		return f.fetch(ctx, url, dst, checksum)
	}); err != nil {
		return "", err
	}
	return dst, nil
}

func (f *HTTPFetcher) fetch(ctx context.Context, url, dst, want string) (err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "archive.Fetch")
	span.SetAttributes(attribute.String("archive.url", url), attribute.String("archive.path", dst))
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
		f.opts.Logger.DebugContext(ctx, "archive cache hit", "url", url, "path", dst)
		span.SetAttributes(attribute.Bool("archive.cached", true))
		return nil
	}

	if err := f.opts.Resources.AcquireFetch(ctx); err != nil {
		return err
	}
	defer f.opts.Resources.ReleaseFetch()

	start := time.Now()
	var written int64
	err = writeVerified(f.fsys, url, dst, want, func(out io.Writer) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		resp, err := f.client.Do(req)
		if err != nil {
			return fmt.Errorf("archive: download %s: %w", url, err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("archive: download %s: unexpected status %s", url, resp.Status)
		}

		body := resource.NewRateLimitedReader(ctx, resp.Body, f.opts.Resources)
		written, err = io.Copy(out, body)
		if err != nil {
			return fmt.Errorf("archive: download %s: %w", url, err)
		}
		return nil
	})
	if err != nil {
		f.opts.Logger.ErrorContext(ctx, "archive download failed", "url", url, "error", err)
		return err
	}

	f.opts.Logger.InfoContext(ctx, "archive downloaded",
		"url", url,
		"path", dst,
		"bytes", written,
		"duration", time.Since(start),
	)
	return nil
}
