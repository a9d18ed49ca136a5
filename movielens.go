package movielens

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/movielens/archive"
)

const tracerName = "github.com/hupe1980/movielens"

// Source describes where the dataset archive lives and how its entries are
// named.
type Source struct {
	URL      string
	Name     string // cache sub-directory
	Checksum string // hex MD5 of the archive; empty disables verification

	MoviesEntry  string
	UsersEntry   string
	RatingsEntry string
}

// DefaultSource is the MovieLens-1M release hosted by GroupLens.
var DefaultSource = Source{
	URL:          "http://files.grouplens.org/datasets/movielens/ml-1m.zip",
	Name:         "movielens",
	Checksum:     "c4d9eecfca2ab87c1945afe126590906",
	MoviesEntry:  "ml-1m/movies.dat",
	UsersEntry:   "ml-1m/users.dat",
	RatingsEntry: "ml-1m/ratings.dat",
}

// Dataset is a MovieLens session. It fetches the archive and builds the
// metadata at most once, on first use, and shares the result with every
// Reader and query. A Dataset is safe for concurrent use.
type Dataset struct {
	opts   options
	tracer trace.Tracer

	// group runs the fetch and the build once for concurrent callers.
	group singleflight.Group

	mu   sync.Mutex
	path string
	meta *Metadata
}

// New creates a Dataset. Nothing is fetched or read until the first query
// or iteration.
func New(optFns ...Option) *Dataset {
	opts := applyOptions(optFns)
	return &Dataset{
		opts:   opts,
		tracer: opts.tracerProvider.Tracer(tracerName),
	}
}

// Source returns the configured source.
func (d *Dataset) Source() Source {
	return d.opts.source
}

// metadata returns the built metadata, building it on the first call.
//
// Concurrent first callers share a single build that is detached from their
// cancellation; each caller stops waiting when its own ctx is done. A
// failed build is not kept, so the next call tries again.
func (d *Dataset) metadata(ctx context.Context) (*Metadata, error) {
	d.mu.Lock()
	meta := d.meta
	d.mu.Unlock()
	if meta != nil {
		return meta, nil
	}

	v, err := d.once(ctx, "metadata", func(ctx context.Context) (any, error) {
		d.mu.Lock()
		meta := d.meta
		d.mu.Unlock()
		if meta != nil {
			return meta, nil
		}

		meta, err := d.build(ctx)
		if err != nil {
			return nil, err
		}

		d.mu.Lock()
		d.meta = meta
		d.mu.Unlock()
		return meta, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Metadata), nil
}

// once runs fn for the first caller of key and lets concurrent callers wait
// for its result.
func (d *Dataset) once(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	detached := context.WithoutCancel(ctx)
	ch := d.group.DoChan(key, func() (any, error) {
		return fn(detached)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *Dataset) build(ctx context.Context) (meta *Metadata, err error) {
	ctx, span := d.tracer.Start(ctx, "movielens.BuildMetadata")
	start := time.Now()
	defer func() {
		var movies, users, words, categories int
		if meta != nil {
			movies, users = len(meta.Movies), len(meta.Users)
			words, categories = meta.Words.Len(), meta.Categories.Len()
			span.SetAttributes(
				attribute.Int("movielens.movies", movies),
				attribute.Int("movielens.users", users),
			)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		d.opts.metricsCollector.RecordBuild(movies, users, time.Since(start), err)
		d.opts.logger.LogBuild(ctx, movies, users, words, categories, time.Since(start), err)
	}()

	a, err := d.openArchive(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = a.Close() }()

	return buildMetadata(ctx, a, buildConfig{
		source:  d.opts.source,
		order:   d.opts.order,
		charset: d.opts.charset,
	})
}

// archivePath resolves the archive through the fetcher once per Dataset.
func (d *Dataset) archivePath(ctx context.Context) (string, error) {
	d.mu.Lock()
	path := d.path
	d.mu.Unlock()
	if path != "" {
		return path, nil
	}

	v, err := d.once(ctx, "archive", func(ctx context.Context) (any, error) {
		d.mu.Lock()
		path := d.path
		d.mu.Unlock()
		if path != "" {
			return path, nil
		}

		src := d.opts.source
		start := time.Now()
		path, err := d.opts.fetcher.Fetch(ctx, src.URL, src.Name, src.Checksum)
		d.opts.metricsCollector.RecordFetch(time.Since(start), err)
		d.opts.logger.LogFetch(ctx, src.URL, path, time.Since(start), err)
		if err != nil {
			return nil, err
		}

		d.mu.Lock()
		d.path = path
		d.mu.Unlock()
		return path, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// openArchive opens a fresh handle on the archive.
func (d *Dataset) openArchive(ctx context.Context) (*archive.Archive, error) {
	path, err := d.archivePath(ctx)
	if err != nil {
		return nil, err
	}
	return archive.Open(path)
}
