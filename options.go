package movielens

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/hupe1980/movielens/archive"
	"github.com/hupe1980/movielens/vocab"
)

type options struct {
	source           Source
	fetcher          archive.Fetcher
	cacheDir         string
	order            vocab.Order
	charset          encoding.Encoding
	metricsCollector MetricsCollector
	logger           *Logger
	tracerProvider   trace.TracerProvider
}

// Option configures a Dataset.
type Option func(*options)

// WithSource overrides where the archive comes from and which entries hold
// movies, users and ratings.
//
// Example with a local mirror:
//
//	src := movielens.DefaultSource
//	src.URL = "https://mirror.example.com/ml-1m.zip"
//	ds := movielens.New(movielens.WithSource(src))
func WithSource(src Source) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithFetcher configures how the archive is resolved to a local file.
//
// If nil is passed, an archive.HTTPFetcher rooted at the cache directory
// is used.
//
// Example with an archive mirrored in S3:
//
//	store, _ := s3.New(ctx, "datasets")
//	ds := movielens.New(movielens.WithFetcher(archive.NewStoreFetcher(store, "")))
func WithFetcher(f archive.Fetcher) Option {
	return func(o *options) {
		o.fetcher = f
	}
}

// WithCacheDir sets the download cache root used by the default fetcher.
// Default: archive.DefaultCacheDir().
func WithCacheDir(dir string) Option {
	return func(o *options) {
		o.cacheDir = dir
	}
}

// WithVocabularyOrder selects how vocabulary codes are assigned.
// Default: vocab.Sorted.
func WithVocabularyOrder(order vocab.Order) Option {
	return func(o *options) {
		o.order = order
	}
}

// WithCharset sets the encoding of the .dat entries. The ml-1m release is
// ISO-8859-1, which is the default. Pass nil to read the bytes as UTF-8.
func WithCharset(enc encoding.Encoding) Option {
	return func(o *options) {
		o.charset = enc
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &movielens.BasicMetricsCollector{}
//	ds := movielens.New(movielens.WithMetricsCollector(metrics))
//	// ... iterate ...
//	stats := metrics.GetStats()
//	fmt.Printf("Examples: %d\n", stats.ExamplesEmitted)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := movielens.NewJSONLogger(slog.LevelInfo)
//	ds := movielens.New(movielens.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider.
// Default: the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		source:           DefaultSource,
		order:            vocab.Sorted,
		charset:          charmap.ISO8859_1,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}
	if o.fetcher == nil {
		logger := o.logger.Logger
		cacheDir := o.cacheDir
		o.fetcher = archive.NewHTTPFetcher(func(ho *archive.HTTPOptions) {
			ho.CacheDir = cacheDir
			ho.Logger = logger
		})
	}
	return o
}
