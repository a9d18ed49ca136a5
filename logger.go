package movielens

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with dataset-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithEntry adds an archive entry field to the logger.
func (l *Logger) WithEntry(entry string) *Logger {
	return &Logger{
		Logger: l.Logger.With("entry", entry),
	}
}

// LogFetch logs the resolution of the dataset archive.
func (l *Logger) LogFetch(ctx context.Context, url, path string, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "archive fetch failed",
			"url", url,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "archive ready",
			"url", url,
			"path", path,
			"duration", duration,
		)
	}
}

// LogBuild logs a metadata build.
func (l *Logger) LogBuild(ctx context.Context, movies, users, words, categories int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "metadata build failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "metadata built",
			"movies", movies,
			"users", users,
			"words", words,
			"categories", categories,
			"duration", duration,
		)
	}
}

// LogSplit logs the end of a split iteration.
func (l *Logger) LogSplit(ctx context.Context, partition Partition, lines, emitted int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "split iteration failed",
			"partition", partition.String(),
			"lines", lines,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "split iteration completed",
			"partition", partition.String(),
			"lines", lines,
			"emitted", emitted,
		)
	}
}
