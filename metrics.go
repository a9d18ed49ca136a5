package movielens

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the metric
// package ships a Prometheus implementation.
type MetricsCollector interface {
	// RecordFetch is called after the archive has been resolved.
	RecordFetch(duration time.Duration, err error)

	// RecordBuild is called after each metadata build attempt.
	// movies and users are the table sizes, zero on failure.
	RecordBuild(movies, users int, duration time.Duration, err error)

	// RecordSplit is called when a split iteration ends. lines is the
	// number of rating lines classified, emitted the number yielded.
	RecordSplit(partition string, lines, emitted int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFetch(time.Duration, error)                   {}
func (NoopMetricsCollector) RecordBuild(int, int, time.Duration, error)         {}
func (NoopMetricsCollector) RecordSplit(string, int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FetchCount      atomic.Int64
	FetchErrors     atomic.Int64
	BuildCount      atomic.Int64
	BuildErrors     atomic.Int64
	BuildTotalNanos atomic.Int64
	SplitCount      atomic.Int64
	SplitErrors     atomic.Int64
	LinesRead       atomic.Int64
	TrainEmitted    atomic.Int64
	TestEmitted     atomic.Int64
}

// RecordFetch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFetch(duration time.Duration, err error) {
	b.FetchCount.Add(1)
	if err != nil {
		b.FetchErrors.Add(1)
	}
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(movies, users int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// RecordSplit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSplit(partition string, lines, emitted int, duration time.Duration, err error) {
	b.SplitCount.Add(1)
	b.LinesRead.Add(int64(lines))
	if err != nil {
		b.SplitErrors.Add(1)
	}
	switch partition {
	case TrainPartition.String():
		b.TrainEmitted.Add(int64(emitted))
	case TestPartition.String():
		b.TestEmitted.Add(int64(emitted))
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		FetchCount:      b.FetchCount.Load(),
		FetchErrors:     b.FetchErrors.Load(),
		BuildCount:      b.BuildCount.Load(),
		BuildErrors:     b.BuildErrors.Load(),
		BuildAvgNanos:   b.getAvgBuildNanos(),
		SplitCount:      b.SplitCount.Load(),
		SplitErrors:     b.SplitErrors.Load(),
		LinesRead:       b.LinesRead.Load(),
		TrainEmitted:    b.TrainEmitted.Load(),
		TestEmitted:     b.TestEmitted.Load(),
		ExamplesEmitted: b.TrainEmitted.Load() + b.TestEmitted.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgBuildNanos() int64 {
	count := b.BuildCount.Load()
	if count == 0 {
		return 0
	}
	return b.BuildTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	FetchCount      int64
	FetchErrors     int64
	BuildCount      int64
	BuildErrors     int64
	BuildAvgNanos   int64
	SplitCount      int64
	SplitErrors     int64
	LinesRead       int64
	TrainEmitted    int64
	TestEmitted     int64
	ExamplesEmitted int64
}
