package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "movielens"

// PrometheusCollector records dataset operations as Prometheus metrics.
// It satisfies movielens.MetricsCollector.
type PrometheusCollector struct {
	fetches       *prometheus.CounterVec
	buildDuration *prometheus.HistogramVec
	tableSize     *prometheus.GaugeVec
	lines         *prometheus.CounterVec
	examples      *prometheus.CounterVec
	splitDuration *prometheus.HistogramVec
}

// NewPrometheusCollector creates a collector and registers it with reg.
// An empty namespace selects DefaultNamespace.
func NewPrometheusCollector(reg prometheus.Registerer, namespace string) (*PrometheusCollector, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	c := &PrometheusCollector{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_fetches_total",
			Help:      "Archive resolutions by outcome.",
		}, []string{"status"}),
		buildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "metadata_build_seconds",
			Help:      "Duration of metadata builds by outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"status"}),
		tableSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "metadata_records",
			Help:      "Records in the last built metadata table.",
		}, []string{"table"}),
		lines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "split_lines_total",
			Help:      "Rating lines classified by split iterations.",
		}, []string{"partition"}),
		examples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "split_examples_total",
			Help:      "Examples emitted by split iterations.",
		}, []string{"partition"}),
		splitDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "split_seconds",
			Help:      "Duration of split iterations by outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"partition", "status"}),
	}

	for _, col := range []prometheus.Collector{
		c.fetches, c.buildDuration, c.tableSize, c.lines, c.examples, c.splitDuration,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordFetch records an archive resolution.
func (c *PrometheusCollector) RecordFetch(_ time.Duration, err error) {
	c.fetches.WithLabelValues(status(err)).Inc()
}

// RecordBuild records a metadata build.
func (c *PrometheusCollector) RecordBuild(movies, users int, duration time.Duration, err error) {
	c.buildDuration.WithLabelValues(status(err)).Observe(duration.Seconds())
	if err != nil {
		return
	}
	c.tableSize.WithLabelValues("movies").Set(float64(movies))
	c.tableSize.WithLabelValues("users").Set(float64(users))
}

// RecordSplit records the end of a split iteration.
func (c *PrometheusCollector) RecordSplit(partition string, lines, emitted int, duration time.Duration, err error) {
	c.lines.WithLabelValues(partition).Add(float64(lines))
	c.examples.WithLabelValues(partition).Add(float64(emitted))
	c.splitDuration.WithLabelValues(partition, status(err)).Observe(duration.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
