package metric

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/movielens"
)

var _ movielens.MetricsCollector = (*PrometheusCollector)(nil)

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewPrometheusCollector(reg, "")
	require.NoError(t, err)

	c.RecordFetch(time.Second, nil)
	c.RecordFetch(time.Second, errors.New("offline"))
	c.RecordBuild(3883, 6040, 2*time.Second, nil)
	c.RecordBuild(0, 0, time.Second, errors.New("bad line"))
	c.RecordSplit("train", 100, 90, time.Second, nil)
	c.RecordSplit("test", 100, 10, time.Second, nil)
	c.RecordSplit("test", 50, 4, time.Second, nil)

	assert.Equal(t, 1.0, promtestutil.ToFloat64(c.fetches.WithLabelValues("ok")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(c.fetches.WithLabelValues("error")))
	assert.Equal(t, 3883.0, promtestutil.ToFloat64(c.tableSize.WithLabelValues("movies")))
	assert.Equal(t, 6040.0, promtestutil.ToFloat64(c.tableSize.WithLabelValues("users")))
	assert.Equal(t, 150.0, promtestutil.ToFloat64(c.lines.WithLabelValues("test")))
	assert.Equal(t, 14.0, promtestutil.ToFloat64(c.examples.WithLabelValues("test")))
	assert.Equal(t, 90.0, promtestutil.ToFloat64(c.examples.WithLabelValues("train")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "movielens_metadata_build_seconds")
	assert.Contains(t, names, "movielens_split_seconds")
}

func TestPrometheusCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusCollector(reg, "ml")
	require.NoError(t, err)

	_, err = NewPrometheusCollector(reg, "ml")
	var are prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &are)
}
