package resource

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Fetches(t *testing.T) {
	c := NewController(Config{MaxConcurrentFetches: 2})

	require.NoError(t, c.AcquireFetch(context.Background()))
	require.NoError(t, c.AcquireFetch(context.Background()))

	assert.False(t, c.TryAcquireFetch())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireFetch(ctx), context.DeadlineExceeded)

	c.ReleaseFetch()
	assert.True(t, c.TryAcquireFetch())
}

func TestController_Defaults(t *testing.T) {
	c := NewController(Config{})
	assert.Equal(t, int64(1), c.Config().MaxConcurrentFetches)

	// Unlimited IO never waits.
	require.NoError(t, c.AcquireIO(context.Background(), 1<<30))
}

func TestRateLimitedReader(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1024})
	data := bytes.Repeat([]byte("x"), 4096)

	r := NewRateLimitedReader(context.Background(), bytes.NewReader(data), c)

	buf := make([]byte, 8192)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 1024, n, "reads are capped at one burst")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r = NewRateLimitedReader(ctx, bytes.NewReader(data), c)
	_, err = io.ReadAll(r)
	assert.ErrorIs(t, err, context.Canceled)
}
