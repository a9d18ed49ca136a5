// Package resource bounds the network and disk pressure of archive fetches.
package resource

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxConcurrentFetches is the maximum number of archives downloaded at
	// the same time. If 0, defaults to 1.
	MaxConcurrentFetches int64

	// IOLimitBytesPerSec is the maximum download throughput shared by all
	// fetches. If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages limits shared between fetchers.
// It is safe for concurrent use.
type Controller struct {
	cfg Config

	fetchSem  *semaphore.Weighted
	ioLimiter *rate.Limiter // nil if unlimited
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentFetches <= 0 {
		cfg.MaxConcurrentFetches = 1
	}

	c := &Controller{
		cfg:      cfg,
		fetchSem: semaphore.NewWeighted(cfg.MaxConcurrentFetches),
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// Config returns the effective limits.
func (c *Controller) Config() Config {
	return c.cfg
}

// AcquireFetch reserves a fetch slot, blocking until one is free or ctx is
// canceled.
func (c *Controller) AcquireFetch(ctx context.Context) error {
	return c.fetchSem.Acquire(ctx, 1)
}

// TryAcquireFetch reserves a fetch slot without blocking.
func (c *Controller) TryAcquireFetch() bool {
	return c.fetchSem.TryAcquire(1)
}

// ReleaseFetch releases a fetch slot.
func (c *Controller) ReleaseFetch() {
	c.fetchSem.Release(1)
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c.ioLimiter == nil {
		return nil
	}
	return c.ioLimiter.WaitN(ctx, bytes)
}

// maxChunk returns the largest single IO request the limiter admits.
func (c *Controller) maxChunk() int {
	if c.ioLimiter == nil {
		return 0
	}
	return c.ioLimiter.Burst()
}
