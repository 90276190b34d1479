package csvfile

import (
	"context"

	"github.com/couchcryptid/collision-data-service/internal/domain"
	"github.com/couchcryptid/collision-data-service/internal/observability"
)

type cacheKey struct {
	path    string
	maxRows int
}

// CachedLoader memoizes a Loader by (path, row cap) for the process lifetime.
// There is no eviction; a process restart is the only invalidation.
type CachedLoader struct {
	inner   Loader
	metrics *observability.Metrics

	// sem is a one-slot lock that callers can stop waiting on when their
	// context ends. It guards entries.
	sem     chan struct{}
	entries map[cacheKey]*domain.LoadResult
}

// NewCachedLoader creates a cache decorator around a loader.
func NewCachedLoader(inner Loader, metrics *observability.Metrics) *CachedLoader {
	return &CachedLoader{
		inner:   inner,
		metrics: metrics,
		sem:     make(chan struct{}, 1),
		entries: make(map[cacheKey]*domain.LoadResult),
	}
}

// Load returns the cached result for (path, maxRows), reading the file on the
// first call only. Concurrent callers wait for that one read instead of
// starting their own, and give up with ctx.Err() if ctx ends first.
func (c *CachedLoader) Load(ctx context.Context, path string, maxRows int) (*domain.LoadResult, error) {
	key := cacheKey{path: path, maxRows: maxRows}

	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-c.sem }()

	if result, ok := c.entries[key]; ok {
		c.metrics.LoaderCache.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.metrics.LoaderCache.WithLabelValues("miss").Inc()

	result, err := c.inner.Load(ctx, path, maxRows)
	if err != nil {
		// Failures are not cached so a fixed file can be picked up on retry.
		return nil, err
	}
	c.entries[key] = result
	return result, nil
}
