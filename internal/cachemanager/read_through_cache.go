package cachemanager

import (
	"context"
	"sync/atomic"
	"time"
)

// ReadThroughCache fills misses by calling fn and caching its result.
// Errors are returned to the caller and never cached.
type ReadThroughCache[V any, I any] struct {
	cache   CacheManager[V]
	fn      func(ctx context.Context, input I) (V, error)
	skip    bool
	fetches atomic.Int64
}

// NewReadThroughCache wraps cache. When skip is true every Get calls fn.
func NewReadThroughCache[V any, I any](
	cache CacheManager[V],
	fn func(ctx context.Context, input I) (V, error),
	skip bool,
) *ReadThroughCache[V, I] {
	return &ReadThroughCache[V, I]{
		cache: cache,
		fn:    fn,
		skip:  skip,
	}
}

// Get returns the cached value for key, computing it from input on a miss.
func (r *ReadThroughCache[V, I]) Get(ctx context.Context, key string, input I, ttl time.Duration) (V, error) {
	if !r.skip {
		if value, ok := r.cache.Get(ctx, key); ok {
			return value, nil
		}
	}

	r.fetches.Add(1)
	value, err := r.fn(ctx, input)
	if err != nil {
		return value, err
	}

	if !r.skip {
		r.cache.Set(ctx, key, value, ttl)
	}
	return value, nil
}

// Fetches returns how many times fn has been called.
func (r *ReadThroughCache[V, I]) Fetches() int64 {
	return r.fetches.Load()
}
