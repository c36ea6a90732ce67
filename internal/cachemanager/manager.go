// Package cachemanager keeps parsed inputs in memory so repeated loads of an
// unchanged file skip the parser.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager stores values under string keys with a per-entry TTL.
type CacheManager[V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	GetWithRefresh(ctx context.Context, key string, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key string, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...string) error
	Flush(ctx context.Context) error
	Len() int
}
