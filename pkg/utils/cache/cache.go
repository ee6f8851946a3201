package cache

import (
	"context"
	"errors"
)

// based on github.com/kittpat1413/go-common/framework/cache/cache.go

// ErrCacheMiss is returned by Get when no entry exists and no loader
// is configured.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a read-through cache. Implementations populate entries via
// a configured loader; there is no explicit Set.
type Cache[K comparable, V any] interface {
	Get(ctx context.Context, key K) (*V, error)
	Invalidate(ctx context.Context, key K)
}
