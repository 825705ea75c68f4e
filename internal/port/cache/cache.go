// Package cache defines the in-process cache port used for read-through
// caching of finished decision outcomes.
package cache

import (
	"context"
	"time"
)

// Cache is the port interface for a byte-value cache with TTL.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
