package cache

import (
	"context"
	"time"
)

// Backend stores opaque values under string keys with a ttl.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
