package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Local is an in-process Backend; entries are not shared between replicas.
type Local struct {
	c *gocache.Cache
}

func NewLocal(defaultTTL time.Duration) *Local {
	return &Local{c: gocache.New(defaultTTL, 2*defaultTTL)}
}

func (l *Local) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := l.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v.([]byte), true, nil
}

func (l *Local) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	l.c.Set(key, val, ttl)
	return nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	l.c.Delete(key)
	return nil
}
