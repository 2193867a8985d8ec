// Package memcache is an in-process ports.CacheService used when Valkey is
// not reachable. Sessions stored here are local to one API instance.
package memcache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/kerrokantasi/hearinggeo/internal/core/ports"
)

// Cache implements ports.CacheService on a ristretto cache. Each entry costs 1.
type Cache struct {
	c *ristretto.Cache[string, []byte]
}

// New creates a cache holding at most maxItems entries.
func New(maxItems int64) (*Cache, error) {
	if maxItems <= 0 {
		maxItems = 10000
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxItems * 10,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create local cache: %w", err)
	}
	return &Cache{c: c}, nil
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := c.c.Get(key)
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value. Writes are applied before Set returns.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttlSeconds int) error {
	v := append([]byte(nil), value...)
	if !c.c.SetWithTTL(key, v, 1, time.Duration(ttlSeconds)*time.Second) {
		return fmt.Errorf("local cache rejected %s", key)
	}
	c.c.Wait()
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.c.Del(key)
	return nil
}

func (c *Cache) Close() {
	c.c.Close()
}
