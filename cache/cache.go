package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

type Cache struct {
	store Store
	ttl   time.Duration
	log   logrus.FieldLogger
}

func New(store Store, ttl time.Duration, log logrus.FieldLogger) *Cache {
	return &Cache{store: store, ttl: ttl, log: log}
}

// Get decodes the cached value into dst. Misses and broken entries both report false.
func (c *Cache) Get(ctx context.Context, key string, dst any) bool {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache read failed")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("dropping undecodable cache entry")
		_ = c.store.Delete(ctx, key)
		return false
	}
	return true
}

func (c *Cache) Set(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache encode failed")
		return
	}
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

// Remember returns the cached value for key, loading and storing it on a miss.
func Remember[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if c.Get(ctx, key, &cached) {
		return cached, nil
	}
	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	c.Set(ctx, key, value)
	return value, nil
}

// Invalidate drops the given keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if err := c.store.Delete(ctx, keys...); err != nil {
		c.log.WithError(err).WithField("keys", keys).Warn("cache invalidation failed")
	}
}

// InvalidateWhere drops every key under prefix the predicate accepts. A nil predicate accepts all.
func (c *Cache) InvalidateWhere(ctx context.Context, prefix string, match func(key string) bool) {
	keys, err := c.store.Scan(ctx, prefix)
	if err != nil {
		c.log.WithError(err).WithField("prefix", prefix).Warn("cache scan failed")
		return
	}
	var doomed []string
	for _, k := range keys {
		if match == nil || match(k) {
			doomed = append(doomed, k)
		}
	}
	if len(doomed) > 0 {
		c.Invalidate(ctx, doomed...)
	}
}

// Optimistic writes next under key before commit runs. When commit fails the previous
// entry is restored, or the key removed if there was none, and the commit error returned.
func (c *Cache) Optimistic(ctx context.Context, key string, next any, commit func() error) error {
	previous, existed, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache snapshot failed")
		existed = false
	}

	c.Set(ctx, key, next)

	if err := commit(); err != nil {
		if existed {
			if rerr := c.store.Set(ctx, key, previous, c.ttl); rerr != nil {
				c.log.WithError(rerr).WithField("key", key).Warn("cache rollback failed")
			}
		} else {
			c.Invalidate(ctx, key)
		}
		return err
	}
	return nil
}
