package cache

import (
	"context"
	"errors"
	"time"

	"github.com/questx-lab/dashboard/pkg/xcontext"
	"github.com/questx-lab/dashboard/pkg/xredis"
)

type redisCache[T any] struct {
	ttl    time.Duration
	prefix string
	client xredis.Client
	options
}

// NewRedis shares entries between instances of the service. Redis failures are logged and handled as
// misses.
func NewRedis[T any](client xredis.Client, prefix string, ttl time.Duration, opts ...Option) *redisCache[T] {
	return &redisCache[T]{
		ttl:     ttl,
		prefix:  prefix,
		client:  client,
		options: newOptions(opts),
	}
}

func (c *redisCache[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	var entry Entry[T]
	if err := c.client.GetObj(ctx, c.prefix+key, &entry); err != nil {
		if !errors.Is(err, xredis.ErrNotFound) {
			xcontext.Logger(ctx).Warnf("Cannot get cache entry %s: %v", key, err)
		}

		c.record(false)
		return zero, false
	}

	// Redis expires the key itself, the timestamp check keeps the injected clock authoritative.
	if !entry.Valid(c.clock(), c.ttl) {
		c.record(false)
		return zero, false
	}

	c.record(true)
	return entry.Data, true
}

func (c *redisCache[T]) Set(ctx context.Context, key string, data T) {
	entry := Entry[T]{Key: key, Data: data, Timestamp: c.clock()}
	if err := c.client.SetObj(ctx, c.prefix+key, entry, c.ttl); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot set cache entry %s: %v", key, err)
	}
}

func (c *redisCache[T]) TTL() time.Duration {
	return c.ttl
}
