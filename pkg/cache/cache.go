// Package cache keeps short lived results of upstream calls. Entries only expire by TTL, there is no
// explicit invalidation.
package cache

import (
	"context"
	"time"

	"github.com/questx-lab/dashboard/internal/common"
)

type Cache[T any] interface {
	// Get returns the data of key if it was stored less than TTL ago.
	Get(ctx context.Context, key string) (T, bool)
	Set(ctx context.Context, key string, data T)
	TTL() time.Duration
}

type Entry[T any] struct {
	Key       string    `json:"key"`
	Data      T         `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

func (e Entry[T]) Valid(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.Timestamp) < ttl
}

type options struct {
	name  string
	clock func() time.Time
}

type Option func(*options)

// WithClock replaces time.Now, tests use it to move time forward.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithName labels the metrics of the cache.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

func newOptions(opts []Option) options {
	o := options{name: "default", clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) record(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}

	common.PromCounters[common.GuildCacheRequestTotal].WithLabelValues(o.name, result).Inc()
}
