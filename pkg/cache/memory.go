package cache

import (
	"context"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync"
)

type memoryCache[T any] struct {
	ttl     time.Duration
	entries *xsync.MapOf[string, Entry[T]]
	// Writers share the lock, Sweep holds it alone so it never deletes an entry stored after its
	// expiry check.
	sweepMu sync.RWMutex
	options
}

// NewMemory creates a process wide cache. Concurrent writers of the same key overwrite the whole
// entry, the last write wins.
func NewMemory[T any](ttl time.Duration, opts ...Option) *memoryCache[T] {
	return &memoryCache[T]{
		ttl:     ttl,
		entries: xsync.NewMapOf[Entry[T]](),
		options: newOptions(opts),
	}
}

func (c *memoryCache[T]) Get(_ context.Context, key string) (T, bool) {
	// Expired entries stay until Sweep.
	entry, ok := c.entries.Load(key)
	if ok && entry.Valid(c.clock(), c.ttl) {
		c.record(true)
		return entry.Data, true
	}

	c.record(false)
	var zero T
	return zero, false
}

func (c *memoryCache[T]) Set(_ context.Context, key string, data T) {
	c.sweepMu.RLock()
	defer c.sweepMu.RUnlock()
	c.entries.Store(key, Entry[T]{Key: key, Data: data, Timestamp: c.clock()})
}

func (c *memoryCache[T]) TTL() time.Duration {
	return c.ttl
}

func (c *memoryCache[T]) Len() int {
	return c.entries.Size()
}

// Sweep removes expired entries. Keys derived from access tokens are rarely read again after the
// token expires, so they are only released here.
func (c *memoryCache[T]) Sweep() int {
	c.sweepMu.Lock()
	defer c.sweepMu.Unlock()

	now := c.clock()
	removed := 0
	c.entries.Range(func(key string, entry Entry[T]) bool {
		if !entry.Valid(now, c.ttl) {
			c.entries.Delete(key)
			removed++
		}
		return true
	})

	return removed
}

// Run sweeps the cache every interval until ctx is done.
func (c *memoryCache[T]) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}
