package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/questx-lab/dashboard/pkg/testutil"
	"github.com/questx-lab/dashboard/pkg/xredis"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type guild struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func testCache(t *testing.T, newCache func(clock *fakeClock) Cache[[]guild]) {
	ctx := context.Background()
	clock := newFakeClock()
	c := newCache(clock)

	_, ok := c.Get(ctx, "k")
	require.False(t, ok)

	want := []guild{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}}
	c.Set(ctx, "k", want)

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	require.Equal(t, want, got)

	clock.Advance(c.TTL() - time.Second)
	_, ok = c.Get(ctx, "k")
	require.True(t, ok)

	clock.Advance(time.Second)
	_, ok = c.Get(ctx, "k")
	require.False(t, ok, "entry must expire exactly at ttl")

	// Overwriting refreshes the timestamp.
	c.Set(ctx, "k", want[:1])
	got, ok = c.Get(ctx, "k")
	require.True(t, ok)
	require.Equal(t, want[:1], got)
}

func TestMemoryCache(t *testing.T) {
	testCache(t, func(clock *fakeClock) Cache[[]guild] {
		return NewMemory[[]guild](time.Minute, WithClock(clock.Now), WithName("test"))
	})
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := xredis.NewClientWithRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	testCache(t, func(clock *fakeClock) Cache[[]guild] {
		return NewRedis[[]guild](client, "test:", time.Minute, WithClock(clock.Now))
	})

	require.True(t, mr.Exists("test:k"))
	mr.FastForward(2 * time.Minute)
	require.False(t, mr.Exists("test:k"))
}

func TestRedisCache_Unreachable(t *testing.T) {
	// Nothing listens on port 1 of localhost.
	client := xredis.NewClientWithRedis(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	}))
	c := NewRedis[string](client, "", time.Minute)

	c.Set(context.Background(), "k", "v")
	_, ok := c.Get(context.Background(), "k")
	require.False(t, ok)
}

func TestRedisCache_KeyAndTTL(t *testing.T) {
	var gotKey string
	var gotTTL time.Duration
	client := &testutil.MockRedisClient{
		SetObjFunc: func(ctx context.Context, key string, obj any, ttl time.Duration) error {
			gotKey = key
			gotTTL = ttl
			return nil
		},
		GetObjFunc: func(ctx context.Context, key string, v any) error {
			return fmt.Errorf("connection reset")
		},
	}

	c := NewRedis[string](client, "dashboard:", 2*time.Minute)
	c.Set(context.Background(), "presence:1:2", "v")
	require.Equal(t, "dashboard:presence:1:2", gotKey)
	require.Equal(t, 2*time.Minute, gotTTL)

	// Read errors are handled as misses.
	_, ok := c.Get(context.Background(), "presence:1:2")
	require.False(t, ok)
}

func TestMemoryCache_Sweep(t *testing.T) {
	clock := newFakeClock()
	c := NewMemory[int](time.Minute, WithClock(clock.Now))

	c.Set(context.Background(), "old", 1)
	clock.Advance(30 * time.Second)
	c.Set(context.Background(), "new", 2)
	clock.Advance(45 * time.Second)

	require.Equal(t, 1, c.Sweep())
	require.Equal(t, 1, c.Len())

	v, ok := c.Get(context.Background(), "new")
	require.True(t, ok)
	require.Equal(t, 2, v)
}

func TestMemoryCache_ExpiredEntryKeptUntilSweep(t *testing.T) {
	clock := newFakeClock()
	c := NewMemory[int](time.Minute, WithClock(clock.Now))

	c.Set(context.Background(), "k", 1)
	clock.Advance(time.Minute)

	_, ok := c.Get(context.Background(), "k")
	require.False(t, ok)
	require.Equal(t, 1, c.Len())

	require.Equal(t, 1, c.Sweep())
	require.Equal(t, 0, c.Len())
}

func TestMemoryCache_ReadersNeverDropFreshWrites(t *testing.T) {
	const keys = 20
	const rounds = 200

	clock := newFakeClock()
	c := NewMemory[int](time.Minute, WithClock(clock.Now))
	for k := 0; k < keys; k++ {
		c.Set(context.Background(), fmt.Sprint(k), -1)
	}
	clock.Advance(time.Hour)

	stop := make(chan struct{})
	readers := sync.WaitGroup{}
	for i := 0; i < 4; i++ {
		readers.Add(1)
		go func(sweep bool) {
			defer readers.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}

				for k := 0; k < keys; k++ {
					_, _ = c.Get(context.Background(), fmt.Sprint(k))
				}
				if sweep {
					c.Sweep()
				}
			}
		}(i%2 == 0)
	}

	misses := atomic.Int64{}
	writers := sync.WaitGroup{}
	for k := 0; k < keys; k++ {
		writers.Add(1)
		go func(key string) {
			defer writers.Done()
			for i := 0; i < rounds; i++ {
				c.Set(context.Background(), key, i)
				if v, ok := c.Get(context.Background(), key); !ok || v != i {
					misses.Add(1)
				}
			}
		}(fmt.Sprint(k))
	}
	writers.Wait()
	close(stop)
	readers.Wait()

	require.Zero(t, misses.Load())
	require.Equal(t, keys, c.Len())
}

func TestMemoryCache_ConcurrentWriters(t *testing.T) {
	c := NewMemory[string](time.Minute)

	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set(context.Background(), "k", fmt.Sprint(i))
			_, _ = c.Get(context.Background(), "k")
		}(i)
	}
	wg.Wait()

	v, ok := c.Get(context.Background(), "k")
	require.True(t, ok)
	require.NotEmpty(t, v)
}
