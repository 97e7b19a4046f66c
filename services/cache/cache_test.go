package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/perclft/qbench/pkg/supermarq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	a := Key("OPENQASM 2.0;")
	assert.Len(t, a, 64)
	assert.Equal(t, a, Key("OPENQASM 2.0;"))
	assert.NotEqual(t, a, Key("OPENQASM 2.0; "))
}

func TestLRUHitMiss(t *testing.T) {
	ctx := context.Background()
	c, err := NewLRUCache(2, 0)
	require.NoError(t, err)
	var _ FeatureCache = c

	f := supermarq.Features{Parallelism: 0.25}
	_, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "a", Entry{Features: f, NumQubits: 3}))
	e, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, f, e.Features)
	assert.Equal(t, 3, e.NumQubits)
	assert.Equal(t, int32(1), e.HitCount)
	assert.Zero(t, e.ExpiresAt)

	e, _, _ = c.Get(ctx, "a")
	assert.Equal(t, int32(2), e.HitCount)

	// "a" was used last, so "b" goes when "c" arrives
	require.NoError(t, c.Put(ctx, "b", Entry{}))
	_, _, _ = c.Get(ctx, "a")
	require.NoError(t, c.Put(ctx, "c", Entry{}))
	_, ok, _ = c.Get(ctx, "b")
	assert.False(t, ok)

	st, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.TotalEntries)
	assert.Equal(t, int64(3), st.TotalHits)
	assert.Equal(t, int64(2), st.TotalMisses)
	assert.InDelta(t, 0.6, st.HitRate, 1e-12)

	removed, err := c.Invalidate(ctx, "a")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, _ = c.Invalidate(ctx, "a")
	assert.False(t, removed)
}

func TestLRUExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewLRUCache(4, time.Minute)
	require.NoError(t, err)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Put(ctx, "k", Entry{NumQubits: 5}))
	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
	st, _ := c.Stats(ctx)
	assert.Zero(t, st.TotalEntries)
}

func TestNewLRUCacheRejectsSize(t *testing.T) {
	_, err := NewLRUCache(0, 0)
	assert.Error(t, err)
}

func TestRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	c := NewRedisCache(rdb, time.Minute)
	defer c.Close()
	var _ FeatureCache = c

	_, ok, err := c.Get(ctx, Key("x"))
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, c.Put(ctx, Key("x"), Entry{}))

	st := c.stats(0)
	assert.Zero(t, st.TotalMisses, "errors are not misses")

	_, err = DialRedis(ctx, "127.0.0.1:1", 0, time.Minute)
	assert.Error(t, err)
}
