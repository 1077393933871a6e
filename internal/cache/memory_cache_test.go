package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemoryCache(t *testing.T) *MemoryCache {
	t.Helper()
	cfg := DefaultCacheConfig()
	cfg.Enabled = true
	cfg.Backend = CacheTypeMemory
	c := NewMemoryCache(cfg)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemoryCache_SetGet_RoundTrip(t *testing.T) {
	c := newTestMemoryCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", []byte("v1"), time.Minute))

	got, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)
}

func TestMemoryCache_Get_MissingKey(t *testing.T) {
	c := newTestMemoryCache(t)

	_, err := c.Get(context.Background(), "absent")

	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryCache_Get_ExpiredKey(t *testing.T) {
	c := newTestMemoryCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "ephemeral", []byte("x"), time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	_, err := c.Get(ctx, "ephemeral")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryCache_DeletePattern_RemovesMatchesOnly(t *testing.T) {
	c := newTestMemoryCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "threads:abc:p1", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "threads:abc:p2", []byte("2"), time.Minute))
	require.NoError(t, c.Set(ctx, "threads:xyz:p1", []byte("3"), time.Minute))

	require.NoError(t, c.DeletePattern(ctx, "threads:abc:*"))

	_, err := c.Get(ctx, "threads:abc:p1")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	_, err = c.Get(ctx, "threads:abc:p2")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	kept, err := c.Get(ctx, "threads:xyz:p1")
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), kept)
}

func TestMemoryCache_Exists(t *testing.T) {
	c := newTestMemoryCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "present", []byte("y"), time.Minute))

	exists, err := c.Exists(ctx, "present")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = c.Exists(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, exists)
}
