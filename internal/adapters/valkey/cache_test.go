package valkey

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerrokantasi/hearinggeo/internal/core/ports"
)

var _ ports.CacheService = (*Cache)(nil)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := New(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, mr
}

func TestCache_GetMiss(t *testing.T) {
	c, _ := newTestCache(t)

	_, err := c.Get(context.Background(), "editor:session:nope")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}

func TestCache_SetGetDelete(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	key := "hearings:geometry:h1"

	require.NoError(t, c.Set(ctx, key, []byte(`{"type":"Point","coordinates":[24.9,60.1]}`), 60))

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Point","coordinates":[24.9,60.1]}`, string(got))
	assert.Equal(t, 60*time.Second, mr.TTL(key))

	require.NoError(t, c.Delete(ctx, key))
	_, err = c.Get(ctx, key)
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}

func TestCache_SetWithoutTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "editor:session:s1", []byte("{}"), 0))
	assert.Zero(t, mr.TTL("editor:session:s1"))
	assert.True(t, mr.Exists("editor:session:s1"))
}

func TestCache_Expiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "editor:session:s2", []byte("{}"), 5))
	mr.FastForward(6 * time.Second)

	_, err := c.Get(ctx, "editor:session:s2")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}

func TestCache_Ping(t *testing.T) {
	c, _ := newTestCache(t)
	assert.NoError(t, c.Ping(context.Background()))
}
