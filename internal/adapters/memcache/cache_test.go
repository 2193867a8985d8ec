package memcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerrokantasi/hearinggeo/internal/core/ports"
)

func TestCache_SetGetDelete(t *testing.T) {
	c, err := New(100)
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	_, err = c.Get(ctx, "editor:session:1")
	assert.True(t, errors.Is(err, ports.ErrCacheMiss))

	value := []byte(`{"id":"1"}`)
	require.NoError(t, c.Set(ctx, "editor:session:1", value, 60))
	value[2] = 'X'

	got, err := c.Get(ctx, "editor:session:1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, string(got), "stored value must not alias the caller's slice")

	require.NoError(t, c.Delete(ctx, "editor:session:1"))
	_, err = c.Get(ctx, "editor:session:1")
	assert.True(t, errors.Is(err, ports.ErrCacheMiss))
}

func TestCache_TTL(t *testing.T) {
	c, err := New(100)
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 1))
	assert.Eventually(t, func() bool {
		_, err := c.Get(ctx, "k")
		return errors.Is(err, ports.ErrCacheMiss)
	}, 3*time.Second, 50*time.Millisecond)
}
