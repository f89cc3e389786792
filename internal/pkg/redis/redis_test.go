package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c, err := NewClient(ctx, Config{Addr: mr.Addr()})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.SetWithTTL(ctx, "k", "v", time.Minute))
	got, err := c.GetString(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	ok, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)
	_, err = c.GetString(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.SetWithTTL(ctx, "k2", "v", 0))
	require.NoError(t, c.DeleteKey(ctx, "k2"))
	ok, err = c.Exists(ctx, "k2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewClient(context.Background(), Config{Addr: addr})
	assert.Error(t, err)
}
