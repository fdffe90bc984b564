package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/eshaffer321/notes-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockRedisServer(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestRedisStore_RoundTrip(t *testing.T) {
	server := mockRedisServer(t)
	ctx := context.Background()

	store, err := NewRedisStore(ctx, RedisOptions{Addr: server.Addr()})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(ctx, map[string]string{
		AccessTokenKey:  "A",
		RefreshTokenKey: "R",
	}))

	stored, err := server.Get(DefaultRedisPrefix + AccessTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "A", stored)

	value, err := store.Get(ctx, RefreshTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "R", value)

	require.NoError(t, store.Delete(ctx, AccessTokenKey, RefreshTokenKey))
	assert.False(t, server.Exists(DefaultRedisPrefix+AccessTokenKey))
	assert.False(t, server.Exists(DefaultRedisPrefix+RefreshTokenKey))

	value, err = store.Get(ctx, AccessTokenKey)
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestRedisStore_TTL(t *testing.T) {
	server := mockRedisServer(t)
	ctx := context.Background()

	store, err := NewRedisStore(ctx, RedisOptions{Addr: server.Addr(), Prefix: "test:", TTL: time.Minute})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(ctx, map[string]string{AccessTokenKey: "A"}))
	assert.Equal(t, time.Minute, server.TTL("test:"+AccessTokenKey))

	server.FastForward(2 * time.Minute)

	value, err := store.Get(ctx, AccessTokenKey)
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestRedisStore_SharedSession(t *testing.T) {
	server := mockRedisServer(t)
	ctx := context.Background()

	first, err := NewRedisStore(ctx, RedisOptions{Addr: server.Addr()})
	require.NoError(t, err)
	defer first.Close()
	second, err := NewRedisStore(ctx, RedisOptions{Addr: server.Addr()})
	require.NoError(t, err)
	defer second.Close()

	require.NoError(t, New(first).Save(ctx, &types.TokenPair{Access: "A", Refresh: "R"}))
	assert.True(t, New(second).IsAuthenticated(ctx))

	require.NoError(t, New(second).Clear(ctx))
	assert.False(t, New(first).IsAuthenticated(ctx))
}

func TestNewRedisStore_ConnectionFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := NewRedisStore(ctx, RedisOptions{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}
