package notes

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/eshaffer321/notes-go/internal/config"
	"github.com/eshaffer321/notes-go/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientFromConfig_FileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	cfg := &Config{
		API: config.APIConfig{
			BaseURL:    "https://notes.example.com/api",
			AppVersion: "2.0.0",
			Timeout:    5 * time.Second,
		},
		Session: config.SessionConfig{File: path},
	}

	client, err := NewClientFromConfig(context.Background(), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://notes.example.com/api", client.BaseURL())
	assert.Equal(t, 5*time.Second, client.HTTPClient().Timeout)

	store, ok := client.session.Store().(*session.FileStore)
	require.True(t, ok)
	assert.Equal(t, path, store.Path())
}

func TestNewClientFromConfig_OptionsWin(t *testing.T) {
	cfg := &Config{API: config.APIConfig{BaseURL: "https://from-config", Timeout: 5 * time.Second}}
	memory := NewMemoryStore()

	client, err := NewClientFromConfig(context.Background(), cfg, &ClientOptions{
		BaseURL: "https://from-options",
		Store:   memory,
	})
	require.NoError(t, err)

	assert.Equal(t, "https://from-options", client.BaseURL())
	assert.Same(t, memory, client.session.Store())
}

func TestNewClientFromConfig_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &Config{
		Session: config.SessionConfig{
			RedisAddr:   mr.Addr(),
			RedisPrefix: "test:",
		},
	}
	ctx := context.Background()

	client, err := NewClientFromConfig(ctx, cfg, nil)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.session.Save(ctx, &TokenPair{Access: "a", Refresh: "r"}))

	value, err := mr.Get("test:access_token")
	require.NoError(t, err)
	assert.Equal(t, "a", value)
	assert.True(t, client.Auth.IsAuthenticated(ctx))
}

func TestNewClientFromConfig_RedisUnavailable(t *testing.T) {
	cfg := &Config{Session: config.SessionConfig{RedisAddr: "127.0.0.1:1"}}

	client, err := NewClientFromConfig(context.Background(), cfg, nil)

	assert.Nil(t, client)
	assert.Error(t, err)
}

func TestNewClientFromConfig_NilConfig(t *testing.T) {
	_, err := NewClientFromConfig(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestNewClientFromEnv(t *testing.T) {
	t.Setenv("NOTES_API_BASE_URL", "https://env.example.com/api")
	t.Setenv("NOTES_API_TIMEOUT", "7s")

	client, err := NewClientFromEnv(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com/api", client.BaseURL())
	assert.Equal(t, 7*time.Second, client.HTTPClient().Timeout)
}
