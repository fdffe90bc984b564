package notes

import (
	"context"

	"github.com/eshaffer321/notes-go/internal/session"
)

// Store persists the credential pair under the keys AccessTokenKey and
// RefreshTokenKey
type Store = session.Store

// Store keys
const (
	AccessTokenKey  = session.AccessTokenKey
	RefreshTokenKey = session.RefreshTokenKey
)

// RedisOptions configures a redis-backed store
type RedisOptions = session.RedisOptions

// NewMemoryStore returns a process-local store
func NewMemoryStore() Store {
	return session.NewMemoryStore()
}

// NewFileStore returns a store that persists tokens to a JSON file
func NewFileStore(path string) Store {
	return session.NewFileStore(path)
}

// NewRedisStore connects to redis and returns a store backed by it.
// The returned store should be closed with CloseStore.
func NewRedisStore(ctx context.Context, opts RedisOptions) (Store, error) {
	store, err := session.NewRedisStore(ctx, opts)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// CloseStore releases resources held by store, if any
func CloseStore(store Store) error {
	if closer, ok := store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
