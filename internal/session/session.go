package session

import (
	"context"
	"sync"

	"github.com/eshaffer321/notes-go/internal/types"
	"github.com/pkg/errors"
)

// Session is the single point of access to the stored credential pair.
// Writes go through one mutex so a refresh and a logout cannot interleave
// between the two keys.
type Session struct {
	store Store
	mu    sync.Mutex
}

// New creates a session over store; a nil store gets a MemoryStore
func New(store Store) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Session{store: store}
}

// Store returns the underlying store
func (s *Session) Store() Store {
	return s.store
}

// AccessToken returns the stored access token, or "" when unauthenticated
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	token, err := s.store.Get(ctx, AccessTokenKey)
	if err != nil {
		return "", errors.Wrap(err, "failed to read access token")
	}
	return token, nil
}

// RefreshToken returns the stored refresh token, or "" when absent
func (s *Session) RefreshToken(ctx context.Context) (string, error) {
	token, err := s.store.Get(ctx, RefreshTokenKey)
	if err != nil {
		return "", errors.Wrap(err, "failed to read refresh token")
	}
	return token, nil
}

// Tokens returns both stored tokens
func (s *Session) Tokens(ctx context.Context) (*types.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	access, err := s.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	refresh, err := s.RefreshToken(ctx)
	if err != nil {
		return nil, err
	}
	return &types.TokenPair{Access: access, Refresh: refresh}, nil
}

// Save replaces the stored pair. An empty refresh token keeps the stored one,
// which is what a non-rotating refresh response looks like.
func (s *Session) Save(ctx context.Context, pair *types.TokenPair) error {
	if pair == nil || pair.Access == "" {
		return errors.New("access token is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values := map[string]string{AccessTokenKey: pair.Access}
	if pair.Refresh != "" {
		values[RefreshTokenKey] = pair.Refresh
	}
	if err := s.store.Set(ctx, values); err != nil {
		return errors.Wrap(err, "failed to save tokens")
	}
	return nil
}

// Clear removes both tokens
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, AccessTokenKey, RefreshTokenKey); err != nil {
		return errors.Wrap(err, "failed to clear tokens")
	}
	return nil
}

// IsAuthenticated reports whether an access token is stored
func (s *Session) IsAuthenticated(ctx context.Context) bool {
	token, err := s.AccessToken(ctx)
	return err == nil && token != ""
}
