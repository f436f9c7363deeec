package client

import (
	"context"
	"fmt"
)

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

// TokenStore keeps the session's access/refresh token pair in durable
// storage. It holds no in-memory copy, so every accessor re-reads the store.
type TokenStore struct {
	storage *SQLiteStorage
}

func NewTokenStore(storage *SQLiteStorage) *TokenStore {
	return &TokenStore{storage: storage}
}

// GetAccess returns the stored access token, or "" when there is none.
func (t *TokenStore) GetAccess(ctx context.Context) (string, error) {
	value, _, err := t.storage.Get(ctx, keyAccessToken)
	if err != nil {
		return "", fmt.Errorf("failed to read access token: %w", err)
	}
	return value, nil
}

// GetRefresh returns the stored refresh token, or "" when there is none.
func (t *TokenStore) GetRefresh(ctx context.Context) (string, error) {
	value, _, err := t.storage.Get(ctx, keyRefreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to read refresh token: %w", err)
	}
	return value, nil
}

// Save writes both tokens together. A refresh resubmits the unchanged
// refresh token alongside the new access token; there is no access-only
// write path.
func (t *TokenStore) Save(ctx context.Context, access, refresh string) error {
	if err := t.storage.SetAll(ctx, map[string]string{
		keyAccessToken:  access,
		keyRefreshToken: refresh,
	}); err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}
	return nil
}

// Clear destroys the session tokens.
func (t *TokenStore) Clear(ctx context.Context) error {
	if err := t.storage.Delete(ctx, keyAccessToken, keyRefreshToken); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	return nil
}
