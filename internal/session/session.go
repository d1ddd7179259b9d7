// Package session persists the access token and user record between runs.
// Authentication is a presence check only: nothing here validates, refreshes
// or expires a token.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Skotchmaster/food_storefront/internal/logging"
	"github.com/Skotchmaster/food_storefront/internal/models"
)

const (
	KeyAccessToken = "access_token"
	KeyUser        = "user"
)

var ErrNotFound = errors.New("key not found")

// Store is a durable string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Repository is what pages depend on.
type Repository interface {
	Get(ctx context.Context) (models.Session, error)
	Set(ctx context.Context, s models.Session) error
	Clear(ctx context.Context) error
}

type KVRepository struct {
	Store Store
}

func NewRepository(store Store) *KVRepository {
	return &KVRepository{Store: store}
}

// Get returns whatever is stored; missing keys leave the field empty.
func (r *KVRepository) Get(ctx context.Context) (models.Session, error) {
	var s models.Session

	token, err := r.Store.Get(ctx, KeyAccessToken)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return s, fmt.Errorf("read %s: %w", KeyAccessToken, err)
	}
	s.AccessToken = token

	user, err := r.Store.Get(ctx, KeyUser)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return s, fmt.Errorf("read %s: %w", KeyUser, err)
	}
	if user != "" {
		if json.Valid([]byte(user)) {
			s.User = json.RawMessage(user)
		} else {
			logging.FromContext(ctx).Warn("session_user_unreadable", "reason", "stored user is not json")
		}
	}
	return s, nil
}

func (r *KVRepository) Set(ctx context.Context, s models.Session) error {
	if err := r.Store.Set(ctx, KeyAccessToken, s.AccessToken); err != nil {
		return fmt.Errorf("write %s: %w", KeyAccessToken, err)
	}
	if err := r.Store.Set(ctx, KeyUser, string(s.User)); err != nil {
		return fmt.Errorf("write %s: %w", KeyUser, err)
	}
	return nil
}

func (r *KVRepository) Clear(ctx context.Context) error {
	for _, k := range []string{KeyAccessToken, KeyUser} {
		if err := r.Store.Delete(ctx, k); err != nil {
			return fmt.Errorf("delete %s: %w", k, err)
		}
	}
	return nil
}
