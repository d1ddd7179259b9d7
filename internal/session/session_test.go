package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_storefront/internal/models"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	file, err := NewFileStore(filepath.Join(dir, "session.json"))
	require.NoError(t, err)

	db, err := OpenGorm(context.Background(), "sqlite", filepath.Join(dir, "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]Store{
		"file":   file,
		"sqlite": db,
		"memory": NewMemoryStore(),
	}
}

func TestStores_GetSetDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, s := range stores(t) {
		s := s
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := s.Get(ctx, "missing")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, KeyAccessToken, "tok-1"))
			require.NoError(t, s.Set(ctx, KeyAccessToken, "tok-2"))
			got, err := s.Get(ctx, KeyAccessToken)
			require.NoError(t, err)
			assert.Equal(t, "tok-2", got)

			require.NoError(t, s.Delete(ctx, KeyAccessToken))
			require.NoError(t, s.Delete(ctx, KeyAccessToken))
			_, err = s.Get(ctx, KeyAccessToken)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestRepository_RoundTripAndClear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, s := range stores(t) {
		s := s
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			repo := NewRepository(s)

			empty, err := repo.Get(ctx)
			require.NoError(t, err)
			assert.False(t, empty.Present())

			want := models.Session{AccessToken: "abc", User: json.RawMessage(`{"id":1,"email":"a@b.co"}`)}
			require.NoError(t, repo.Set(ctx, want))

			got, err := repo.Get(ctx)
			require.NoError(t, err)
			assert.True(t, got.Present())
			assert.Equal(t, "abc", got.AccessToken)
			assert.JSONEq(t, string(want.User), string(got.User))

			require.NoError(t, repo.Clear(ctx))
			got, err = repo.Get(ctx)
			require.NoError(t, err)
			assert.False(t, got.Present())
		})
	}
}

func TestRepository_TokenWithoutUserIsNotPresent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, KeyAccessToken, "abc"))

	got, err := NewRepository(s).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", got.AccessToken)
	assert.False(t, got.Present())
}

func TestRepository_IgnoresUnreadableUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, KeyAccessToken, "abc"))
	require.NoError(t, s.Set(ctx, KeyUser, "{not json"))

	got, err := NewRepository(s).Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.User)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, KeyUser, `{"id":7}`))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := NewFileStore(path)
	require.NoError(t, err)
	got, err := second.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.Equal(t, `{"id":7}`, got)
}

func TestFileStore_CorruptFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	s, err := NewFileStore(path)
	require.NoError(t, err)
	_, err = s.Get(context.Background(), KeyUser)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestOpen_UnknownDriver(t *testing.T) {
	t.Parallel()
	_, err := Open(context.Background(), Options{Driver: "etcd"})
	require.Error(t, err)
}

func TestDescribe(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	signed := func(exp time.Time) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "42",
			"exp": exp.Unix(),
		})
		s, err := tok.SignedString([]byte("any-key"))
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name        string
		token       string
		wantErr     bool
		wantExpired bool
	}{
		{name: "valid", token: signed(now.Add(time.Hour))},
		{name: "expired", token: signed(now.Add(-time.Hour)), wantExpired: true},
		{name: "opaque", token: "not-a-jwt", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info, err := Describe(tt.token, now)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "42", info.Subject)
			assert.Equal(t, tt.wantExpired, info.Expired)
		})
	}
}
