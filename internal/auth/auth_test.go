package auth

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tontine-app/tontine/internal/models"
	"github.com/tontine-app/tontine/internal/storage/sqlite"
)

func newStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPasswordAuthenticator(t *testing.T) {
	store := newStore(t)
	a := NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	ctx := context.Background()

	user, err := a.Register(ctx, "alice@example.com", "Alice", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	t.Run("weak password", func(t *testing.T) {
		_, err := a.Register(ctx, "weak@example.com", "Weak", "short")
		assert.ErrorIs(t, err, ErrWeakPassword)

		_, err = a.Register(ctx, "long@example.com", "Long", strings.Repeat("x", 73))
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := a.Register(ctx, "alice@example.com", "Alice 2", "another-password")
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("authenticate", func(t *testing.T) {
		got, err := a.Authenticate(ctx, "alice@example.com", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		_, err = a.Authenticate(ctx, "alice@example.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = a.Authenticate(ctx, "nobody@example.com", "correct-horse")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("oauth user cannot log in with a password", func(t *testing.T) {
		_, err := NewOAuthAuthenticator(store).Register(ctx, "g@example.com", "Gina", "google-1")
		require.NoError(t, err)

		_, err = a.Authenticate(ctx, "g@example.com", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestOAuthAuthenticator_FindOrCreate(t *testing.T) {
	store := newStore(t)
	a := NewOAuthAuthenticator(store)
	ctx := context.Background()

	first, err := a.FindOrCreate(ctx, "g@example.com", "Gina", "google-42")
	require.NoError(t, err)

	second, err := a.FindOrCreate(ctx, "g@example.com", "Gina", "google-42")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "second login must reuse the account")

	_, err = a.FindOrCreate(ctx, "x@example.com", "X", "")
	assert.ErrorIs(t, err, ErrMissingExternalID)
}

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "user-1", Email: "alice@example.com"}

	token, err := m.Generate(user)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)

	t.Run("foreign issuer", func(t *testing.T) {
		foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
			UserID: "user-1",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				Subject:   "user-1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = m.Validate(foreign)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewJWTManager("other-secret", time.Hour).Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired, err := NewJWTManager("test-secret", -time.Minute).Generate(user)
		require.NoError(t, err)
		_, err = m.Validate(expired)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestParseBearer(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{"Bearer abc", "abc", nil},
		{"bearer abc", "abc", nil},
		{"", "", ErrMissingToken},
		{"Basic abc", "", ErrInvalidToken},
		{"Bearer", "", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := ParseBearer(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
