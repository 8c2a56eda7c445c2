package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tontine-app/tontine/internal/models"
	"github.com/tontine-app/tontine/internal/storage"
)

var ErrMissingExternalID = errors.New("external identity id required")

// OAuthAuthenticator logs in users vouched for by an external identity
// provider. The credential is the provider's stable profile id. The redirect
// and token exchange with the provider happen before this is called.
type OAuthAuthenticator struct {
	storage UserStorage
}

// NewOAuthAuthenticator creates an authenticator for provider-verified identities.
func NewOAuthAuthenticator(storage UserStorage) *OAuthAuthenticator {
	return &OAuthAuthenticator{storage: storage}
}

// ValidateCredential requires a non-empty external id.
func (a *OAuthAuthenticator) ValidateCredential(credential string) error {
	if credential == "" {
		return ErrMissingExternalID
	}
	return nil
}

// Register creates a user bound to the external id.
func (a *OAuthAuthenticator) Register(ctx context.Context, email, displayName, credential string) (*models.User, error) {
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	user := &models.User{
		ID:          uuid.New().String(),
		Email:       email,
		DisplayName: displayName,
		OAuthID:     credential,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate returns the user bound to the external id.
func (a *OAuthAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.User, error) {
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	user, err := a.storage.GetUserByOAuthID(ctx, credential)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// FindOrCreate is the first-login path: it returns the user bound to the
// external id, creating the account on first sight.
func (a *OAuthAuthenticator) FindOrCreate(ctx context.Context, email, displayName, externalID string) (*models.User, error) {
	user, err := a.Authenticate(ctx, email, externalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrInvalidCredentials) {
		return nil, err
	}
	return a.Register(ctx, email, displayName, externalID)
}
