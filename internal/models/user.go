package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
// A user has either a PasswordHash or an OAuthID, possibly both.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique).
	Email string

	// DisplayName is the name shown to other members.
	DisplayName string

	// PasswordHash is the bcrypt hash of the password. Empty for users
	// created through an external identity provider.
	PasswordHash string

	// OAuthID is the external identity id (e.g. Google profile id).
	OAuthID string

	// PushEndpoint is an optional URL notifications are POSTed to while
	// the user is offline. It is the only field that changes after creation.
	PushEndpoint string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last push endpoint change.
	UpdatedAt int64
}

// NewUser builds a password user with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Ref returns the public projection of the user.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.DisplayName, Email: u.Email}
}

// UserRef is the populated form of a user reference on read paths.
type UserRef struct {
	ID    string
	Name  string
	Email string
}
