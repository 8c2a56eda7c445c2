package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tontine-app/tontine/internal/models"
	"github.com/tontine-app/tontine/internal/storage"
)

const userColumns = `id, email, display_name, password_hash, COALESCE(oauth_id, ''), push_endpoint, created_at, updated_at`

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
		user.UpdatedAt = user.CreatedAt
	}

	var oauthID any
	if user.OAuthID != "" {
		oauthID = user.OAuthID
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, display_name, password_hash, oauth_id, push_endpoint, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		oauthID,
		user.PushEndpoint,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("user %s: %w", user.Email, storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUserWhere(ctx, "id = ?", id)
}

// GetUserByEmail retrieves a user by their email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUserWhere(ctx, "email = ?", email)
}

// GetUserByOAuthID retrieves a user by their external identity id.
func (s *SQLiteStore) GetUserByOAuthID(ctx context.Context, oauthID string) (*models.User, error) {
	return s.getUserWhere(ctx, "oauth_id = ?", oauthID)
}

func (s *SQLiteStore) getUserWhere(ctx context.Context, cond string, arg string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+cond, arg).Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&user.OAuthID,
		&user.PushEndpoint,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, "user", arg)
	}
	return user, nil
}

// ListUsersExcept returns all users other than excludeID, for invitation targeting.
func (s *SQLiteStore) ListUsersExcept(ctx context.Context, excludeID string) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id <> ? ORDER BY display_name, email",
		excludeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.DisplayName,
			&user.PasswordHash,
			&user.OAuthID,
			&user.PushEndpoint,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// UpdatePushEndpoint sets the user's push destination. An empty endpoint clears it.
func (s *SQLiteStore) UpdatePushEndpoint(ctx context.Context, userID, endpoint string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET push_endpoint = ?, updated_at = ? WHERE id = ?",
		endpoint, time.Now().Unix(), userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update push endpoint: %w", err)
	}
	return requireRow(res, "user", userID)
}

// requireRow turns a zero-row update into storage.ErrNotFound.
func requireRow(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, storage.ErrNotFound)
	}
	return nil
}
