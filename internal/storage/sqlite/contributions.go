package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tontine-app/tontine/internal/models"
)

const contributionSelect = `
	SELECT c.id, c.group_id, c.user_id, c.amount, c.paid, c.created_at, u.display_name, u.email
	FROM contributions c
	JOIN users u ON u.id = c.user_id`

// CreateContribution appends a deposit to the ledger.
func (s *SQLiteStore) CreateContribution(ctx context.Context, c *models.Contribution) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt == 0 {
		c.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contributions (id, group_id, user_id, amount, paid, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.GroupID, c.UserID, c.Amount, boolToInt(c.Paid), c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert contribution: %w", err)
	}

	return nil
}

// ListContributionsByUser retrieves a user's contributions across all groups, newest first.
func (s *SQLiteStore) ListContributionsByUser(ctx context.Context, userID string) ([]*models.Contribution, error) {
	return s.listContributions(ctx, contributionSelect+" WHERE c.user_id = ? ORDER BY c.created_at DESC, c.rowid DESC", userID)
}

// ListContributionsByGroup retrieves all contributions into a group, newest first.
func (s *SQLiteStore) ListContributionsByGroup(ctx context.Context, groupID string) ([]*models.Contribution, error) {
	return s.listContributions(ctx, contributionSelect+" WHERE c.group_id = ? ORDER BY c.created_at DESC, c.rowid DESC", groupID)
}

func (s *SQLiteStore) listContributions(ctx context.Context, query, arg string) ([]*models.Contribution, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	defer rows.Close()

	var contributions []*models.Contribution
	for rows.Next() {
		c := &models.Contribution{}
		if err := rows.Scan(&c.ID, &c.GroupID, &c.UserID, &c.Amount, &c.Paid, &c.CreatedAt,
			&c.User.Name, &c.User.Email); err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		c.User.ID = c.UserID
		contributions = append(contributions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contributions: %w", err)
	}

	return contributions, nil
}
