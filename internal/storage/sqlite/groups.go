package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tontine-app/tontine/internal/models"
	"github.com/tontine-app/tontine/internal/storage"
)

const groupSelect = `
	SELECT g.id, g.name, g.amount, g.frequency, g.admin_id, g.created_at, u.display_name, u.email
	FROM groups g
	JOIN users u ON u.id = g.admin_id`

// CreateGroup persists a new group with its admin as member #1.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, amount, frequency, admin_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		group.ID, group.Name, group.Amount, string(group.Frequency), group.AdminID, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)",
		group.ID, group.AdminID, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert admin membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID with its admin and members populated.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	var frequency string
	err := s.db.QueryRowContext(ctx, groupSelect+" WHERE g.id = ?", groupID).Scan(
		&group.ID, &group.Name, &group.Amount, &frequency, &group.AdminID, &group.CreatedAt,
		&group.Admin.Name, &group.Admin.Email,
	)
	if err != nil {
		return nil, notFound(err, "group", groupID)
	}
	group.Frequency = models.Frequency(frequency)
	group.Admin.ID = group.AdminID

	members, err := s.loadMembers(ctx, []string{group.ID})
	if err != nil {
		return nil, err
	}
	group.Members = members[group.ID]

	return group, nil
}

// ListGroupsForUser returns all groups the user belongs to, newest first.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, groupSelect+`
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = ?
		ORDER BY g.created_at DESC, g.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	var ids []string
	for rows.Next() {
		group := &models.Group{}
		var frequency string
		if err := rows.Scan(
			&group.ID, &group.Name, &group.Amount, &frequency, &group.AdminID, &group.CreatedAt,
			&group.Admin.Name, &group.Admin.Email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		group.Frequency = models.Frequency(frequency)
		group.Admin.ID = group.AdminID
		groups = append(groups, group)
		ids = append(ids, group.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	rows.Close()

	if len(ids) == 0 {
		return groups, nil
	}

	members, err := s.loadMembers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, group := range groups {
		group.Members = members[group.ID]
	}

	return groups, nil
}

// loadMembers returns the member lists of the given groups in join order.
func (s *SQLiteStore) loadMembers(ctx context.Context, groupIDs []string) (map[string][]models.UserRef, error) {
	in, args := placeholders(groupIDs)
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.group_id, u.id, u.display_name, u.email
		FROM group_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.group_id IN (`+in+`)
		ORDER BY m.joined_at, m.rowid`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	members := make(map[string][]models.UserRef, len(groupIDs))
	for rows.Next() {
		var groupID string
		var ref models.UserRef
		if err := rows.Scan(&groupID, &ref.ID, &ref.Name, &ref.Email); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members[groupID] = append(members[groupID], ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// UpdateGroup updates the mutable group settings.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE groups SET name = ?, amount = ?, frequency = ? WHERE id = ?",
		group.Name, group.Amount, string(group.Frequency), group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return requireRow(res, "group", group.ID)
}

// DeleteGroup removes a group. Members, turns, messages and invitations
// cascade through their foreign keys.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return requireRow(res, "group", groupID)
}

// AddMember inserts the membership row in one statement. The primary key on
// (group_id, user_id) makes concurrent joins collapse to a single row.
func (s *SQLiteStore) AddMember(ctx context.Context, groupID, userID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO group_members (group_id, user_id, joined_at)
		SELECT id, ?, ? FROM groups WHERE id = ?
		ON CONFLICT (group_id, user_id) DO NOTHING`,
		userID, time.Now().Unix(), groupID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to add member: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 1 {
		return true, nil
	}

	// Zero rows: either already a member or the group is gone.
	ok, err := s.groupExists(ctx, groupID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	return false, nil
}

// IsMember reports whether the user belongs to the group.
func (s *SQLiteStore) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM group_members WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) groupExists(ctx context.Context, groupID string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM groups WHERE id = ?", groupID).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check group: %w", err)
	}
	return n > 0, nil
}
