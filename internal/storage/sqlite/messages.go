package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tontine-app/tontine/internal/models"
	"github.com/tontine-app/tontine/internal/storage"
)

// CreateMessage appends a chat message to a group.
func (s *SQLiteStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt == 0 {
		msg.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO messages (id, group_id, sender_id, content, created_at) VALUES (?, ?, ?, ?, ?)",
		msg.ID, msg.GroupID, msg.SenderID, msg.Content, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	return nil
}

// ListMessagesByGroup retrieves the latest limit messages, returned oldest first.
func (s *SQLiteStore) ListMessagesByGroup(ctx context.Context, groupID string, limit int) ([]*models.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT * FROM (
			SELECT m.id, m.group_id, m.sender_id, m.content, m.created_at, m.rowid AS seq,
			       u.display_name, u.email
			FROM messages m
			JOIN users u ON u.id = m.sender_id
			WHERE m.group_id = ?
			ORDER BY m.created_at DESC, m.rowid DESC
			LIMIT ?
		) ORDER BY created_at, seq`,
		groupID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		msg := &models.Message{}
		var seq int64
		if err := rows.Scan(&msg.ID, &msg.GroupID, &msg.SenderID, &msg.Content, &msg.CreatedAt, &seq,
			&msg.Sender.Name, &msg.Sender.Email); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Sender.ID = msg.SenderID
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}

// CountMessages returns chat volume for every group the user is a member of.
func (s *SQLiteStore) CountMessages(ctx context.Context, userID string) ([]storage.MessageCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.group_id,
		       (SELECT COUNT(*) FROM group_members gm WHERE gm.group_id = m.group_id),
		       (SELECT COUNT(*) FROM messages x WHERE x.group_id = m.group_id),
		       (SELECT COUNT(*) FROM messages x WHERE x.group_id = m.group_id AND x.sender_id = ?)
		FROM group_members m
		WHERE m.user_id = ?
		ORDER BY m.group_id`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}
	defer rows.Close()

	var counts []storage.MessageCount
	for rows.Next() {
		var c storage.MessageCount
		if err := rows.Scan(&c.GroupID, &c.MemberCount, &c.Total, &c.ByUser); err != nil {
			return nil, fmt.Errorf("failed to scan message count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate message counts: %w", err)
	}

	return counts, nil
}
