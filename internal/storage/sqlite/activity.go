package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tontine-app/tontine/internal/models"
)

// AppendActivity inserts an audit entry. Entries are never updated or deleted.
func (s *SQLiteStore) AppendActivity(ctx context.Context, event *models.ActivityEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activity (id, group_id, actor_id, kind, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, event.GroupID, event.ActorID, string(event.Kind), event.Description, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	return nil
}

// ListActivityByGroup retrieves the most recent entries for a group.
func (s *SQLiteStore) ListActivityByGroup(ctx context.Context, groupID string, limit int) ([]*models.ActivityEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.group_id, a.actor_id, a.kind, a.description, a.created_at,
		       COALESCE(u.display_name, ''), COALESCE(u.email, '')
		FROM activity a
		LEFT JOIN users u ON u.id = a.actor_id
		WHERE a.group_id = ?
		ORDER BY a.created_at DESC, a.rowid DESC
		LIMIT ?`,
		groupID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var events []*models.ActivityEvent
	for rows.Next() {
		e := &models.ActivityEvent{}
		var kind string
		if err := rows.Scan(&e.ID, &e.GroupID, &e.ActorID, &kind, &e.Description, &e.CreatedAt,
			&e.Actor.Name, &e.Actor.Email); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		e.Kind = models.ActivityKind(kind)
		e.Actor.ID = e.ActorID
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity: %w", err)
	}

	return events, nil
}
