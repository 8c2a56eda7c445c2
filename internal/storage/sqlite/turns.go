package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tontine-app/tontine/internal/models"
)

const turnSelect = `
	SELECT t.id, t.group_id, t.beneficiary_id, t.turn_order, t.scheduled_at, t.is_paid, t.created_at,
	       u.display_name, u.email
	FROM turns t
	JOIN users u ON u.id = t.beneficiary_id`

// CreateTurn persists a new payout turn.
func (s *SQLiteStore) CreateTurn(ctx context.Context, turn *models.Turn) error {
	if turn.ID == "" {
		turn.ID = uuid.New().String()
	}
	if turn.CreatedAt == 0 {
		turn.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (id, group_id, beneficiary_id, turn_order, scheduled_at, is_paid, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		turn.ID, turn.GroupID, turn.BeneficiaryID, turn.Order, turn.ScheduledAt, boolToInt(turn.IsPaid), turn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}

	return nil
}

// GetTurn retrieves a turn by ID.
func (s *SQLiteStore) GetTurn(ctx context.Context, turnID string) (*models.Turn, error) {
	turn := &models.Turn{}
	err := s.db.QueryRowContext(ctx, turnSelect+" WHERE t.id = ?", turnID).Scan(
		&turn.ID, &turn.GroupID, &turn.BeneficiaryID, &turn.Order, &turn.ScheduledAt, &turn.IsPaid, &turn.CreatedAt,
		&turn.Beneficiary.Name, &turn.Beneficiary.Email,
	)
	if err != nil {
		return nil, notFound(err, "turn", turnID)
	}
	turn.Beneficiary.ID = turn.BeneficiaryID
	return turn, nil
}

// ListTurnsByGroup retrieves a group's turns in admin-assigned order.
func (s *SQLiteStore) ListTurnsByGroup(ctx context.Context, groupID string) ([]*models.Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		turnSelect+" WHERE t.group_id = ? ORDER BY t.turn_order, t.scheduled_at, t.created_at",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}
	defer rows.Close()

	var turns []*models.Turn
	for rows.Next() {
		turn := &models.Turn{}
		if err := rows.Scan(
			&turn.ID, &turn.GroupID, &turn.BeneficiaryID, &turn.Order, &turn.ScheduledAt, &turn.IsPaid, &turn.CreatedAt,
			&turn.Beneficiary.Name, &turn.Beneficiary.Email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turn.Beneficiary.ID = turn.BeneficiaryID
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate turns: %w", err)
	}

	return turns, nil
}

// MarkTurnPaid sets is_paid. The update is one-directional; a paid turn stays paid.
func (s *SQLiteStore) MarkTurnPaid(ctx context.Context, turnID string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE turns SET is_paid = 1 WHERE id = ?", turnID)
	if err != nil {
		return fmt.Errorf("failed to mark turn paid: %w", err)
	}
	return requireRow(res, "turn", turnID)
}
