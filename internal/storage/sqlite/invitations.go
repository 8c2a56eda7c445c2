package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tontine-app/tontine/internal/models"
	"github.com/tontine-app/tontine/internal/storage"
)

const invitationSelect = `
	SELECT i.id, i.group_id, i.sender_id, i.recipient_id, i.status, i.created_at, i.resolved_at,
	       g.name, s.display_name, s.email, r.display_name, r.email
	FROM invitations i
	JOIN groups g ON g.id = i.group_id
	JOIN users s ON s.id = i.sender_id
	JOIN users r ON r.id = i.recipient_id`

// CreateInvitation persists a pending invitation. The partial unique index
// idx_invitations_one_pending rejects a second pending row for the same pair.
func (s *SQLiteStore) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.CreatedAt == 0 {
		inv.CreatedAt = time.Now().Unix()
	}
	if inv.Status == "" {
		inv.Status = models.InvitationPending
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO invitations (id, group_id, sender_id, recipient_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.GroupID, inv.SenderID, inv.RecipientID, string(inv.Status), inv.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("pending invitation for %s in group %s: %w", inv.RecipientID, inv.GroupID, storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert invitation: %w", err)
	}

	return nil
}

// GetInvitation retrieves an invitation by ID with group and users populated.
func (s *SQLiteStore) GetInvitation(ctx context.Context, invitationID string) (*models.Invitation, error) {
	inv := &models.Invitation{}
	var status string
	err := s.db.QueryRowContext(ctx, invitationSelect+" WHERE i.id = ?", invitationID).Scan(
		&inv.ID, &inv.GroupID, &inv.SenderID, &inv.RecipientID, &status, &inv.CreatedAt, &inv.ResolvedAt,
		&inv.GroupName, &inv.Sender.Name, &inv.Sender.Email, &inv.Recipient.Name, &inv.Recipient.Email,
	)
	if err != nil {
		return nil, notFound(err, "invitation", invitationID)
	}
	inv.Status = models.InvitationStatus(status)
	inv.Sender.ID = inv.SenderID
	inv.Recipient.ID = inv.RecipientID
	return inv, nil
}

// HasPendingInvitation reports whether the pair already has a pending invitation.
func (s *SQLiteStore) HasPendingInvitation(ctx context.Context, groupID, recipientID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM invitations WHERE group_id = ? AND recipient_id = ? AND status = 'pending'",
		groupID, recipientID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check pending invitation: %w", err)
	}
	return n > 0, nil
}

// ListPendingForRecipient retrieves the recipient's pending invitations, newest first.
func (s *SQLiteStore) ListPendingForRecipient(ctx context.Context, recipientID string) ([]*models.Invitation, error) {
	rows, err := s.db.QueryContext(ctx,
		invitationSelect+" WHERE i.recipient_id = ? AND i.status = 'pending' ORDER BY i.created_at DESC",
		recipientID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []*models.Invitation
	for rows.Next() {
		inv := &models.Invitation{}
		var status string
		if err := rows.Scan(
			&inv.ID, &inv.GroupID, &inv.SenderID, &inv.RecipientID, &status, &inv.CreatedAt, &inv.ResolvedAt,
			&inv.GroupName, &inv.Sender.Name, &inv.Sender.Email, &inv.Recipient.Name, &inv.Recipient.Email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		inv.Status = models.InvitationStatus(status)
		inv.Sender.ID = inv.SenderID
		inv.Recipient.ID = inv.RecipientID
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invitations: %w", err)
	}

	return invitations, nil
}

// ResolveInvitation moves a pending invitation to a terminal status with a
// conditional update, so two concurrent resolutions cannot both succeed.
func (s *SQLiteStore) ResolveInvitation(ctx context.Context, invitationID string, status models.InvitationStatus) error {
	if !models.InvitationPending.CanTransitionTo(status) {
		return fmt.Errorf("invalid target status %q", status)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE invitations SET status = ?, resolved_at = ? WHERE id = ? AND status = 'pending'",
		string(status), time.Now().Unix(), invitationID,
	)
	if err != nil {
		return fmt.Errorf("failed to resolve invitation: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("invitation %s: %w", invitationID, storage.ErrStaleState)
	}
	return nil
}
