// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/tontine-app/tontine/internal/models"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a uniqueness constraint rejects a write
	// (duplicate email, second pending invitation for the same recipient).
	ErrDuplicate = errors.New("duplicate record")

	// ErrStaleState is returned by conditional updates whose precondition no
	// longer holds (e.g. resolving an invitation that is not pending).
	ErrStaleState = errors.New("record state changed")
)

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts a new user. Returns ErrDuplicate if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID returns ErrNotFound if no user has that id.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail returns ErrNotFound if no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByOAuthID returns ErrNotFound if no user has that external id.
	GetUserByOAuthID(ctx context.Context, oauthID string) (*models.User, error)

	// ListUsersExcept returns every user other than excludeID, ordered by name.
	ListUsersExcept(ctx context.Context, excludeID string) ([]*models.User, error)

	// UpdatePushEndpoint replaces the user's push destination.
	UpdatePushEndpoint(ctx context.Context, userID, endpoint string) error
}

// GroupStore persists groups and their member sets.
type GroupStore interface {
	// CreateGroup inserts the group and its admin as the first member.
	// The group.ID and group.CreatedAt fields are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup returns the group with admin and members populated.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsForUser returns every group userID is a member of.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// UpdateGroup updates name, amount and frequency.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes the group, its members, turns, messages and
	// invitations. Contributions and activity are kept.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddMember inserts userID into the member set as one conditional
	// statement. added is false if the user was already a member.
	AddMember(ctx context.Context, groupID, userID string) (added bool, err error)

	// IsMember reports whether userID belongs to groupID.
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}

// ContributionStore persists the append-only contribution ledger.
type ContributionStore interface {
	CreateContribution(ctx context.Context, c *models.Contribution) error
	ListContributionsByUser(ctx context.Context, userID string) ([]*models.Contribution, error)
	ListContributionsByGroup(ctx context.Context, groupID string) ([]*models.Contribution, error)
}

// TurnStore persists payout turns.
type TurnStore interface {
	CreateTurn(ctx context.Context, turn *models.Turn) error
	GetTurn(ctx context.Context, turnID string) (*models.Turn, error)

	// ListTurnsByGroup returns turns ordered by Order, then scheduled date.
	ListTurnsByGroup(ctx context.Context, groupID string) ([]*models.Turn, error)

	// MarkTurnPaid flips is_paid to true. Paying a paid turn is a no-op.
	MarkTurnPaid(ctx context.Context, turnID string) error
}

// InvitationStore persists invitations.
type InvitationStore interface {
	// CreateInvitation returns ErrDuplicate if a pending invitation already
	// exists for the same group and recipient.
	CreateInvitation(ctx context.Context, inv *models.Invitation) error
	GetInvitation(ctx context.Context, invitationID string) (*models.Invitation, error)
	HasPendingInvitation(ctx context.Context, groupID, recipientID string) (bool, error)
	ListPendingForRecipient(ctx context.Context, recipientID string) ([]*models.Invitation, error)

	// ResolveInvitation moves a pending invitation to status. It returns
	// ErrStaleState if the invitation is no longer pending.
	ResolveInvitation(ctx context.Context, invitationID string, status models.InvitationStatus) error
}

// ActivityStore persists the per-group audit trail.
type ActivityStore interface {
	AppendActivity(ctx context.Context, event *models.ActivityEvent) error

	// ListActivityByGroup returns the newest events first, at most limit.
	ListActivityByGroup(ctx context.Context, groupID string, limit int) ([]*models.ActivityEvent, error)
}

// MessageStore persists group chat.
type MessageStore interface {
	CreateMessage(ctx context.Context, msg *models.Message) error

	// ListMessagesByGroup returns messages oldest first.
	ListMessagesByGroup(ctx context.Context, groupID string, limit int) ([]*models.Message, error)

	// CountMessages returns, for each group the user belongs to, the total
	// message count and the user's own count.
	CountMessages(ctx context.Context, userID string) ([]MessageCount, error)
}

// MessageCount is the per-group chat volume used by the reliability score.
type MessageCount struct {
	GroupID     string
	MemberCount int
	Total       int
	ByUser      int
}

// Store defines every storage operation the services need.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	GroupStore
	ContributionStore
	TurnStore
	InvitationStore
	ActivityStore
	MessageStore

	// Close releases any resources held by the store.
	Close() error
}
