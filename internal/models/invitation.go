package models

// InvitationStatus is the state of an invitation.
//
//	pending -> accepted
//	pending -> rejected
//
// accepted and rejected are terminal.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

// Terminal reports whether no transition leaves s.
func (s InvitationStatus) Terminal() bool {
	return s == InvitationAccepted || s == InvitationRejected
}

// CanTransitionTo reports whether s -> next is a legal transition.
func (s InvitationStatus) CanTransitionTo(next InvitationStatus) bool {
	return s == InvitationPending && next.Terminal()
}

// Invitation is a request from a group admin to a non-member to join.
// At most one pending invitation exists per (GroupID, RecipientID).
type Invitation struct {
	ID          string
	GroupID     string
	SenderID    string
	RecipientID string
	Status      InvitationStatus

	// GroupName, Sender and Recipient are populated on read paths.
	GroupName string
	Sender    UserRef
	Recipient UserRef

	CreatedAt int64

	// ResolvedAt is zero while the invitation is pending.
	ResolvedAt int64
}
