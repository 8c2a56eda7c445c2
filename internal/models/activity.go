package models

// ActivityKind enumerates the state changes recorded in a group's log.
type ActivityKind string

const (
	ActivityCreateGroup      ActivityKind = "create_group"
	ActivityUpdateGroup      ActivityKind = "update_group"
	ActivityDeleteGroup      ActivityKind = "delete_group"
	ActivityJoinGroup        ActivityKind = "join_group"
	ActivityInviteUser       ActivityKind = "invite_user"
	ActivityAcceptInvitation ActivityKind = "accept_invitation"
	ActivityRejectInvitation ActivityKind = "reject_invitation"
	ActivityAddContribution  ActivityKind = "add_contribution"
	ActivityCreateTurn       ActivityKind = "create_turn"
	ActivityPayTurn          ActivityKind = "pay_turn"
)

// ActivityEvent is an append-only audit entry. It is never mutated and
// outlives the group it describes.
type ActivityEvent struct {
	ID          string
	GroupID     string
	ActorID     string
	Actor       UserRef
	Kind        ActivityKind
	Description string
	CreatedAt   int64
}
