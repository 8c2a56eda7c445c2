package models

// Contribution is a recorded deposit by a member into a group's pool.
// Contributions are append-only: there is no update or delete.
type Contribution struct {
	// ID is the unique identifier for the contribution (UUID format).
	ID string

	// GroupID is the group the deposit was made into.
	GroupID string

	// UserID is the depositing member.
	UserID string

	// User is populated on read paths.
	User UserRef

	// Amount is the deposited amount. It may differ from Group.Amount.
	Amount float64

	// Paid is true for a deposit. False records a missed or late payment.
	Paid bool

	// CreatedAt is the Unix timestamp of the deposit.
	CreatedAt int64
}
