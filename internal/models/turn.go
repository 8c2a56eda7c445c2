package models

// Turn is the scheduled event where one member receives the pooled
// contributions. Turns are created by the admin; Order is admin-assigned and
// neither unique nor contiguous.
type Turn struct {
	ID            string
	GroupID       string
	BeneficiaryID string
	Beneficiary   UserRef
	Order         int
	ScheduledAt   int64

	// IsPaid only ever moves from false to true.
	IsPaid bool

	CreatedAt int64
}
