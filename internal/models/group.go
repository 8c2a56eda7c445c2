package models

import "slices"

// Frequency is how often members contribute to a group.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Valid reports whether f is one of the supported frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Group represents a tontine: a named pool with a fixed per-period
// contribution and an ordered member list.
//
// The admin is always Members[0] and is set once at creation. Transferring
// ownership means deleting and recreating the group.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group.
	Name string

	// Amount is the expected contribution per period. It is not enforced
	// against recorded contributions.
	Amount float64

	// Frequency is the contribution period.
	Frequency Frequency

	// AdminID is the user who created the group.
	AdminID string

	// Admin is populated on read paths.
	Admin UserRef

	// Members are the group members in join order. Never empty.
	Members []UserRef

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// IsAdmin reports whether userID owns the group.
func (g *Group) IsAdmin(userID string) bool {
	return userID != "" && g.AdminID == userID
}

// HasMember reports whether userID is in the member set.
func (g *Group) HasMember(userID string) bool {
	return slices.ContainsFunc(g.Members, func(m UserRef) bool { return m.ID == userID })
}

// MemberIDs returns the member ids in join order.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.ID
	}
	return ids
}
