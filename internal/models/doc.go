// Package models defines the core domain models for the tontine app.
//
// # Entities
//
//   - User: a registered account (password or external identity)
//   - Group: a tontine, a savings circle with a fixed contribution and an admin
//   - Contribution: an append-only deposit by a member into a group
//   - Turn: a scheduled payout to one beneficiary, paid once by the admin
//   - Invitation: an admin-issued, recipient-resolved request to join a group
//   - ActivityEvent: an append-only audit entry for a group
//   - Message: a group chat message
//
// # Design Principles
//
//  1. Relationships are ID strings, not pointers. Read paths populate a
//     UserRef where the caller needs a display name.
//  2. Timestamps are Unix seconds.
//  3. Entities are immutable once written unless a type documents otherwise
//     (Turn.IsPaid, Invitation.Status, User.PushEndpoint, Group name/amount/frequency).
package models
