package calculator

import "slices"

// Deposit is a contribution with the minimal information the pool needs.
type Deposit struct {
	UserID string
	Amount float64
	Paid   bool
}

// Payout is a turn with the minimal information the pool needs.
type Payout struct {
	TurnID        string
	BeneficiaryID string
	Order         int
	ScheduledAt   int64
	IsPaid        bool
}

// MemberStanding is one member's position in the pool.
type MemberStanding struct {
	UserID        string
	Contributed   float64 // sum of paid deposits
	Outstanding   float64 // sum of deposits recorded as unpaid
	Deposits      int
	TurnsReceived int
}

// PoolSummary aggregates a group's ledger.
type PoolSummary struct {
	TotalContributed float64
	TotalOutstanding float64
	TurnsScheduled   int
	TurnsPaid        int

	// NextTurnID is the unpaid turn with the lowest order, then earliest
	// date. Empty when every turn is paid. Turn order is admin-assigned and
	// may have gaps or duplicates.
	NextTurnID string

	Members []MemberStanding
}

// SummarizePool computes per-member standings, in the order of memberIDs.
// Deposits and payouts of users who are no longer members are appended after
// the current members, sorted by id.
func SummarizePool(memberIDs []string, deposits []Deposit, payouts []Payout) PoolSummary {
	standings := make(map[string]*MemberStanding, len(memberIDs))
	order := make([]string, 0, len(memberIDs))
	get := func(id string) *MemberStanding {
		if s, ok := standings[id]; ok {
			return s
		}
		s := &MemberStanding{UserID: id}
		standings[id] = s
		return s
	}
	for _, id := range memberIDs {
		if _, ok := standings[id]; !ok {
			get(id)
			order = append(order, id)
		}
	}

	var summary PoolSummary
	for _, d := range deposits {
		s := get(d.UserID)
		s.Deposits++
		if d.Paid {
			s.Contributed += d.Amount
			summary.TotalContributed += d.Amount
		} else {
			s.Outstanding += d.Amount
			summary.TotalOutstanding += d.Amount
		}
	}

	var next *Payout
	for i := range payouts {
		p := &payouts[i]
		summary.TurnsScheduled++
		if p.IsPaid {
			summary.TurnsPaid++
			get(p.BeneficiaryID).TurnsReceived++
			continue
		}
		if next == nil || p.Order < next.Order || (p.Order == next.Order && p.ScheduledAt < next.ScheduledAt) {
			next = p
		}
	}
	if next != nil {
		summary.NextTurnID = next.TurnID
	}

	var former []string
	for id := range standings {
		if !slices.Contains(order, id) {
			former = append(former, id)
		}
	}
	slices.Sort(former)
	order = append(order, former...)

	summary.Members = make([]MemberStanding, len(order))
	for i, id := range order {
		summary.Members[i] = *standings[id]
	}
	return summary
}
