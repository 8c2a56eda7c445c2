package calculator

import (
	"math"
	"testing"
)

func TestSummarizePool(t *testing.T) {
	deposits := []Deposit{
		{UserID: "alice", Amount: 1000, Paid: true},
		{UserID: "bob", Amount: 1000, Paid: true},
		{UserID: "bob", Amount: 500, Paid: false},
		{UserID: "dave", Amount: 250, Paid: true}, // left the group
	}
	payouts := []Payout{
		{TurnID: "t1", BeneficiaryID: "alice", Order: 1, IsPaid: true},
		{TurnID: "t3", BeneficiaryID: "carol", Order: 2, ScheduledAt: 300},
		{TurnID: "t2", BeneficiaryID: "bob", Order: 2, ScheduledAt: 200},
	}

	got := SummarizePool([]string{"alice", "bob", "carol"}, deposits, payouts)

	if math.Abs(got.TotalContributed-2250) > 0.01 {
		t.Errorf("TotalContributed = %v, want 2250", got.TotalContributed)
	}
	if math.Abs(got.TotalOutstanding-500) > 0.01 {
		t.Errorf("TotalOutstanding = %v, want 500", got.TotalOutstanding)
	}
	if got.TurnsScheduled != 3 || got.TurnsPaid != 1 {
		t.Errorf("turns = %d/%d, want 1/3 paid", got.TurnsPaid, got.TurnsScheduled)
	}
	if got.NextTurnID != "t2" {
		t.Errorf("NextTurnID = %q, want t2 (same order, earlier date)", got.NextTurnID)
	}

	wantOrder := []string{"alice", "bob", "carol", "dave"}
	if len(got.Members) != len(wantOrder) {
		t.Fatalf("got %d standings, want %d", len(got.Members), len(wantOrder))
	}
	for i, id := range wantOrder {
		if got.Members[i].UserID != id {
			t.Errorf("Members[%d] = %s, want %s", i, got.Members[i].UserID, id)
		}
	}

	bob := got.Members[1]
	if bob.Deposits != 2 || bob.Contributed != 1000 || bob.Outstanding != 500 {
		t.Errorf("bob = %+v", bob)
	}
	if got.Members[0].TurnsReceived != 1 {
		t.Errorf("alice TurnsReceived = %d, want 1", got.Members[0].TurnsReceived)
	}
}

func TestSummarizePool_Empty(t *testing.T) {
	got := SummarizePool([]string{"alice"}, nil, nil)
	if got.NextTurnID != "" || got.TotalContributed != 0 {
		t.Errorf("unexpected summary %+v", got)
	}
	if len(got.Members) != 1 || got.Members[0].UserID != "alice" {
		t.Errorf("Members = %+v", got.Members)
	}
}
