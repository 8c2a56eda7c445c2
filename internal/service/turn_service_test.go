package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tontine-app/tontine/internal/models"
	"github.com/tontine-app/tontine/pkg/api"
)

func TestCreateTurn(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice@example.com", "Alice")
	bob := h.register(t, "bob@example.com", "Bob")
	carol := h.register(t, "carol@example.com", "Carol")
	group := h.createGroup(t, alice, "Savers", 100)
	h.join(t, bob, group.ID)

	tests := []struct {
		name   string
		caller *session
		req    *api.CreateTurnRequest
		code   connect.Code
	}{
		{"non-admin", bob, &api.CreateTurnRequest{GroupID: group.ID, BeneficiaryID: bob.user.ID, Order: 1, ScheduledAt: 1700000000}, connect.CodePermissionDenied},
		{"beneficiary not a member", alice, &api.CreateTurnRequest{GroupID: group.ID, BeneficiaryID: carol.user.ID, Order: 1, ScheduledAt: 1700000000}, connect.CodeInvalidArgument},
		{"missing date", alice, &api.CreateTurnRequest{GroupID: group.ID, BeneficiaryID: bob.user.ID, Order: 1}, connect.CodeInvalidArgument},
		{"unknown group", alice, &api.CreateTurnRequest{GroupID: "missing", BeneficiaryID: bob.user.ID, Order: 1, ScheduledAt: 1700000000}, connect.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.turns.CreateTurn(ctx, as(tt.caller, tt.req))
			assertCode(t, tt.code, err)
		})
	}

	// Orders are not checked for gaps or duplicates.
	for _, order := range []int{3, 1, 1} {
		resp, err := h.turns.CreateTurn(ctx, as(alice, &api.CreateTurnRequest{
			GroupID: group.ID, BeneficiaryID: bob.user.ID, Order: order, ScheduledAt: 1700000000,
		}))
		require.NoError(t, err)
		assert.Equal(t, "Bob", resp.Msg.Turn.Beneficiary.Name)
		assert.False(t, resp.Msg.Turn.IsPaid)
	}

	list, err := h.turns.ListTurns(ctx, as(bob, &api.ListTurnsRequest{GroupID: group.ID}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Turns, 3)
	assert.Equal(t, 1, list.Msg.Turns[0].Order)
	assert.Equal(t, 3, list.Msg.Turns[2].Order)

	_, err = h.turns.ListTurns(ctx, as(carol, &api.ListTurnsRequest{GroupID: group.ID}))
	assertCode(t, connect.CodePermissionDenied, err)
}

func TestPayTurn(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice@example.com", "Alice")
	bob := h.register(t, "bob@example.com", "Bob")
	group := h.createGroup(t, alice, "Savers", 100)
	h.join(t, bob, group.ID)

	created, err := h.turns.CreateTurn(ctx, as(alice, &api.CreateTurnRequest{
		GroupID: group.ID, BeneficiaryID: bob.user.ID, Order: 1, ScheduledAt: 1700000000,
	}))
	require.NoError(t, err)
	turnID := created.Msg.Turn.ID

	_, err = h.turns.PayTurn(ctx, as(bob, &api.PayTurnRequest{TurnID: turnID}))
	assertCode(t, connect.CodePermissionDenied, err)

	_, err = h.turns.PayTurn(ctx, as(alice, &api.PayTurnRequest{TurnID: "missing"}))
	assertCode(t, connect.CodeNotFound, err)

	for range 2 {
		resp, err := h.turns.PayTurn(ctx, as(alice, &api.PayTurnRequest{TurnID: turnID}))
		require.NoError(t, err)
		assert.True(t, resp.Msg.Turn.IsPaid)
	}

	kinds := h.activityKinds(t, group.ID)
	assert.Equal(t, models.ActivityPayTurn, kinds[0])
	assert.Equal(t, models.ActivityCreateTurn, kinds[1], "second payment records nothing")
}
