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

func TestCreateGroup(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice@example.com", "Alice")

	group := h.createGroup(t, alice, "  Savers ", 100)
	assert.NotEmpty(t, group.ID)
	assert.Equal(t, "Savers", group.Name)
	assert.Equal(t, alice.user.ID, group.Admin.ID)
	require.Len(t, group.Members, 1)
	assert.Equal(t, alice.user.ID, group.Members[0].ID)
	assert.Equal(t, []models.ActivityKind{models.ActivityCreateGroup}, h.activityKinds(t, group.ID))

	tests := []struct {
		name string
		req  *api.CreateGroupRequest
	}{
		{"blank name", &api.CreateGroupRequest{Name: " ", Amount: 10, Frequency: "weekly"}},
		{"zero amount", &api.CreateGroupRequest{Name: "X", Amount: 0, Frequency: "weekly"}},
		{"negative amount", &api.CreateGroupRequest{Name: "X", Amount: -5, Frequency: "weekly"}},
		{"unknown frequency", &api.CreateGroupRequest{Name: "X", Amount: 10, Frequency: "yearly"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.groups.CreateGroup(ctx, as(alice, tt.req))
			assertCode(t, connect.CodeInvalidArgument, err)
		})
	}
}

func TestCreateGroup_RequiresAuth(t *testing.T) {
	h := newHarness(t)
	_, err := h.groups.CreateGroup(context.Background(), as[api.CreateGroupRequest](nil, &api.CreateGroupRequest{
		Name: "Savers", Amount: 10, Frequency: "weekly",
	}))
	assertCode(t, connect.CodeUnauthenticated, err)
}

func TestJoinGroup(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice@example.com", "Alice")
	bob := h.register(t, "bob@example.com", "Bob")
	group := h.createGroup(t, alice, "Savers", 100)

	// Non-members can look a group up before joining.
	got, err := h.groups.GetGroup(ctx, as(bob, &api.GetGroupRequest{GroupID: group.ID}))
	require.NoError(t, err)
	assert.Equal(t, "Savers", got.Msg.Group.Name)

	resp, err := h.groups.JoinGroup(ctx, as(bob, &api.JoinGroupRequest{GroupID: group.ID}))
	require.NoError(t, err)
	assert.True(t, resp.Msg.Joined)
	require.Len(t, resp.Msg.Group.Members, 2)
	assert.Equal(t, bob.user.ID, resp.Msg.Group.Members[1].ID)

	resp, err = h.groups.JoinGroup(ctx, as(bob, &api.JoinGroupRequest{GroupID: group.ID}))
	require.NoError(t, err)
	assert.False(t, resp.Msg.Joined)
	assert.Len(t, resp.Msg.Group.Members, 2)

	mine, err := h.groups.ListMyGroups(ctx, as(bob, &api.ListMyGroupsRequest{}))
	require.NoError(t, err)
	require.Len(t, mine.Msg.Groups, 1)
	assert.Equal(t, group.ID, mine.Msg.Groups[0].ID)

	assert.Equal(t, []models.ActivityKind{models.ActivityJoinGroup, models.ActivityCreateGroup}, h.activityKinds(t, group.ID))

	_, err = h.groups.JoinGroup(ctx, as(bob, &api.JoinGroupRequest{GroupID: "missing"}))
	assertCode(t, connect.CodeNotFound, err)
}

func TestUpdateGroup_AdminOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice@example.com", "Alice")
	bob := h.register(t, "bob@example.com", "Bob")
	group := h.createGroup(t, alice, "Savers", 100)
	h.join(t, bob, group.ID)

	update := &api.UpdateGroupRequest{GroupID: group.ID, Name: "Big Savers", Amount: 250, Frequency: "monthly"}

	_, err := h.groups.UpdateGroup(ctx, as(bob, update))
	assertCode(t, connect.CodePermissionDenied, err)

	resp, err := h.groups.UpdateGroup(ctx, as(alice, update))
	require.NoError(t, err)
	assert.Equal(t, "Big Savers", resp.Msg.Group.Name)
	assert.Equal(t, 250.0, resp.Msg.Group.Amount)
	assert.Equal(t, "monthly", resp.Msg.Group.Frequency)
	assert.Len(t, resp.Msg.Group.Members, 2)

	_, err = h.groups.UpdateGroup(ctx, as(alice, &api.UpdateGroupRequest{GroupID: group.ID, Name: "X", Amount: 0, Frequency: "weekly"}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestDeleteGroup(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice@example.com", "Alice")
	bob := h.register(t, "bob@example.com", "Bob")
	group := h.createGroup(t, alice, "Savers", 100)
	h.join(t, bob, group.ID)

	_, err := h.contributions.CreateContribution(ctx, as(bob, &api.CreateContributionRequest{GroupID: group.ID, Amount: 100}))
	require.NoError(t, err)

	_, err = h.groups.DeleteGroup(ctx, as(bob, &api.DeleteGroupRequest{GroupID: group.ID}))
	assertCode(t, connect.CodePermissionDenied, err)

	_, err = h.groups.DeleteGroup(ctx, as(alice, &api.DeleteGroupRequest{GroupID: group.ID}))
	require.NoError(t, err)

	_, err = h.groups.GetGroup(ctx, as(alice, &api.GetGroupRequest{GroupID: group.ID}))
	assertCode(t, connect.CodeNotFound, err)

	mine, err := h.groups.ListMyGroups(ctx, as(bob, &api.ListMyGroupsRequest{}))
	require.NoError(t, err)
	assert.Empty(t, mine.Msg.Groups)

	// The ledger and audit trail outlive the group.
	contributions, err := h.contributions.ListContributions(ctx, as(bob, &api.ListContributionsRequest{}))
	require.NoError(t, err)
	assert.Len(t, contributions.Msg.Contributions, 1)
	assert.Equal(t, models.ActivityDeleteGroup, h.activityKinds(t, group.ID)[0])
}

func TestListActivity(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice@example.com", "Alice")
	bob := h.register(t, "bob@example.com", "Bob")
	carol := h.register(t, "carol@example.com", "Carol")
	group := h.createGroup(t, alice, "Savers", 100)
	h.join(t, bob, group.ID)

	resp, err := h.groups.ListActivity(ctx, as(bob, &api.ListActivityRequest{GroupID: group.ID}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Events, 2)
	assert.Equal(t, "Bob joined Savers", resp.Msg.Events[0].Description)
	assert.Equal(t, bob.user.ID, resp.Msg.Events[0].Actor.ID)

	resp, err = h.groups.ListActivity(ctx, as(bob, &api.ListActivityRequest{GroupID: group.ID, Limit: 1}))
	require.NoError(t, err)
	assert.Len(t, resp.Msg.Events, 1)

	_, err = h.groups.ListActivity(ctx, as(carol, &api.ListActivityRequest{GroupID: group.ID}))
	assertCode(t, connect.CodePermissionDenied, err)
}

func TestGetGroupSummary(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice@example.com", "Alice")
	bob := h.register(t, "bob@example.com", "Bob")
	carol := h.register(t, "carol@example.com", "Carol")
	group := h.createGroup(t, alice, "Savers", 100)
	h.join(t, bob, group.ID)

	unpaid := false
	for _, req := range []*connect.Request[api.CreateContributionRequest]{
		as(alice, &api.CreateContributionRequest{GroupID: group.ID, Amount: 100}),
		as(bob, &api.CreateContributionRequest{GroupID: group.ID, Amount: 100, Paid: &unpaid}),
	} {
		_, err := h.contributions.CreateContribution(ctx, req)
		require.NoError(t, err)
	}
	for i, id := range []string{alice.user.ID, bob.user.ID} {
		_, err := h.turns.CreateTurn(ctx, as(alice, &api.CreateTurnRequest{
			GroupID: group.ID, BeneficiaryID: id, Order: i + 1, ScheduledAt: int64(1700000000 + i),
		}))
		require.NoError(t, err)
	}

	resp, err := h.groups.GetGroupSummary(ctx, as(bob, &api.GetGroupSummaryRequest{GroupID: group.ID}))
	require.NoError(t, err)
	summary := resp.Msg.Summary

	assert.Equal(t, 100.0, summary.ExpectedAmount)
	assert.Equal(t, 100.0, summary.TotalContributed)
	assert.Equal(t, 100.0, summary.TotalOutstanding)
	assert.Equal(t, 2, summary.TurnsScheduled)
	assert.Equal(t, 0, summary.TurnsPaid)
	require.NotNil(t, summary.NextTurn)
	assert.Equal(t, alice.user.ID, summary.NextTurn.Beneficiary.ID)

	require.Len(t, summary.Members, 2)
	assert.Equal(t, "Alice", summary.Members[0].User.Name)
	assert.Equal(t, 100.0, summary.Members[0].Contributed)
	assert.Equal(t, "Bob", summary.Members[1].User.Name)
	assert.Equal(t, 100.0, summary.Members[1].Outstanding)

	_, err = h.groups.GetGroupSummary(ctx, as(carol, &api.GetGroupSummaryRequest{GroupID: group.ID}))
	assertCode(t, connect.CodePermissionDenied, err)
}
