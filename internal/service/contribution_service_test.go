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

func TestCreateContribution(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice@example.com", "Alice")
	bob := h.register(t, "bob@example.com", "Bob")
	group := h.createGroup(t, alice, "Savers", 100)

	t.Run("non-member", func(t *testing.T) {
		_, err := h.contributions.CreateContribution(ctx, as(bob, &api.CreateContributionRequest{GroupID: group.ID, Amount: 100}))
		assertCode(t, connect.CodePermissionDenied, err)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := h.contributions.CreateContribution(ctx, as(alice, &api.CreateContributionRequest{GroupID: group.ID, Amount: 0}))
		assertCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("paid by default", func(t *testing.T) {
		resp, err := h.contributions.CreateContribution(ctx, as(alice, &api.CreateContributionRequest{GroupID: group.ID, Amount: 80}))
		require.NoError(t, err)
		c := resp.Msg.Contribution
		assert.True(t, c.Paid)
		assert.Equal(t, 80.0, c.Amount)
		assert.Equal(t, "Alice", c.User.Name)
		assert.NotEmpty(t, c.ID)
	})

	t.Run("explicitly unpaid", func(t *testing.T) {
		paid := false
		resp, err := h.contributions.CreateContribution(ctx, as(alice, &api.CreateContributionRequest{GroupID: group.ID, Amount: 100, Paid: &paid}))
		require.NoError(t, err)
		assert.False(t, resp.Msg.Contribution.Paid)
	})

	assert.Equal(t, []models.ActivityKind{
		models.ActivityAddContribution,
		models.ActivityAddContribution,
		models.ActivityCreateGroup,
	}, h.activityKinds(t, group.ID))
}

func TestListContributions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice@example.com", "Alice")
	bob := h.register(t, "bob@example.com", "Bob")
	carol := h.register(t, "carol@example.com", "Carol")
	savers := h.createGroup(t, alice, "Savers", 100)
	spenders := h.createGroup(t, bob, "Spenders", 20)
	h.join(t, bob, savers.ID)

	for _, req := range []*connect.Request[api.CreateContributionRequest]{
		as(alice, &api.CreateContributionRequest{GroupID: savers.ID, Amount: 100}),
		as(bob, &api.CreateContributionRequest{GroupID: savers.ID, Amount: 100}),
		as(bob, &api.CreateContributionRequest{GroupID: spenders.ID, Amount: 20}),
	} {
		_, err := h.contributions.CreateContribution(ctx, req)
		require.NoError(t, err)
	}

	mine, err := h.contributions.ListContributions(ctx, as(bob, &api.ListContributionsRequest{}))
	require.NoError(t, err)
	require.Len(t, mine.Msg.Contributions, 2)
	assert.Equal(t, spenders.ID, mine.Msg.Contributions[0].GroupID, "newest first")

	theirs, err := h.contributions.ListContributions(ctx, as(bob, &api.ListContributionsRequest{UserID: alice.user.ID}))
	require.NoError(t, err)
	require.Len(t, theirs.Msg.Contributions, 1)
	assert.Equal(t, alice.user.ID, theirs.Msg.Contributions[0].User.ID)

	group, err := h.contributions.ListGroupContributions(ctx, as(alice, &api.ListGroupContributionsRequest{GroupID: savers.ID}))
	require.NoError(t, err)
	assert.Len(t, group.Msg.Contributions, 2)

	_, err = h.contributions.ListGroupContributions(ctx, as(carol, &api.ListGroupContributionsRequest{GroupID: savers.ID}))
	assertCode(t, connect.CodePermissionDenied, err)
}
