package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tontine-app/tontine/internal/models"
	"github.com/tontine-app/tontine/internal/realtime"
	"github.com/tontine-app/tontine/pkg/api"
)

func TestInviteAndAccept(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice@example.com", "Alice")
	bob := h.register(t, "bob@example.com", "Bob")
	carol := h.register(t, "carol@example.com", "Carol")
	group := h.createGroup(t, alice, "Savers", 100)

	inbox := subscribe(t, h.broker, realtime.UserTopic(bob.user.ID))

	created, err := h.invitations.CreateInvitation(ctx, as(alice, &api.CreateInvitationRequest{
		GroupID: group.ID, RecipientID: bob.user.ID,
	}))
	require.NoError(t, err)
	inv := created.Msg.Invitation
	assert.Equal(t, string(models.InvitationPending), inv.Status)
	assert.Equal(t, "Savers", inv.GroupName)

	ev := nextEvent(t, inbox, realtime.EventInvitation)
	assert.Equal(t, bob.user.ID, ev.UserID)

	pending, err := h.invitations.ListPendingInvitations(ctx, as(bob, &api.ListPendingInvitationsRequest{}))
	require.NoError(t, err)
	require.Len(t, pending.Msg.Invitations, 1)
	assert.Equal(t, inv.ID, pending.Msg.Invitations[0].ID)

	t.Run("only the recipient can resolve", func(t *testing.T) {
		_, err := h.invitations.AcceptInvitation(ctx, as(carol, &api.AcceptInvitationRequest{InvitationID: inv.ID}))
		assertCode(t, connect.CodePermissionDenied, err)
	})

	accepted, err := h.invitations.AcceptInvitation(ctx, as(bob, &api.AcceptInvitationRequest{InvitationID: inv.ID}))
	require.NoError(t, err)
	assert.Equal(t, string(models.InvitationAccepted), accepted.Msg.Invitation.Status)
	assert.NotZero(t, accepted.Msg.Invitation.ResolvedAt)
	require.Len(t, accepted.Msg.Group.Members, 2)
	assert.Equal(t, bob.user.ID, accepted.Msg.Group.Members[1].ID)

	t.Run("accepting twice", func(t *testing.T) {
		_, err := h.invitations.AcceptInvitation(ctx, as(bob, &api.AcceptInvitationRequest{InvitationID: inv.ID}))
		assertCode(t, connect.CodeFailedPrecondition, err)
	})

	t.Run("rejecting after accept", func(t *testing.T) {
		_, err := h.invitations.RejectInvitation(ctx, as(bob, &api.RejectInvitationRequest{InvitationID: inv.ID}))
		assertCode(t, connect.CodeFailedPrecondition, err)
	})

	pending, err = h.invitations.ListPendingInvitations(ctx, as(bob, &api.ListPendingInvitationsRequest{}))
	require.NoError(t, err)
	assert.Empty(t, pending.Msg.Invitations)

	assert.Equal(t, []models.ActivityKind{
		models.ActivityAcceptInvitation,
		models.ActivityInviteUser,
		models.ActivityCreateGroup,
	}, h.activityKinds(t, group.ID))
}

func TestCreateInvitation_Preconditions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice@example.com", "Alice")
	bob := h.register(t, "bob@example.com", "Bob")
	carol := h.register(t, "carol@example.com", "Carol")
	group := h.createGroup(t, alice, "Savers", 100)
	h.join(t, bob, group.ID)

	invite := func(s *session, recipientID string) error {
		_, err := h.invitations.CreateInvitation(ctx, as(s, &api.CreateInvitationRequest{
			GroupID: group.ID, RecipientID: recipientID,
		}))
		return err
	}

	assertCode(t, connect.CodePermissionDenied, invite(bob, carol.user.ID))
	assertCode(t, connect.CodeAlreadyExists, invite(alice, bob.user.ID))
	assertCode(t, connect.CodeNotFound, invite(alice, "nobody"))
	assertCode(t, connect.CodeInvalidArgument, invite(alice, ""))

	require.NoError(t, invite(alice, carol.user.ID))
	assertCode(t, connect.CodeAlreadyExists, invite(alice, carol.user.ID))
}

func TestRejectThenReinvite(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice@example.com", "Alice")
	bob := h.register(t, "bob@example.com", "Bob")
	group := h.createGroup(t, alice, "Savers", 100)

	created, err := h.invitations.CreateInvitation(ctx, as(alice, &api.CreateInvitationRequest{
		GroupID: group.ID, RecipientID: bob.user.ID,
	}))
	require.NoError(t, err)

	rejected, err := h.invitations.RejectInvitation(ctx, as(bob, &api.RejectInvitationRequest{
		InvitationID: created.Msg.Invitation.ID,
	}))
	require.NoError(t, err)
	assert.Equal(t, string(models.InvitationRejected), rejected.Msg.Invitation.Status)

	got, err := h.groups.GetGroup(ctx, as(bob, &api.GetGroupRequest{GroupID: group.ID}))
	require.NoError(t, err)
	assert.Len(t, got.Msg.Group.Members, 1)

	// A resolved invitation does not block a fresh one.
	again, err := h.invitations.CreateInvitation(ctx, as(alice, &api.CreateInvitationRequest{
		GroupID: group.ID, RecipientID: bob.user.ID,
	}))
	require.NoError(t, err)
	assert.NotEqual(t, created.Msg.Invitation.ID, again.Msg.Invitation.ID)

	_, err = h.invitations.AcceptInvitation(ctx, as(bob, &api.AcceptInvitationRequest{InvitationID: "missing"}))
	assertCode(t, connect.CodeNotFound, err)
}
