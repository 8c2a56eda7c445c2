// Package membership gates who may join a group and records the provenance
// of every membership change.
//
// Two paths add members: the admin-issued invitation (pending -> accepted |
// rejected) and open self-join. Both end in storage.GroupStore.AddMember,
// which is a single conditional insert, so concurrent joins can never
// duplicate a member.
package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tontine-app/tontine/internal/activity"
	"github.com/tontine-app/tontine/internal/models"
	"github.com/tontine-app/tontine/internal/notify"
	"github.com/tontine-app/tontine/internal/realtime"
	"github.com/tontine-app/tontine/internal/storage"
	"github.com/tontine-app/tontine/pkg/api"
)

// Store is the subset of storage the workflow touches.
type Store interface {
	storage.UserStore
	storage.GroupStore
	storage.InvitationStore
}

// Workflow runs the membership and invitation operations.
type Workflow struct {
	store     Store
	recorder  *activity.Recorder
	publisher realtime.Publisher
	notifier  *notify.Dispatcher
	logger    *slog.Logger
}

// NewWorkflow wires the workflow. publisher and notifier may be nil.
func NewWorkflow(store Store, recorder *activity.Recorder, publisher realtime.Publisher, notifier *notify.Dispatcher, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		store:     store,
		recorder:  recorder,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
	}
}

// GroupInput is the editable part of a group.
type GroupInput struct {
	Name      string
	Amount    float64
	Frequency models.Frequency
}

// Validate trims the name and checks every field.
func (in *GroupInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return invalid("group name is required")
	}
	if in.Amount <= 0 {
		return invalid("amount must be positive")
	}
	if !in.Frequency.Valid() {
		return invalid("frequency must be daily, weekly or monthly")
	}
	return nil
}

// CreateGroup creates a group owned by adminID, who becomes member #1.
func (w *Workflow) CreateGroup(ctx context.Context, adminID string, in GroupInput) (*models.Group, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	admin, err := w.store.GetUserByID(ctx, adminID)
	if err != nil {
		return nil, err
	}

	group := &models.Group{
		Name:      in.Name,
		Amount:    in.Amount,
		Frequency: in.Frequency,
		AdminID:   adminID,
	}
	if err := w.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}

	created, err := w.store.GetGroup(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	w.record(ctx, created, admin.Ref(), models.ActivityCreateGroup)
	return created, nil
}

// RequireAdmin loads the group and fails with ErrForbidden unless userID is
// its admin. Membership alone never grants admin rights.
func (w *Workflow) RequireAdmin(ctx context.Context, groupID, userID string) (*models.Group, error) {
	group, err := w.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsAdmin(userID) {
		return nil, fmt.Errorf("%w: only the group admin can do this", ErrForbidden)
	}
	return group, nil
}

// Join adds userID to the group without admin consent. Joining a group the
// user already belongs to is a silent no-op; joined reports which happened.
func (w *Workflow) Join(ctx context.Context, groupID, userID string) (group *models.Group, joined bool, err error) {
	user, err := w.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	joined, err = w.store.AddMember(ctx, groupID, userID)
	if err != nil {
		return nil, false, err
	}

	group, err = w.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, false, err
	}
	if joined {
		w.record(ctx, group, user.Ref(), models.ActivityJoinGroup)
	}
	return group, joined, nil
}

// Invite creates a pending invitation from the group's admin to recipientID
// and notifies the recipient.
func (w *Workflow) Invite(ctx context.Context, groupID, actorID, recipientID string) (*models.Invitation, error) {
	if recipientID == "" {
		return nil, invalid("recipient is required")
	}

	group, err := w.RequireAdmin(ctx, groupID, actorID)
	if err != nil {
		return nil, err
	}
	recipient, err := w.store.GetUserByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if group.HasMember(recipientID) {
		return nil, ErrAlreadyMember
	}

	pending, err := w.store.HasPendingInvitation(ctx, groupID, recipientID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrDuplicatePending
	}

	inv := &models.Invitation{
		GroupID:     groupID,
		SenderID:    actorID,
		RecipientID: recipientID,
		Status:      models.InvitationPending,
		GroupName:   group.Name,
		Sender:      group.Admin,
		Recipient:   recipient.Ref(),
	}
	if err := w.store.CreateInvitation(ctx, inv); err != nil {
		// Lost a race with a concurrent invite for the same pair.
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrDuplicatePending
		}
		return nil, err
	}

	w.record(ctx, group, group.Admin, models.ActivityInviteUser)

	if w.publisher != nil {
		w.publisher.Publish(realtime.NewUserEvent(realtime.EventInvitation, recipientID, api.FromInvitation(inv)))
	}
	w.notifier.Send(ctx, recipient, notify.Notification{
		Title: "New invitation",
		Body:  fmt.Sprintf("%s invited you to join %s", group.Admin.Name, group.Name),
	})

	return inv, nil
}

// Accept resolves a pending invitation and adds the recipient to the group.
//
// The status transition and the member insert are two separate writes. The
// transition runs first so that only one accept can win; a crash between the
// two leaves an accepted invitation whose recipient is not yet a member.
func (w *Workflow) Accept(ctx context.Context, invitationID, actorID string) (*models.Invitation, *models.Group, error) {
	inv, err := w.resolve(ctx, invitationID, actorID, models.InvitationAccepted)
	if err != nil {
		return nil, nil, err
	}

	if _, err := w.store.AddMember(ctx, inv.GroupID, actorID); err != nil {
		w.logger.Error("Invitation accepted but member insert failed",
			"invitation_id", inv.ID,
			"group_id", inv.GroupID,
			"user_id", actorID,
			"error", err,
		)
		return nil, nil, err
	}

	group, err := w.store.GetGroup(ctx, inv.GroupID)
	if err != nil {
		return nil, nil, err
	}

	w.record(ctx, group, inv.Recipient, models.ActivityAcceptInvitation)
	return inv, group, nil
}

// Reject resolves a pending invitation without touching the member set.
func (w *Workflow) Reject(ctx context.Context, invitationID, actorID string) (*models.Invitation, error) {
	inv, err := w.resolve(ctx, invitationID, actorID, models.InvitationRejected)
	if err != nil {
		return nil, err
	}

	w.recorder.Record(ctx, inv.GroupID, inv.Recipient, models.ActivityRejectInvitation,
		activity.Describe(models.ActivityRejectInvitation, inv.Recipient.Name, inv.GroupName))
	return inv, nil
}

func (w *Workflow) resolve(ctx context.Context, invitationID, actorID string, to models.InvitationStatus) (*models.Invitation, error) {
	inv, err := w.store.GetInvitation(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if inv.RecipientID != actorID {
		return nil, fmt.Errorf("%w: invitation belongs to another user", ErrForbidden)
	}
	if !inv.Status.CanTransitionTo(to) {
		return nil, ErrAlreadyResolved
	}

	if err := w.store.ResolveInvitation(ctx, invitationID, to); err != nil {
		if errors.Is(err, storage.ErrStaleState) {
			return nil, ErrAlreadyResolved
		}
		return nil, err
	}

	// Re-read for ResolvedAt.
	return w.store.GetInvitation(ctx, invitationID)
}

func (w *Workflow) record(ctx context.Context, group *models.Group, actor models.UserRef, kind models.ActivityKind) {
	w.recorder.Record(ctx, group.ID, actor, kind, activity.Describe(kind, actor.Name, group.Name))
}
