// Package activity keeps the per-group audit trail and announces each entry
// to the group's realtime topic.
package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tontine-app/tontine/internal/models"
	"github.com/tontine-app/tontine/internal/realtime"
	"github.com/tontine-app/tontine/internal/storage"
	"github.com/tontine-app/tontine/pkg/api"
)

// Recorder appends activity events. Recording is best-effort: a failure is
// logged and never returned, so it cannot mask the outcome of the operation
// being recorded.
type Recorder struct {
	store     storage.ActivityStore
	publisher realtime.Publisher
	logger    *slog.Logger
}

// NewRecorder creates a Recorder. publisher may be nil.
func NewRecorder(store storage.ActivityStore, publisher realtime.Publisher, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: store, publisher: publisher, logger: logger}
}

// Record appends an event for groupID and publishes it as an action event.
// The event is published even when the append fails, so connected members
// still see the change. It returns the stored event, or nil if the append
// failed.
func (r *Recorder) Record(ctx context.Context, groupID string, actor models.UserRef, kind models.ActivityKind, description string) *models.ActivityEvent {
	event := &models.ActivityEvent{
		GroupID:     groupID,
		ActorID:     actor.ID,
		Actor:       actor,
		Kind:        kind,
		Description: description,
	}

	if err := r.store.AppendActivity(ctx, event); err != nil {
		r.logger.Error("Failed to record activity",
			"group_id", groupID,
			"actor_id", actor.ID,
			"kind", kind,
			"error", err,
		)
		if event.CreatedAt == 0 {
			event.CreatedAt = time.Now().Unix()
		}
		r.publish(event)
		return nil
	}

	r.publish(event)
	return event
}

func (r *Recorder) publish(event *models.ActivityEvent) {
	if r.publisher != nil {
		r.publisher.Publish(realtime.NewGroupEvent(realtime.EventAction, event.GroupID, api.FromActivity(event)))
	}
}

// Describe renders the human readable text stored with an event.
func Describe(kind models.ActivityKind, actorName, groupName string) string {
	switch kind {
	case models.ActivityCreateGroup:
		return fmt.Sprintf("%s created the group %s", actorName, groupName)
	case models.ActivityUpdateGroup:
		return fmt.Sprintf("%s updated the group %s", actorName, groupName)
	case models.ActivityDeleteGroup:
		return fmt.Sprintf("%s deleted the group %s", actorName, groupName)
	case models.ActivityJoinGroup:
		return fmt.Sprintf("%s joined %s", actorName, groupName)
	case models.ActivityInviteUser:
		return fmt.Sprintf("%s sent an invitation to join %s", actorName, groupName)
	case models.ActivityAcceptInvitation:
		return fmt.Sprintf("%s accepted the invitation to %s", actorName, groupName)
	case models.ActivityRejectInvitation:
		return fmt.Sprintf("%s declined the invitation to %s", actorName, groupName)
	case models.ActivityAddContribution:
		return fmt.Sprintf("%s recorded a contribution to %s", actorName, groupName)
	case models.ActivityCreateTurn:
		return fmt.Sprintf("%s scheduled a turn in %s", actorName, groupName)
	case models.ActivityPayTurn:
		return fmt.Sprintf("%s marked a turn as paid in %s", actorName, groupName)
	default:
		return fmt.Sprintf("%s: %s in %s", actorName, kind, groupName)
	}
}
