package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/tontine-app/tontine/internal/activity"
	"github.com/tontine-app/tontine/internal/membership"
	"github.com/tontine-app/tontine/internal/models"
	"github.com/tontine-app/tontine/internal/storage"
	"github.com/tontine-app/tontine/pkg/api"
	"github.com/tontine-app/tontine/pkg/api/apiconnect"
)

// TurnService implements the Connect TurnService. Turns are manual
// bookkeeping: order values are admin-assigned and not checked for
// uniqueness or gaps, and nothing advances automatically.
type TurnService struct {
	store    storage.Store
	workflow *membership.Workflow
	recorder *activity.Recorder
	logger   *slog.Logger
}

var _ apiconnect.TurnServiceHandler = (*TurnService)(nil)

func NewTurnService(store storage.Store, workflow *membership.Workflow, recorder *activity.Recorder, logger *slog.Logger) *TurnService {
	return &TurnService{store: store, workflow: workflow, recorder: recorder, logger: logger}
}

// CreateTurn schedules a payout to a member. Admin only.
func (s *TurnService) CreateTurn(ctx context.Context, req *connect.Request[api.CreateTurnRequest]) (*connect.Response[api.CreateTurnResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CreateTurn request received",
		"group_id", req.Msg.GroupID,
		"beneficiary_id", req.Msg.BeneficiaryID,
		"order", req.Msg.Order,
	)

	group, err := s.workflow.RequireAdmin(ctx, req.Msg.GroupID, userID)
	if err != nil {
		return nil, toConnectError(s.logger, "CreateTurn", err)
	}
	if !group.HasMember(req.Msg.BeneficiaryID) {
		return nil, toConnectError(s.logger, "CreateTurn", invalidArgument("beneficiary must be a group member"))
	}
	if req.Msg.ScheduledAt <= 0 {
		return nil, toConnectError(s.logger, "CreateTurn", invalidArgument("scheduledAt is required"))
	}

	turn := &models.Turn{
		GroupID:       group.ID,
		BeneficiaryID: req.Msg.BeneficiaryID,
		Order:         req.Msg.Order,
		ScheduledAt:   req.Msg.ScheduledAt,
	}
	if err := s.store.CreateTurn(ctx, turn); err != nil {
		return nil, toConnectError(s.logger, "CreateTurn", err)
	}
	created, err := s.store.GetTurn(ctx, turn.ID)
	if err != nil {
		return nil, toConnectError(s.logger, "CreateTurn", err)
	}

	s.recorder.Record(ctx, group.ID, group.Admin, models.ActivityCreateTurn,
		activity.Describe(models.ActivityCreateTurn, group.Admin.Name, group.Name))

	s.logger.Info("Turn created", "turn_id", created.ID, "group_id", group.ID)
	return connect.NewResponse(&api.CreateTurnResponse{Turn: api.FromTurn(created)}), nil
}

// ListTurns returns a group's turns in order. Members only.
func (s *TurnService) ListTurns(ctx context.Context, req *connect.Request[api.ListTurnsRequest]) (*connect.Response[api.ListTurnsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, toConnectError(s.logger, "ListTurns", err)
	}

	turns, err := s.store.ListTurnsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(s.logger, "ListTurns", err)
	}

	return connect.NewResponse(&api.ListTurnsResponse{Turns: api.FromTurns(turns)}), nil
}

// PayTurn marks a turn paid. Admin only. Paying a paid turn changes nothing
// and records nothing.
func (s *TurnService) PayTurn(ctx context.Context, req *connect.Request[api.PayTurnRequest]) (*connect.Response[api.PayTurnResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.TurnID == "" {
		return nil, toConnectError(s.logger, "PayTurn", invalidArgument("turn_id required"))
	}

	turn, err := s.store.GetTurn(ctx, req.Msg.TurnID)
	if err != nil {
		return nil, toConnectError(s.logger, "PayTurn", err)
	}
	group, err := s.workflow.RequireAdmin(ctx, turn.GroupID, userID)
	if err != nil {
		return nil, toConnectError(s.logger, "PayTurn", err)
	}

	if !turn.IsPaid {
		if err := s.store.MarkTurnPaid(ctx, turn.ID); err != nil {
			return nil, toConnectError(s.logger, "PayTurn", err)
		}
		turn.IsPaid = true
		s.recorder.Record(ctx, group.ID, group.Admin, models.ActivityPayTurn,
			activity.Describe(models.ActivityPayTurn, group.Admin.Name, group.Name))
		s.logger.Info("Turn paid", "turn_id", turn.ID, "group_id", group.ID)
	}

	return connect.NewResponse(&api.PayTurnResponse{Turn: api.FromTurn(turn)}), nil
}
