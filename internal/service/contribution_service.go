package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/tontine-app/tontine/internal/activity"
	"github.com/tontine-app/tontine/internal/models"
	"github.com/tontine-app/tontine/internal/storage"
	"github.com/tontine-app/tontine/pkg/api"
	"github.com/tontine-app/tontine/pkg/api/apiconnect"
)

// ContributionService implements the Connect ContributionService. The
// contribution ledger is append-only: there is no update or delete.
type ContributionService struct {
	store    storage.Store
	recorder *activity.Recorder
	logger   *slog.Logger
}

var _ apiconnect.ContributionServiceHandler = (*ContributionService)(nil)

func NewContributionService(store storage.Store, recorder *activity.Recorder, logger *slog.Logger) *ContributionService {
	return &ContributionService{store: store, recorder: recorder, logger: logger}
}

// CreateContribution records a deposit by the caller into one of their groups.
// The amount is not checked against the group's configured amount.
func (s *ContributionService) CreateContribution(ctx context.Context, req *connect.Request[api.CreateContributionRequest]) (*connect.Response[api.CreateContributionResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CreateContribution request received",
		"group_id", req.Msg.GroupID,
		"user_id", userID,
		"amount", req.Msg.Amount,
	)

	if req.Msg.Amount <= 0 {
		return nil, toConnectError(s.logger, "CreateContribution", invalidArgument("amount must be positive"))
	}
	group, err := requireMember(ctx, s.store, req.Msg.GroupID, userID)
	if err != nil {
		return nil, toConnectError(s.logger, "CreateContribution", err)
	}

	paid := true
	if req.Msg.Paid != nil {
		paid = *req.Msg.Paid
	}
	contribution := &models.Contribution{
		GroupID: group.ID,
		UserID:  userID,
		Amount:  req.Msg.Amount,
		Paid:    paid,
	}
	if err := s.store.CreateContribution(ctx, contribution); err != nil {
		return nil, toConnectError(s.logger, "CreateContribution", err)
	}

	for _, m := range group.Members {
		if m.ID == userID {
			contribution.User = m
			break
		}
	}
	s.recorder.Record(ctx, group.ID, contribution.User, models.ActivityAddContribution,
		activity.Describe(models.ActivityAddContribution, contribution.User.Name, group.Name))

	s.logger.Info("Contribution recorded", "contribution_id", contribution.ID, "group_id", group.ID)
	return connect.NewResponse(&api.CreateContributionResponse{Contribution: api.FromContribution(contribution)}), nil
}

// ListContributions lists one user's contributions across all groups. The
// user defaults to the caller.
func (s *ContributionService) ListContributions(ctx context.Context, req *connect.Request[api.ListContributionsRequest]) (*connect.Response[api.ListContributionsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.UserID != "" {
		userID = req.Msg.UserID
	}

	contributions, err := s.store.ListContributionsByUser(ctx, userID)
	if err != nil {
		return nil, toConnectError(s.logger, "ListContributions", err)
	}

	s.logger.Info("ListContributions successful", "user_id", userID, "count", len(contributions))
	return connect.NewResponse(&api.ListContributionsResponse{Contributions: api.FromContributions(contributions)}), nil
}

// ListGroupContributions lists every contribution into a group. Members only.
func (s *ContributionService) ListGroupContributions(ctx context.Context, req *connect.Request[api.ListGroupContributionsRequest]) (*connect.Response[api.ListGroupContributionsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, toConnectError(s.logger, "ListGroupContributions", err)
	}

	contributions, err := s.store.ListContributionsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(s.logger, "ListGroupContributions", err)
	}

	return connect.NewResponse(&api.ListGroupContributionsResponse{Contributions: api.FromContributions(contributions)}), nil
}
