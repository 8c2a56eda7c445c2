package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/tontine-app/tontine/internal/calculator"
	"github.com/tontine-app/tontine/internal/storage"
	"github.com/tontine-app/tontine/pkg/api"
	"github.com/tontine-app/tontine/pkg/api/apiconnect"
)

// UserService implements the Connect UserService: the user directory and
// reliability scores.
type UserService struct {
	store  storage.Store
	logger *slog.Logger
}

var _ apiconnect.UserServiceHandler = (*UserService)(nil)

func NewUserService(store storage.Store, logger *slog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// ListUsers returns every user except the caller, for picking invitees.
func (s *UserService) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.store.ListUsersExcept(ctx, userID)
	if err != nil {
		return nil, toConnectError(s.logger, "ListUsers", err)
	}

	return connect.NewResponse(&api.ListUsersResponse{Users: api.FromUsers(users)}), nil
}

// GetReliability scores a user, the caller by default, from their
// contribution history and chat participation.
func (s *UserService) GetReliability(ctx context.Context, req *connect.Request[api.GetReliabilityRequest]) (*connect.Response[api.GetReliabilityResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.UserID != "" {
		userID = req.Msg.UserID
	}

	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, toConnectError(s.logger, "GetReliability", err)
	}
	contributions, err := s.store.ListContributionsByUser(ctx, userID)
	if err != nil {
		return nil, toConnectError(s.logger, "GetReliability", err)
	}
	counts, err := s.store.CountMessages(ctx, userID)
	if err != nil {
		return nil, toConnectError(s.logger, "GetReliability", err)
	}

	in := calculator.ReliabilityInput{Contributions: len(contributions)}
	for _, c := range contributions {
		if c.Paid {
			in.PaidContributions++
		}
	}
	for _, c := range counts {
		in.Chats = append(in.Chats, calculator.GroupChat{Members: c.MemberCount, Total: c.Total, ByUser: c.ByUser})
	}
	score := calculator.Reliability(in)

	s.logger.Debug("Reliability computed", "user_id", userID, "score", score.Score)
	return connect.NewResponse(&api.GetReliabilityResponse{Reliability: &api.Reliability{
		UserID:            userID,
		Score:             score.Score,
		PaidRatio:         score.PaidRatio,
		Participation:     score.Participation,
		Contributions:     in.Contributions,
		PaidContributions: in.PaidContributions,
		Messages:          score.Messages,
	}}), nil
}
