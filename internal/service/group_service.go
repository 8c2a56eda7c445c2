package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/tontine-app/tontine/internal/activity"
	"github.com/tontine-app/tontine/internal/calculator"
	"github.com/tontine-app/tontine/internal/membership"
	"github.com/tontine-app/tontine/internal/models"
	"github.com/tontine-app/tontine/internal/storage"
	"github.com/tontine-app/tontine/pkg/api"
	"github.com/tontine-app/tontine/pkg/api/apiconnect"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	store    storage.Store
	workflow *membership.Workflow
	recorder *activity.Recorder
	logger   *slog.Logger
}

var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, workflow *membership.Workflow, recorder *activity.Recorder, logger *slog.Logger) *GroupService {
	return &GroupService{store: store, workflow: workflow, recorder: recorder, logger: logger}
}

// CreateGroup creates a new group with the caller as admin and first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CreateGroup request received", "user_id", userID, "name", req.Msg.Name)

	group, err := s.workflow.CreateGroup(ctx, userID, membership.GroupInput{
		Name:      req.Msg.Name,
		Amount:    req.Msg.Amount,
		Frequency: models.Frequency(req.Msg.Frequency),
	})
	if err != nil {
		return nil, toConnectError(s.logger, "CreateGroup", err)
	}

	s.logger.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&api.CreateGroupResponse{Group: api.FromGroup(group)}), nil
}

// ListMyGroups returns every group the caller belongs to.
func (s *GroupService) ListMyGroups(ctx context.Context, req *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, toConnectError(s.logger, "ListMyGroups", err)
	}

	s.logger.Info("ListMyGroups successful", "user_id", userID, "count", len(groups))
	return connect.NewResponse(&api.ListMyGroupsResponse{Groups: api.FromGroups(groups)}), nil
}

// GetGroup retrieves a group by ID. Any signed-in user may look a group up,
// since groups are open to direct joining.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	if req.Msg.GroupID == "" {
		return nil, toConnectError(s.logger, "GetGroup", errGroupIDRequired)
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(s.logger, "GetGroup", err)
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: api.FromGroup(group)}), nil
}

// UpdateGroup changes name, amount and frequency. Admin only.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("UpdateGroup request received", "group_id", req.Msg.GroupID, "user_id", userID)

	group, err := s.workflow.RequireAdmin(ctx, req.Msg.GroupID, userID)
	if err != nil {
		return nil, toConnectError(s.logger, "UpdateGroup", err)
	}

	in := membership.GroupInput{
		Name:      req.Msg.Name,
		Amount:    req.Msg.Amount,
		Frequency: models.Frequency(req.Msg.Frequency),
	}
	if err := in.Validate(); err != nil {
		return nil, toConnectError(s.logger, "UpdateGroup", err)
	}

	group.Name, group.Amount, group.Frequency = in.Name, in.Amount, in.Frequency
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, toConnectError(s.logger, "UpdateGroup", err)
	}

	s.recorder.Record(ctx, group.ID, group.Admin, models.ActivityUpdateGroup,
		activity.Describe(models.ActivityUpdateGroup, group.Admin.Name, group.Name))

	s.logger.Info("Group updated", "group_id", group.ID)
	return connect.NewResponse(&api.UpdateGroupResponse{Group: api.FromGroup(group)}), nil
}

// DeleteGroup removes a group. Admin only. Its contributions and activity
// log are kept.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("DeleteGroup request received", "group_id", req.Msg.GroupID, "user_id", userID)

	group, err := s.workflow.RequireAdmin(ctx, req.Msg.GroupID, userID)
	if err != nil {
		return nil, toConnectError(s.logger, "DeleteGroup", err)
	}

	if err := s.store.DeleteGroup(ctx, group.ID); err != nil {
		return nil, toConnectError(s.logger, "DeleteGroup", err)
	}

	s.recorder.Record(ctx, group.ID, group.Admin, models.ActivityDeleteGroup,
		activity.Describe(models.ActivityDeleteGroup, group.Admin.Name, group.Name))

	s.logger.Info("Group deleted", "group_id", group.ID)
	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// JoinGroup adds the caller to a group without admin consent.
func (s *GroupService) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.GroupID == "" {
		return nil, toConnectError(s.logger, "JoinGroup", errGroupIDRequired)
	}

	group, joined, err := s.workflow.Join(ctx, req.Msg.GroupID, userID)
	if err != nil {
		return nil, toConnectError(s.logger, "JoinGroup", err)
	}

	s.logger.Info("JoinGroup successful", "group_id", group.ID, "user_id", userID, "joined", joined)
	return connect.NewResponse(&api.JoinGroupResponse{Group: api.FromGroup(group), Joined: joined}), nil
}

// ListActivity returns a group's audit trail, newest first. Members only.
func (s *GroupService) ListActivity(ctx context.Context, req *connect.Request[api.ListActivityRequest]) (*connect.Response[api.ListActivityResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, toConnectError(s.logger, "ListActivity", err)
	}

	events, err := s.store.ListActivityByGroup(ctx, req.Msg.GroupID, pageLimit(req.Msg.Limit, 50, 200))
	if err != nil {
		return nil, toConnectError(s.logger, "ListActivity", err)
	}

	return connect.NewResponse(&api.ListActivityResponse{Events: api.FromActivities(events)}), nil
}

// GetGroupSummary aggregates the group's contributions and turns. Members only.
func (s *GroupService) GetGroupSummary(ctx context.Context, req *connect.Request[api.GetGroupSummaryRequest]) (*connect.Response[api.GetGroupSummaryResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	group, err := requireMember(ctx, s.store, req.Msg.GroupID, userID)
	if err != nil {
		return nil, toConnectError(s.logger, "GetGroupSummary", err)
	}

	contributions, err := s.store.ListContributionsByGroup(ctx, group.ID)
	if err != nil {
		return nil, toConnectError(s.logger, "GetGroupSummary", err)
	}
	turns, err := s.store.ListTurnsByGroup(ctx, group.ID)
	if err != nil {
		return nil, toConnectError(s.logger, "GetGroupSummary", err)
	}

	// Convert to calculator format
	deposits := make([]calculator.Deposit, len(contributions))
	users := make(map[string]models.UserRef, len(group.Members))
	for _, m := range group.Members {
		users[m.ID] = m
	}
	for i, c := range contributions {
		deposits[i] = calculator.Deposit{UserID: c.UserID, Amount: c.Amount, Paid: c.Paid}
		if _, ok := users[c.UserID]; !ok {
			users[c.UserID] = c.User
		}
	}
	payouts := make([]calculator.Payout, len(turns))
	turnsByID := make(map[string]*models.Turn, len(turns))
	for i, t := range turns {
		payouts[i] = calculator.Payout{
			TurnID:        t.ID,
			BeneficiaryID: t.BeneficiaryID,
			Order:         t.Order,
			ScheduledAt:   t.ScheduledAt,
			IsPaid:        t.IsPaid,
		}
		turnsByID[t.ID] = t
		if _, ok := users[t.BeneficiaryID]; !ok {
			users[t.BeneficiaryID] = t.Beneficiary
		}
	}

	pool := calculator.SummarizePool(group.MemberIDs(), deposits, payouts)

	summary := &api.GroupSummary{
		GroupID:          group.ID,
		ExpectedAmount:   group.Amount,
		TotalContributed: pool.TotalContributed,
		TotalOutstanding: pool.TotalOutstanding,
		TurnsScheduled:   pool.TurnsScheduled,
		TurnsPaid:        pool.TurnsPaid,
		Members:          make([]*api.MemberStanding, len(pool.Members)),
	}
	if next, ok := turnsByID[pool.NextTurnID]; ok {
		summary.NextTurn = api.FromTurn(next)
	}
	for i, m := range pool.Members {
		summary.Members[i] = &api.MemberStanding{
			User:          api.FromUserRef(users[m.UserID]),
			Contributed:   m.Contributed,
			Outstanding:   m.Outstanding,
			Deposits:      m.Deposits,
			TurnsReceived: m.TurnsReceived,
		}
	}

	s.logger.Info("GetGroupSummary successful",
		"group_id", group.ID,
		"contributions_count", len(contributions),
		"turns_count", len(turns),
	)
	return connect.NewResponse(&api.GetGroupSummaryResponse{Summary: summary}), nil
}
