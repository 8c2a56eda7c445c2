package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/tontine-app/tontine/internal/membership"
	"github.com/tontine-app/tontine/internal/storage"
	"github.com/tontine-app/tontine/pkg/api"
	"github.com/tontine-app/tontine/pkg/api/apiconnect"
)

// InvitationService implements the Connect InvitationService on top of the
// membership workflow.
type InvitationService struct {
	store    storage.Store
	workflow *membership.Workflow
	logger   *slog.Logger
}

var _ apiconnect.InvitationServiceHandler = (*InvitationService)(nil)

func NewInvitationService(store storage.Store, workflow *membership.Workflow, logger *slog.Logger) *InvitationService {
	return &InvitationService{store: store, workflow: workflow, logger: logger}
}

func (s *InvitationService) CreateInvitation(ctx context.Context, req *connect.Request[api.CreateInvitationRequest]) (*connect.Response[api.CreateInvitationResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CreateInvitation request received",
		"group_id", req.Msg.GroupID,
		"sender_id", userID,
		"recipient_id", req.Msg.RecipientID,
	)
	if req.Msg.GroupID == "" {
		return nil, toConnectError(s.logger, "CreateInvitation", errGroupIDRequired)
	}
	if req.Msg.RecipientID == "" {
		return nil, toConnectError(s.logger, "CreateInvitation", invalidArgument("recipient_id required"))
	}

	inv, err := s.workflow.Invite(ctx, req.Msg.GroupID, userID, req.Msg.RecipientID)
	if err != nil {
		return nil, toConnectError(s.logger, "CreateInvitation", err)
	}

	return connect.NewResponse(&api.CreateInvitationResponse{Invitation: api.FromInvitation(inv)}), nil
}

// ListPendingInvitations returns the caller's unresolved invitations.
func (s *InvitationService) ListPendingInvitations(ctx context.Context, req *connect.Request[api.ListPendingInvitationsRequest]) (*connect.Response[api.ListPendingInvitationsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	invs, err := s.store.ListPendingForRecipient(ctx, userID)
	if err != nil {
		return nil, toConnectError(s.logger, "ListPendingInvitations", err)
	}

	return connect.NewResponse(&api.ListPendingInvitationsResponse{Invitations: api.FromInvitations(invs)}), nil
}

// AcceptInvitation resolves the invitation and adds the caller to its group.
func (s *InvitationService) AcceptInvitation(ctx context.Context, req *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.InvitationID == "" {
		return nil, toConnectError(s.logger, "AcceptInvitation", invalidArgument("invitation_id required"))
	}

	inv, group, err := s.workflow.Accept(ctx, req.Msg.InvitationID, userID)
	if err != nil {
		return nil, toConnectError(s.logger, "AcceptInvitation", err)
	}

	s.logger.Info("Invitation accepted", "invitation_id", inv.ID, "group_id", group.ID, "user_id", userID)
	return connect.NewResponse(&api.AcceptInvitationResponse{
		Invitation: api.FromInvitation(inv),
		Group:      api.FromGroup(group),
	}), nil
}

func (s *InvitationService) RejectInvitation(ctx context.Context, req *connect.Request[api.RejectInvitationRequest]) (*connect.Response[api.RejectInvitationResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.InvitationID == "" {
		return nil, toConnectError(s.logger, "RejectInvitation", invalidArgument("invitation_id required"))
	}

	inv, err := s.workflow.Reject(ctx, req.Msg.InvitationID, userID)
	if err != nil {
		return nil, toConnectError(s.logger, "RejectInvitation", err)
	}

	s.logger.Info("Invitation rejected", "invitation_id", inv.ID, "user_id", userID)
	return connect.NewResponse(&api.RejectInvitationResponse{Invitation: api.FromInvitation(inv)}), nil
}
