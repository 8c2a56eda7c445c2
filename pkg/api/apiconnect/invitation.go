package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/tontine-app/tontine/pkg/api"
)

// InvitationServiceName is the fully-qualified name of the InvitationService.
const InvitationServiceName = "tontine.v1.InvitationService"

// Procedure paths, used for routing and in interceptors.
const (
	InvitationServiceCreateInvitationProcedure       = "/tontine.v1.InvitationService/CreateInvitation"
	InvitationServiceListPendingInvitationsProcedure = "/tontine.v1.InvitationService/ListPendingInvitations"
	InvitationServiceAcceptInvitationProcedure       = "/tontine.v1.InvitationService/AcceptInvitation"
	InvitationServiceRejectInvitationProcedure       = "/tontine.v1.InvitationService/RejectInvitation"
)

// InvitationServiceClient is a client for the InvitationService.
type InvitationServiceClient interface {
	CreateInvitation(context.Context, *connect.Request[api.CreateInvitationRequest]) (*connect.Response[api.CreateInvitationResponse], error)
	ListPendingInvitations(context.Context, *connect.Request[api.ListPendingInvitationsRequest]) (*connect.Response[api.ListPendingInvitationsResponse], error)
	AcceptInvitation(context.Context, *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error)
	RejectInvitation(context.Context, *connect.Request[api.RejectInvitationRequest]) (*connect.Response[api.RejectInvitationResponse], error)
}

// NewInvitationServiceClient constructs a client for the InvitationService. baseURL is the
// server root, e.g. http://localhost:8080.
func NewInvitationServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) InvitationServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &invitationServiceClient{
		createInvitation:       connect.NewClient[api.CreateInvitationRequest, api.CreateInvitationResponse](httpClient, baseURL+InvitationServiceCreateInvitationProcedure, opts...),
		listPendingInvitations: connect.NewClient[api.ListPendingInvitationsRequest, api.ListPendingInvitationsResponse](httpClient, baseURL+InvitationServiceListPendingInvitationsProcedure, opts...),
		acceptInvitation:       connect.NewClient[api.AcceptInvitationRequest, api.AcceptInvitationResponse](httpClient, baseURL+InvitationServiceAcceptInvitationProcedure, opts...),
		rejectInvitation:       connect.NewClient[api.RejectInvitationRequest, api.RejectInvitationResponse](httpClient, baseURL+InvitationServiceRejectInvitationProcedure, opts...),
	}
}

type invitationServiceClient struct {
	createInvitation       *connect.Client[api.CreateInvitationRequest, api.CreateInvitationResponse]
	listPendingInvitations *connect.Client[api.ListPendingInvitationsRequest, api.ListPendingInvitationsResponse]
	acceptInvitation       *connect.Client[api.AcceptInvitationRequest, api.AcceptInvitationResponse]
	rejectInvitation       *connect.Client[api.RejectInvitationRequest, api.RejectInvitationResponse]
}

func (c *invitationServiceClient) CreateInvitation(ctx context.Context, req *connect.Request[api.CreateInvitationRequest]) (*connect.Response[api.CreateInvitationResponse], error) {
	return c.createInvitation.CallUnary(ctx, req)
}

func (c *invitationServiceClient) ListPendingInvitations(ctx context.Context, req *connect.Request[api.ListPendingInvitationsRequest]) (*connect.Response[api.ListPendingInvitationsResponse], error) {
	return c.listPendingInvitations.CallUnary(ctx, req)
}

func (c *invitationServiceClient) AcceptInvitation(ctx context.Context, req *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error) {
	return c.acceptInvitation.CallUnary(ctx, req)
}

func (c *invitationServiceClient) RejectInvitation(ctx context.Context, req *connect.Request[api.RejectInvitationRequest]) (*connect.Response[api.RejectInvitationResponse], error) {
	return c.rejectInvitation.CallUnary(ctx, req)
}

// InvitationServiceHandler is implemented by the server side of the InvitationService.
type InvitationServiceHandler interface {
	CreateInvitation(context.Context, *connect.Request[api.CreateInvitationRequest]) (*connect.Response[api.CreateInvitationResponse], error)
	ListPendingInvitations(context.Context, *connect.Request[api.ListPendingInvitationsRequest]) (*connect.Response[api.ListPendingInvitationsResponse], error)
	AcceptInvitation(context.Context, *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error)
	RejectInvitation(context.Context, *connect.Request[api.RejectInvitationRequest]) (*connect.Response[api.RejectInvitationResponse], error)
}

// NewInvitationServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewInvitationServiceHandler(svc InvitationServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return route(InvitationServiceName, map[string]http.Handler{
		InvitationServiceCreateInvitationProcedure:       connect.NewUnaryHandler(InvitationServiceCreateInvitationProcedure, svc.CreateInvitation, opts...),
		InvitationServiceListPendingInvitationsProcedure: connect.NewUnaryHandler(InvitationServiceListPendingInvitationsProcedure, svc.ListPendingInvitations, opts...),
		InvitationServiceAcceptInvitationProcedure:       connect.NewUnaryHandler(InvitationServiceAcceptInvitationProcedure, svc.AcceptInvitation, opts...),
		InvitationServiceRejectInvitationProcedure:       connect.NewUnaryHandler(InvitationServiceRejectInvitationProcedure, svc.RejectInvitation, opts...),
	})
}
