package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/tontine-app/tontine/pkg/api"
)

// UserServiceName is the fully-qualified name of the UserService.
const UserServiceName = "tontine.v1.UserService"

// Procedure paths, used for routing and in interceptors.
const (
	UserServiceListUsersProcedure      = "/tontine.v1.UserService/ListUsers"
	UserServiceGetReliabilityProcedure = "/tontine.v1.UserService/GetReliability"
)

// UserServiceClient is a client for the UserService.
type UserServiceClient interface {
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
	GetReliability(context.Context, *connect.Request[api.GetReliabilityRequest]) (*connect.Response[api.GetReliabilityResponse], error)
}

// NewUserServiceClient constructs a client for the UserService. baseURL is the
// server root, e.g. http://localhost:8080.
func NewUserServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) UserServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &userServiceClient{
		listUsers:      connect.NewClient[api.ListUsersRequest, api.ListUsersResponse](httpClient, baseURL+UserServiceListUsersProcedure, opts...),
		getReliability: connect.NewClient[api.GetReliabilityRequest, api.GetReliabilityResponse](httpClient, baseURL+UserServiceGetReliabilityProcedure, opts...),
	}
}

type userServiceClient struct {
	listUsers      *connect.Client[api.ListUsersRequest, api.ListUsersResponse]
	getReliability *connect.Client[api.GetReliabilityRequest, api.GetReliabilityResponse]
}

func (c *userServiceClient) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	return c.listUsers.CallUnary(ctx, req)
}

func (c *userServiceClient) GetReliability(ctx context.Context, req *connect.Request[api.GetReliabilityRequest]) (*connect.Response[api.GetReliabilityResponse], error) {
	return c.getReliability.CallUnary(ctx, req)
}

// UserServiceHandler is implemented by the server side of the UserService.
type UserServiceHandler interface {
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
	GetReliability(context.Context, *connect.Request[api.GetReliabilityRequest]) (*connect.Response[api.GetReliabilityResponse], error)
}

// NewUserServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewUserServiceHandler(svc UserServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return route(UserServiceName, map[string]http.Handler{
		UserServiceListUsersProcedure:      connect.NewUnaryHandler(UserServiceListUsersProcedure, svc.ListUsers, opts...),
		UserServiceGetReliabilityProcedure: connect.NewUnaryHandler(UserServiceGetReliabilityProcedure, svc.GetReliability, opts...),
	})
}
