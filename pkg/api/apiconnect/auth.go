package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/tontine-app/tontine/pkg/api"
)

// AuthServiceName is the fully-qualified name of the AuthService.
const AuthServiceName = "tontine.v1.AuthService"

// Procedure paths, used for routing and in interceptors.
const (
	AuthServiceRegisterProcedure           = "/tontine.v1.AuthService/Register"
	AuthServiceLoginProcedure              = "/tontine.v1.AuthService/Login"
	AuthServiceLogoutProcedure             = "/tontine.v1.AuthService/Logout"
	AuthServiceGetCurrentUserProcedure     = "/tontine.v1.AuthService/GetCurrentUser"
	AuthServiceUpdatePushEndpointProcedure = "/tontine.v1.AuthService/UpdatePushEndpoint"
)

// AuthServiceClient is a client for the AuthService.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	Logout(context.Context, *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
	UpdatePushEndpoint(context.Context, *connect.Request[api.UpdatePushEndpointRequest]) (*connect.Response[api.UpdatePushEndpointResponse], error)
}

// NewAuthServiceClient constructs a client for the AuthService. baseURL is the
// server root, e.g. http://localhost:8080.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &authServiceClient{
		register:           connect.NewClient[api.RegisterRequest, api.RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:              connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		logout:             connect.NewClient[api.LogoutRequest, api.LogoutResponse](httpClient, baseURL+AuthServiceLogoutProcedure, opts...),
		getCurrentUser:     connect.NewClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
		updatePushEndpoint: connect.NewClient[api.UpdatePushEndpointRequest, api.UpdatePushEndpointResponse](httpClient, baseURL+AuthServiceUpdatePushEndpointProcedure, opts...),
	}
}

type authServiceClient struct {
	register           *connect.Client[api.RegisterRequest, api.RegisterResponse]
	login              *connect.Client[api.LoginRequest, api.LoginResponse]
	logout             *connect.Client[api.LogoutRequest, api.LogoutResponse]
	getCurrentUser     *connect.Client[api.GetCurrentUserRequest, api.GetCurrentUserResponse]
	updatePushEndpoint *connect.Client[api.UpdatePushEndpointRequest, api.UpdatePushEndpointResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	return c.logout.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

func (c *authServiceClient) UpdatePushEndpoint(ctx context.Context, req *connect.Request[api.UpdatePushEndpointRequest]) (*connect.Response[api.UpdatePushEndpointResponse], error) {
	return c.updatePushEndpoint.CallUnary(ctx, req)
}

// AuthServiceHandler is implemented by the server side of the AuthService.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	Logout(context.Context, *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
	UpdatePushEndpoint(context.Context, *connect.Request[api.UpdatePushEndpointRequest]) (*connect.Response[api.UpdatePushEndpointResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return route(AuthServiceName, map[string]http.Handler{
		AuthServiceRegisterProcedure:           connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...),
		AuthServiceLoginProcedure:              connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...),
		AuthServiceLogoutProcedure:             connect.NewUnaryHandler(AuthServiceLogoutProcedure, svc.Logout, opts...),
		AuthServiceGetCurrentUserProcedure:     connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...),
		AuthServiceUpdatePushEndpointProcedure: connect.NewUnaryHandler(AuthServiceUpdatePushEndpointProcedure, svc.UpdatePushEndpoint, opts...),
	})
}
