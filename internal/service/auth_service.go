package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/tontine-app/tontine/internal/auth"
	"github.com/tontine-app/tontine/internal/middleware"
	"github.com/tontine-app/tontine/internal/notify"
	"github.com/tontine-app/tontine/internal/storage"
	"github.com/tontine-app/tontine/pkg/api"
	"github.com/tontine-app/tontine/pkg/api/apiconnect"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         storage.UserStore
	logger        *slog.Logger
}

var _ apiconnect.AuthServiceHandler = (*AuthService)(nil)

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users storage.UserStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	email := strings.ToLower(strings.TrimSpace(req.Msg.Email))
	name := strings.TrimSpace(req.Msg.Name)
	s.logger.Info("Register request", "email", email)

	// Validate input
	if email == "" || !strings.Contains(email, "@") {
		return nil, toConnectError(s.logger, "Register", invalidArgument("a valid email is required"))
	}
	if name == "" {
		return nil, toConnectError(s.logger, "Register", invalidArgument("name is required"))
	}

	user, err := s.authenticator.Register(ctx, email, name, req.Msg.Password)
	if err != nil {
		return nil, toConnectError(s.logger, "Register", err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.RegisterResponse{
		Token: token,
		User:  api.ProfileFromUser(user),
	}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	email := strings.ToLower(strings.TrimSpace(req.Msg.Email))
	s.logger.Info("Login request", "email", email)

	if email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", email, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID)
	return connect.NewResponse(&api.LoginResponse{
		Token: token,
		User:  api.ProfileFromUser(user),
	}), nil
}

// Logout is a no-op: tokens are stateless and the client discards its copy.
func (s *AuthService) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	s.logger.Info("Logout request", "user_id", middleware.GetUserID(ctx))
	return connect.NewResponse(&api.LogoutResponse{}), nil
}

// GetCurrentUser returns the currently authenticated user's information.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		// A valid token for a deleted account.
		return nil, toConnectError(s.logger, "GetCurrentUser", err)
	}

	return connect.NewResponse(&api.GetCurrentUserResponse{User: api.ProfileFromUser(user)}), nil
}

// UpdatePushEndpoint sets or clears where offline notifications are sent.
func (s *AuthService) UpdatePushEndpoint(ctx context.Context, req *connect.Request[api.UpdatePushEndpointRequest]) (*connect.Response[api.UpdatePushEndpointResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := strings.TrimSpace(req.Msg.Endpoint)
	if endpoint != "" {
		if err := notify.ValidateEndpoint(endpoint); err != nil {
			return nil, toConnectError(s.logger, "UpdatePushEndpoint", invalidArgument("%v", err))
		}
	}

	if err := s.users.UpdatePushEndpoint(ctx, userID, endpoint); err != nil {
		return nil, toConnectError(s.logger, "UpdatePushEndpoint", err)
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, toConnectError(s.logger, "UpdatePushEndpoint", err)
	}

	s.logger.Info("Push endpoint updated", "user_id", userID, "enabled", endpoint != "")
	return connect.NewResponse(&api.UpdatePushEndpointResponse{User: api.ProfileFromUser(user)}), nil
}
