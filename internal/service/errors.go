package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/tontine-app/tontine/internal/auth"
	"github.com/tontine-app/tontine/internal/membership"
	"github.com/tontine-app/tontine/internal/middleware"
	"github.com/tontine-app/tontine/internal/storage"
)

var (
	errGroupIDRequired = fmt.Errorf("%w: group_id required", membership.ErrInvalidArgument)
	errNotMember       = fmt.Errorf("%w: not a member of this group", membership.ErrForbidden)
)

// toConnectError maps domain errors onto Connect codes. Anything unknown is
// logged and reported as internal.
func toConnectError(logger *slog.Logger, op string, err error) error {
	var code connect.Code
	switch {
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		code = connect.CodeUnauthenticated
	case errors.Is(err, membership.ErrForbidden):
		code = connect.CodePermissionDenied
	case errors.Is(err, storage.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, membership.ErrInvalidStateTransition):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, membership.ErrAlreadyMember), errors.Is(err, membership.ErrDuplicatePending),
		errors.Is(err, auth.ErrEmailExists), errors.Is(err, storage.ErrDuplicate):
		code = connect.CodeAlreadyExists
	case errors.Is(err, membership.ErrInvalidArgument), errors.Is(err, auth.ErrWeakPassword):
		code = connect.CodeInvalidArgument
	default:
		logger.Error(op+" failed", "error", err)
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}

	logger.Warn(op+" rejected", "code", code, "error", err)
	return connect.NewError(code, err)
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", membership.ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// callerID returns the authenticated user, or an Unauthenticated error when
// the auth interceptor did not run.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}
