package membership

import (
	"errors"
	"fmt"
)

var (
	// ErrForbidden is returned when the caller is authenticated but not
	// allowed to perform the action (non-admin, wrong recipient).
	ErrForbidden = errors.New("forbidden")

	ErrAlreadyMember    = errors.New("user is already a member of the group")
	ErrDuplicatePending = errors.New("a pending invitation already exists for this user")

	// ErrInvalidStateTransition is returned for any transition out of a
	// terminal invitation state.
	ErrInvalidStateTransition = errors.New("invalid invitation state transition")

	// ErrAlreadyResolved is the accept/reject form of ErrInvalidStateTransition.
	ErrAlreadyResolved = fmt.Errorf("invitation already resolved: %w", ErrInvalidStateTransition)

	// ErrInvalidArgument wraps malformed input.
	ErrInvalidArgument = errors.New("invalid argument")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
