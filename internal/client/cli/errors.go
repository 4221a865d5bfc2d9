package cli

import (
	"errors"

	"shelftrack/internal/common"
)

// describeError turns a taxonomy error into the message shown to the user.
func describeError(err error) string {
	switch {
	case errors.Is(err, common.ErrUnauthenticated):
		return "You are not signed in."
	case errors.Is(err, common.ErrForbidden):
		return "You don't have permission for this record."
	case errors.Is(err, common.ErrPermissionDenied):
		return "The server rejected this action."
	case errors.Is(err, common.ErrNotFound):
		return "Record not found."
	case errors.Is(err, common.ErrUnavailable):
		return "Connection error. Check your internet."
	case errors.Is(err, common.ErrTimeout):
		return "The operation timed out. Try again."
	case errors.Is(err, common.ErrEmailTaken):
		return "That email is already registered."
	case errors.Is(err, common.ErrBadCredentials):
		return "Invalid email or password."
	default:
		return "Error: " + err.Error()
	}
}
