package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/tadpole/internal/client/validation"
	"github.com/dmitrijs2005/tadpole/internal/common"
)

var (
	errUsageID          = errors.New("usage: <command> <id>")
	errInvalidID        = errors.New("identifier must be a positive number")
	errPasswordMismatch = errors.New("passwords do not match")
)

// describe turns a command error into the message shown to the user.
// Storage details are logged by the services and not repeated here.
func describe(err error) string {
	var fe *validation.FieldError
	switch {
	case errors.As(err, &fe):
		return "invalid " + fe.Field + ": " + fe.Err.Error()
	case errors.Is(err, common.ErrDuplicateUser):
		return "a user with this identifier or login name already exists"
	case errors.Is(err, common.ErrProtectedAccount):
		return "the administrator account cannot be deleted"
	case errors.Is(err, common.ErrProtectedField):
		return "identity fields of the administrator cannot be changed"
	case errors.Is(err, common.ErrorNotFound):
		return "user not found"
	case errors.Is(err, common.ErrAuthenticationFailed):
		return "invalid login name or password"
	case errors.Is(err, common.ErrNotLoggedIn):
		return "not logged in"
	case errors.Is(err, common.ErrStorage):
		return "the directory store is unavailable, try again later"
	case errors.Is(err, common.ErrQueueClosed):
		return "the directory is shutting down"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	return err.Error()
}
