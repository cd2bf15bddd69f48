package server

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/sprintboard/internal/workflow"
)

var errInternal = errors.New("internal error")

// toConnectError maps the workflow error taxonomy to connect codes. Errors
// outside the taxonomy are logged and returned without detail.
func toConnectError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, workflow.ErrUnauthorized):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, workflow.ErrForbidden):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, workflow.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, workflow.ErrConflict):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, workflow.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		zerolog.Ctx(ctx).Error().Err(err).Msg("Request failed")
		return connect.NewError(connect.CodeInternal, errInternal)
	}
}

func invalidArgument(field, msg string) error {
	return connect.NewError(connect.CodeInvalidArgument, &workflow.ValidationError{Field: field, Message: msg})
}
