package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/rsvp/internal/models"
	"github.com/mmynk/rsvp/internal/storage"
)

// CodeOf maps an engine error onto a Connect code.
func CodeOf(err error) connect.Code {
	switch {
	case models.IsValidation(err):
		return connect.CodeInvalidArgument
	case models.IsNotFound(err), errors.Is(err, storage.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, storage.ErrConflict):
		return connect.CodeAborted
	case errors.Is(err, context.Canceled):
		return connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	default:
		return connect.CodeInternal
	}
}

func toConnectError(err error) *connect.Error {
	return connect.NewError(CodeOf(err), err)
}
