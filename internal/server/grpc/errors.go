package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/notespal/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors to gRPC statuses. Internal details are
// logged, never returned.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorNoteUnavailable):
		return status.Error(codes.NotFound, common.ErrorNoteUnavailable.Error())
	case errors.Is(err, common.ErrorUserNotFound):
		return status.Error(codes.NotFound, common.ErrorUserNotFound.Error())
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		s.logger.Error(ctx, "request failed", "error", err.Error())
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
}
