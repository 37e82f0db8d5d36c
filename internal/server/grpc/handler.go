package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/profiledash/internal/account"
	"github.com/dmitrijs2005/profiledash/internal/accountrpc"
	"github.com/dmitrijs2005/profiledash/internal/validate"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Authenticate(ctx context.Context, req *accountrpc.AuthenticateRequest) (*accountrpc.AuthenticateResponse, error) {
	summary, token, err := s.accounts.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &accountrpc.AuthenticateResponse{Account: summary, Token: token}, nil
}

func (s *GRPCServer) EndSession(ctx context.Context, _ *accountrpc.EndSessionRequest) (*accountrpc.EndSessionResponse, error) {
	if err := s.accounts.EndSession(ctx, tokenFromContext(ctx)); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &accountrpc.EndSessionResponse{Message: "Logged out successfully"}, nil
}

func (s *GRPCServer) FetchProfile(ctx context.Context, _ *accountrpc.FetchProfileRequest) (*accountrpc.ProfileResponse, error) {
	id, ok := accountIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, account.MsgMissingToken)
	}

	p, err := s.accounts.Profile(ctx, id)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &accountrpc.ProfileResponse{Profile: p}, nil
}

func (s *GRPCServer) UpdateProfile(ctx context.Context, req *accountrpc.UpdateProfileRequest) (*accountrpc.ProfileResponse, error) {
	id, ok := accountIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, account.MsgMissingToken)
	}

	p, err := s.accounts.UpdateProfile(ctx, id, req.Patch)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &accountrpc.ProfileResponse{Profile: p}, nil
}

// toStatus maps service errors onto gRPC status codes. The status message
// is the text the user will see.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	var verrs validate.Errors

	switch {
	case errors.Is(err, account.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, account.MsgInvalidCredentials)
	case errors.Is(err, account.ErrMissingToken):
		return status.Error(codes.Unauthenticated, account.MsgMissingToken)
	case errors.Is(err, account.ErrAccountNotFound):
		return status.Error(codes.NotFound, account.MsgAccountNotFound)
	case errors.As(err, &verrs):
		return status.Error(codes.InvalidArgument, verrs.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
