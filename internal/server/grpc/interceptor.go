package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/profiledash/internal/account"
	"github.com/dmitrijs2005/profiledash/internal/accountrpc"
	"github.com/dmitrijs2005/profiledash/internal/server/throttle"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

type ctxKey string

const (
	accountIDKey ctxKey = "accountID"
	tokenKey     ctxKey = "token"
)

// methods that need a resolved session
var authenticatedMethods = map[string]bool{
	accountrpc.MethodEndSession:    true,
	accountrpc.MethodFetchProfile:  true,
	accountrpc.MethodUpdateProfile: true,
}

func (s *GRPCServer) authInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !authenticatedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	token := accountrpc.TokenFromIncoming(ctx)
	if token == "" {
		return nil, status.Error(codes.Unauthenticated, account.MsgMissingToken)
	}

	id, err := s.accounts.ResolveToken(ctx, token)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	ctx = context.WithValue(ctx, accountIDKey, id)
	ctx = context.WithValue(ctx, tokenKey, token)

	return handler(ctx, req)
}

func (s *GRPCServer) throttleInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if info.FullMethod != accountrpc.MethodAuthenticate {
		return handler(ctx, req)
	}

	key := "unknown"
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		key = throttle.HostKey(p.Addr.String())
	}
	if !s.limiter.Allow(key) {
		s.logger.Warn(ctx, "login throttled", "peer", key)
		return nil, status.Error(codes.ResourceExhausted, throttle.MsgTooManyAttempts)
	}

	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug(ctx, "rpc",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}

func accountIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(accountIDKey).(int64)
	return id, ok
}

func tokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey).(string)
	return t
}
