package grpc

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/dmitrijs2005/profiledash/internal/account"
	"github.com/dmitrijs2005/profiledash/internal/accountrpc"
	"github.com/dmitrijs2005/profiledash/internal/logging"
	"github.com/dmitrijs2005/profiledash/internal/server/throttle"
	"github.com/dmitrijs2005/profiledash/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

type stubAccounts struct {
	accountService
	resolved map[string]int64
}

func (s stubAccounts) ResolveToken(_ context.Context, token string) (int64, error) {
	if id, ok := s.resolved[token]; ok {
		return id, nil
	}
	return 0, account.ErrMissingToken
}

func newTestServer(limiter *throttle.PeerLimiter) *GRPCServer {
	return NewGRPCServer("", logging.Nop{}, stubAccounts{resolved: map[string]int64{"good": 7}}, limiter)
}

func withBearer(token string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
}

func TestAuthInterceptor_PublicMethodPassesThrough(t *testing.T) {
	s := newTestServer(nil)
	info := &grpc.UnaryServerInfo{FullMethod: accountrpc.MethodAuthenticate}

	called := false
	_, err := s.authInterceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		called = true
		return nil, nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestAuthInterceptor_ResolvesToken(t *testing.T) {
	s := newTestServer(nil)
	info := &grpc.UnaryServerInfo{FullMethod: accountrpc.MethodFetchProfile}

	_, err := s.authInterceptor(withBearer("good"), nil, info, func(ctx context.Context, req any) (any, error) {
		id, ok := accountIDFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, int64(7), id)
		assert.Equal(t, "good", tokenFromContext(ctx))
		return nil, nil
	})
	require.NoError(t, err)
}

func TestAuthInterceptor_Rejects(t *testing.T) {
	s := newTestServer(nil)
	info := &grpc.UnaryServerInfo{FullMethod: accountrpc.MethodUpdateProfile}
	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler must not run")
		return nil, nil
	}

	_, err := s.authInterceptor(context.Background(), nil, info, h)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, account.MsgMissingToken, status.Convert(err).Message())

	_, err = s.authInterceptor(withBearer("bad"), nil, info, h)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestThrottleInterceptor(t *testing.T) {
	s := newTestServer(throttle.NewPeerLimiter(1))
	info := &grpc.UnaryServerInfo{FullMethod: accountrpc.MethodAuthenticate}
	ok := func(ctx context.Context, req any) (any, error) { return "ok", nil }

	ctx := peer.NewContext(context.Background(), &peer.Peer{Addr: &net.TCPAddr{IP: net.ParseIP("10.1.1.1"), Port: 4000}})

	resp, err := s.throttleInterceptor(ctx, nil, info, ok)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	ctx = peer.NewContext(context.Background(), &peer.Peer{Addr: &net.TCPAddr{IP: net.ParseIP("10.1.1.1"), Port: 4001}})
	_, err = s.throttleInterceptor(ctx, nil, info, ok)
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))

	other := &grpc.UnaryServerInfo{FullMethod: accountrpc.MethodFetchProfile}
	_, err = s.throttleInterceptor(ctx, nil, other, ok)
	assert.NoError(t, err)
}

func TestToStatus(t *testing.T) {
	s := newTestServer(nil)
	ctx := context.Background()

	cases := []struct {
		err  error
		code codes.Code
		msg  string
	}{
		{account.ErrInvalidCredentials, codes.Unauthenticated, account.MsgInvalidCredentials},
		{account.ErrMissingToken, codes.Unauthenticated, account.MsgMissingToken},
		{account.ErrAccountNotFound, codes.NotFound, account.MsgAccountNotFound},
		{validate.Errors{"bio": "Bio must be at most 500 characters"}, codes.InvalidArgument, "Bio must be at most 500 characters"},
		{context.Canceled, codes.Canceled, context.Canceled.Error()},
		{errors.New("disk on fire"), codes.Internal, "internal error"},
	}
	for _, tc := range cases {
		st := status.Convert(s.toStatus(ctx, tc.err))
		assert.Equal(t, tc.code, st.Code(), tc.err.Error())
		assert.Equal(t, tc.msg, st.Message())
	}
}
