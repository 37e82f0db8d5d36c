package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/profiledash/internal/account"
	"github.com/dmitrijs2005/profiledash/internal/accountrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

const defaultCallTimeout = 12 * time.Second

type accountAPI interface {
	Authenticate(ctx context.Context, in *accountrpc.AuthenticateRequest, opts ...grpc.CallOption) (*accountrpc.AuthenticateResponse, error)
	EndSession(ctx context.Context, in *accountrpc.EndSessionRequest, opts ...grpc.CallOption) (*accountrpc.EndSessionResponse, error)
	FetchProfile(ctx context.Context, in *accountrpc.FetchProfileRequest, opts ...grpc.CallOption) (*accountrpc.ProfileResponse, error)
	UpdateProfile(ctx context.Context, in *accountrpc.UpdateProfileRequest, opts ...grpc.CallOption) (*accountrpc.ProfileResponse, error)
}

// GRPCClient is an AccountService backed by the account server.
type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	api         accountAPI
	health      healthpb.HealthClient
	timeout     time.Duration
}

// NewGRPCClient creates a client for endpointURL. No connection is made
// until the first call. Extra dial options are appended to the defaults.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpointURL, err)
	}
	return &GRPCClient{
		endpointURL: endpointURL,
		conn:        conn,
		api:         accountrpc.NewClient(conn),
		health:      healthpb.NewHealthClient(conn),
		timeout:     defaultCallTimeout,
	}, nil
}

func (c *GRPCClient) callContext(ctx context.Context, token string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	return accountrpc.WithToken(ctx, token), cancel
}

func (c *GRPCClient) Authenticate(ctx context.Context, email, password string) (AuthResult, error) {
	ctx, cancel := c.callContext(ctx, "")
	defer cancel()

	resp, err := c.api.Authenticate(ctx, &accountrpc.AuthenticateRequest{Email: email, Password: password})
	if err != nil {
		return AuthResult{}, mapError(err, account.ErrInvalidCredentials)
	}
	return AuthResult{Account: resp.Account, Token: resp.Token}, nil
}

func (c *GRPCClient) EndSession(ctx context.Context, token string) error {
	ctx, cancel := c.callContext(ctx, token)
	defer cancel()

	if _, err := c.api.EndSession(ctx, &accountrpc.EndSessionRequest{}); err != nil {
		return mapError(err, account.ErrMissingToken)
	}
	return nil
}

func (c *GRPCClient) FetchProfile(ctx context.Context, token string) (account.Profile, error) {
	if token == "" {
		return account.Profile{}, account.ErrMissingToken
	}
	ctx, cancel := c.callContext(ctx, token)
	defer cancel()

	resp, err := c.api.FetchProfile(ctx, &accountrpc.FetchProfileRequest{})
	if err != nil {
		return account.Profile{}, mapError(err, account.ErrMissingToken)
	}
	return resp.Profile, nil
}

func (c *GRPCClient) UpdateProfile(ctx context.Context, token string, patch account.ProfilePatch) (account.Profile, error) {
	if token == "" {
		return account.Profile{}, account.ErrMissingToken
	}
	ctx, cancel := c.callContext(ctx, token)
	defer cancel()

	resp, err := c.api.UpdateProfile(ctx, &accountrpc.UpdateProfileRequest{Patch: patch})
	if err != nil {
		return account.Profile{}, mapError(err, account.ErrMissingToken)
	}
	return resp.Profile, nil
}

// Ping asks the standard health service whether the account service is
// serving.
func (c *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: accountrpc.ServiceName})
	if err != nil {
		return mapError(err, account.ErrUnavailable)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return account.ErrUnavailable
	}
	return nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

// mapError converts a gRPC status into the account error taxonomy.
// Unauthenticated means bad credentials for Authenticate and a bad token
// for everything else, so the caller says which.
func mapError(err error, unauthenticated error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return unauthenticated
	case codes.NotFound:
		return account.ErrAccountNotFound
	case codes.ResourceExhausted:
		return ErrRateLimited
	case codes.Unavailable, codes.DeadlineExceeded:
		return account.ErrUnavailable
	case codes.Canceled:
		return context.Canceled
	default:
		return errors.New(st.Message())
	}
}
