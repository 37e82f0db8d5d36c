// Package grpc serves the account service over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/profiledash/internal/account"
	"github.com/dmitrijs2005/profiledash/internal/accountrpc"
	"github.com/dmitrijs2005/profiledash/internal/logging"
	"github.com/dmitrijs2005/profiledash/internal/server/throttle"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// accountService is what the handlers need from accounts.Service.
type accountService interface {
	Authenticate(ctx context.Context, email, password string) (account.Summary, string, error)
	EndSession(ctx context.Context, token string) error
	ResolveToken(ctx context.Context, token string) (int64, error)
	Profile(ctx context.Context, id int64) (account.Profile, error)
	UpdateProfile(ctx context.Context, id int64, patch account.ProfilePatch) (account.Profile, error)
}

type GRPCServer struct {
	address  string
	accounts accountService
	limiter  *throttle.PeerLimiter
	health   *health.Server
	logger   logging.Logger
}

func NewGRPCServer(address string, l logging.Logger, svc accountService, limiter *throttle.PeerLimiter) *GRPCServer {
	return &GRPCServer{
		address:  address,
		accounts: svc,
		limiter:  limiter,
		health:   health.NewServer(),
		logger:   l.With("module", "grpc_server"),
	}
}

// newServer builds the grpc.Server with the account and health services
// registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.loggingInterceptor,
		s.throttleInterceptor,
		s.authInterceptor,
	))

	accountrpc.RegisterServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus(accountrpc.ServiceName, healthpb.HealthCheckResponse_SERVING)

	return srv
}

// Run serves until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	return srv.Serve(listen)
}
