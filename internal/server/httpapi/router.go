// Package httpapi exposes the account service as a JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/profiledash/internal/account"
	"github.com/dmitrijs2005/profiledash/internal/logging"
	"github.com/dmitrijs2005/profiledash/internal/server/throttle"
	"github.com/gin-gonic/gin"
)

type accountService interface {
	Authenticate(ctx context.Context, email, password string) (account.Summary, string, error)
	EndSession(ctx context.Context, token string) error
	ResolveToken(ctx context.Context, token string) (int64, error)
	Profile(ctx context.Context, id int64) (account.Profile, error)
	UpdateProfile(ctx context.Context, id int64, patch account.ProfilePatch) (account.Profile, error)
}

type Deps struct {
	Accounts accountService
	Limiter  *throttle.PeerLimiter
	Logger   logging.Logger
}

// NewRouter wires the public and bearer-protected routes.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = logging.Nop{}
	}
	h := &handler{accounts: deps.Accounts, limiter: deps.Limiter, logger: deps.Logger.With("module", "http")}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(h.logRequests)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/v1/auth/login", h.login)

	protected := r.Group("/v1")
	protected.Use(h.requireAuth)
	protected.POST("/auth/logout", h.logout)
	protected.GET("/profile", h.profile)
	protected.PUT("/profile", h.updateProfile)

	return r
}

// Server runs the router on an address until its context ends.
type Server struct {
	address string
	handler http.Handler
	logger  logging.Logger
}

func NewServer(address string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Server{address: address, handler: NewRouter(deps), logger: logger.With("module", "http_server")}
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
