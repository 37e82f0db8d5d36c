// Package server wires the account server together: storage, avatar
// uploads, the account service and its gRPC and HTTP front ends.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/profiledash/internal/logging"
	"github.com/dmitrijs2005/profiledash/internal/server/accounts"
	"github.com/dmitrijs2005/profiledash/internal/server/avatars"
	"github.com/dmitrijs2005/profiledash/internal/server/config"
	"github.com/dmitrijs2005/profiledash/internal/server/httpapi"
	"github.com/dmitrijs2005/profiledash/internal/server/throttle"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/profiledash/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	accounts *accounts.Service
	limiter  *throttle.PeerLimiter
	db       *sql.DB
}

// NewApp opens the account store selected by c and builds the service.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger}

	var repo accounts.Repository
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database configured, accounts are kept in memory")
		repo = accounts.NewMemoryRepository()
	} else {
		db, err := accounts.InitDatabase(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.db = db
		repo = accounts.NewPostgresRepository(db)
	}

	var uploader accounts.AvatarUploader
	if c.AvatarStorageEnabled() {
		store, err := avatars.New(ctx, avatars.Config{
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			app.close()
			return nil, err
		}
		uploader = store
	}

	app.accounts = accounts.NewService(repo, uploader, c.SecretKey, c.TokenValidityDuration, logger)
	app.limiter = throttle.NewPeerLimiter(c.LoginAttemptsPerMinute)

	return app, nil
}

func (app *App) close() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(context.Background(), "closing database", "error", err)
		}
	}
}

// Run serves gRPC and, when configured, HTTP until ctx is cancelled or one
// of them fails.
func (app *App) Run(ctx context.Context) error {
	defer app.close()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.accounts, app.limiter)
		return s.Run(ctx)
	})

	if app.config.EndpointAddrHTTP != "" {
		g.Go(func() error {
			s := httpapi.NewServer(app.config.EndpointAddrHTTP, httpapi.Deps{
				Accounts: app.accounts,
				Limiter:  app.limiter,
				Logger:   app.logger,
			})
			return s.Run(ctx)
		})
	}

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		app.logger.Error(ctx, "server stopped", "error", err)
		return err
	}
	return nil
}
