package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/profiledash/internal/account"
	"github.com/dmitrijs2005/profiledash/internal/client/authstate"
	"github.com/dmitrijs2005/profiledash/internal/client/client"
	"github.com/dmitrijs2005/profiledash/internal/client/config"
	"github.com/dmitrijs2005/profiledash/internal/client/router"
	"github.com/dmitrijs2005/profiledash/internal/client/session"
	"github.com/dmitrijs2005/profiledash/internal/filex"
	"github.com/dmitrijs2005/profiledash/internal/logging"
)

const appDirName = "profiledash"

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// stateStore is the part of *authstate.Store the commands use.
type stateStore interface {
	State() authstate.State
	Subscribe(fn func(authstate.State)) (cancel func())
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	FetchProfile(ctx context.Context) (account.Profile, error)
	UpdateProfile(ctx context.Context, patch account.ProfilePatch) (account.Profile, error)
	ClearError()
}

type App struct {
	config *config.Config
	svc    client.AccountService
	store  stateStore
	logger logging.Logger
	reader *bufio.Reader
	out    io.Writer

	path string

	modeMu sync.Mutex
	mode   Mode

	closers []func() error
}

// NewApp builds the account service selected by cfg, opens the session
// database and restores the auth state from it.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	svc, err := newAccountService(cfg)
	if err != nil {
		return nil, err
	}

	dbPath, err := sessionFile(cfg)
	if err != nil {
		_ = svc.Close()
		return nil, err
	}

	db, err := session.InitDatabase(ctx, dbPath)
	if err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("error initializing session database: %w", err)
	}

	store, err := authstate.New(ctx, svc, session.NewSQLiteStore(db), logger)
	if err != nil {
		_ = db.Close()
		_ = svc.Close()
		return nil, err
	}

	return &App{
		config:  cfg,
		svc:     svc,
		store:   store,
		logger:  logger.With("module", "cli"),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		path:    router.PathRoot,
		closers: []func() error{db.Close, svc.Close},
	}, nil
}

func newAccountService(cfg *config.Config) (client.AccountService, error) {
	switch cfg.Backend {
	case config.BackendGRPC:
		return client.NewGRPCClient(cfg.ServerEndpointAddr)
	case config.BackendMock, "":
		return client.NewMockService(client.WithLatency(2*cfg.MockLatency, cfg.MockLatency)), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func sessionFile(cfg *config.Config) (string, error) {
	if cfg.SessionFile != "" {
		if _, err := filex.EnsureDir(filepath.Dir(cfg.SessionFile)); err != nil {
			return "", err
		}
		return cfg.SessionFile, nil
	}
	dir, err := filex.AppDataDir(appDirName)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.db"), nil
}

// Run shows the start screen and serves commands until exit.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	fmt.Fprintln(a.out, "Profile dashboard (type 'help' for commands)")

	cancel := a.store.Subscribe(a.showProgress())
	defer cancel()

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	_ = a.Goto(ctx, a.path)
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) close() {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Error(context.Background(), "shutdown", "error", err)
	}
}

// showProgress returns a subscriber that announces long-running phases
// once when they begin.
func (a *App) showProgress() func(authstate.State) {
	var last authstate.Phase
	return func(s authstate.State) {
		p := s.Phase()
		if p == last {
			return
		}
		last = p
		switch p {
		case authstate.PhaseAuthenticating:
			fmt.Fprintln(a.out, "Signing in...")
		case authstate.PhaseProfileLoading:
			fmt.Fprintln(a.out, "Loading profile...")
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.store.State().IsAuthenticated
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.logger.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

func (a *App) getMode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

// StartOnlineStatusWatcher pings the account service every interval and
// records whether it answered.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	check := func() {
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := a.svc.Ping(pctx); err != nil {
			a.setMode(ModeOffline)
			return
		}
		a.setMode(ModeOnline)
	}
	check()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			check()
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) getStatus() string {
	s := a.store.State()
	who := "anonymous"
	if s.IsAuthenticated {
		who = s.DisplayName()
		if s.Account != nil {
			who = s.Account.Email
		}
	}
	if m := a.getMode(); m != "" {
		who += ", " + string(m)
	}
	return fmt.Sprintf("%s (%s)", a.path, who)
}
