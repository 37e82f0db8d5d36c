package authstate

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/profiledash/internal/account"
	"github.com/dmitrijs2005/profiledash/internal/client/client"
	"github.com/dmitrijs2005/profiledash/internal/client/session"
	"github.com/dmitrijs2005/profiledash/internal/logging"
)

// Store owns the auth state and runs account operations against it.
// All methods are safe for concurrent use.
type Store struct {
	svc      client.AccountService
	sessions session.Store
	logger   logging.Logger

	mu    sync.Mutex
	state State
	// tail is closed when the most recently issued profile operation is
	// done; the next one waits on it.
	tail    chan struct{}
	subs    map[int]func(State)
	nextSub int

	// publishing serializes transitions and is held while subscribers run,
	// so they observe states in the order they were produced. It is always
	// taken before mu, never while holding it.
	publishing sync.Mutex
}

// New creates a Store rehydrated from the token found in sessions.
func New(ctx context.Context, svc client.AccountService, sessions session.Store, logger logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.Nop{}
	}
	token, err := sessions.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	s := &Store{
		svc:      svc,
		sessions: sessions,
		logger:   logger.With("module", "authstate"),
		state:    Initial(token),
		subs:     make(map[int]func(State)),
	}
	s.logger.Debug(ctx, "state restored", "phase", s.state.Phase())
	return s, nil
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to receive every new state. Calls are sequential
// and in order. fn must not call Store mutators synchronously.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// lock takes publishing and then mu.
func (s *Store) lock() {
	s.publishing.Lock()
	s.mu.Lock()
}

func (s *Store) unlock() {
	s.mu.Unlock()
	s.publishing.Unlock()
}

func (s *Store) dispatch(ctx context.Context, e Event) State {
	s.lock()
	return s.commit(ctx, e)
}

// commit applies e and publishes the result. It must be called with both
// locks held and releases them. Subscribers run with mu released.
func (s *Store) commit(ctx context.Context, e Event) State {
	next := Reduce(s.state, e)
	s.state = next

	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}

	s.mu.Unlock()
	defer s.publishing.Unlock()

	s.logger.Debug(ctx, "state transition", "event", eventName(e), "phase", next.Phase())
	for _, fn := range subs {
		fn(next)
	}
	return next
}

func eventName(e Event) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", e), "authstate.")
}

// Login authenticates with email and password. On success the returned
// token is persisted and the previous profile is dropped. Calling Login
// while another login is in flight returns ErrLoginInFlight.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.lock()
	if s.state.LoginInFlight {
		s.unlock()
		return ErrLoginInFlight
	}
	epoch := s.state.Epoch
	s.commit(ctx, LoginStarted{})

	res, err := s.svc.Authenticate(ctx, email, password)
	if err == nil && res.Token == "" {
		err = account.ErrMissingToken
	}
	if err != nil {
		s.logger.Info(ctx, "login failed", "email", email, "error", err)
		s.dispatch(ctx, LoginFailed{Epoch: epoch, Message: account.Message(err)})
		return err
	}

	s.lock()
	if s.state.Epoch != epoch {
		s.unlock()
		s.logger.Warn(ctx, "login result dropped, session changed", "email", email)
		s.endRemote(ctx, res.Token)
		return ErrSessionChanged
	}
	if err := s.sessions.Save(ctx, res.Token); err != nil {
		s.commit(ctx, LoginFailed{Epoch: epoch, Message: account.Message(err)})
		s.logger.Error(ctx, "failed to persist session token", "error", err)
		s.endRemote(ctx, res.Token)
		return err
	}
	s.commit(ctx, LoginSucceeded{Epoch: epoch, Account: res.Account, Token: res.Token})

	s.logger.Info(ctx, "login succeeded", "account_id", res.Account.ID, "role", res.Account.Role)
	return nil
}

// Logout always resets the local state and removes the persisted token.
// The remote session is ended afterwards; a remote failure is logged and
// otherwise ignored. The returned error only reports a failure to remove
// the persisted token.
func (s *Store) Logout(ctx context.Context) error {
	s.lock()
	token := s.state.Token
	clearErr := s.sessions.Clear(ctx)
	s.commit(ctx, LoggedOut{})

	if clearErr != nil {
		s.logger.Error(ctx, "failed to clear session token", "error", clearErr)
	}
	s.endRemote(ctx, token)
	s.logger.Info(ctx, "logged out")

	if clearErr != nil {
		return fmt.Errorf("clear session: %w", clearErr)
	}
	return nil
}

func (s *Store) endRemote(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.svc.EndSession(ctx, token); err != nil {
		s.logger.Warn(ctx, "remote end-session failed", "error", err)
	}
}

// FetchProfile reloads the profile of the current account.
func (s *Store) FetchProfile(ctx context.Context) (account.Profile, error) {
	return s.runProfileOp(ctx, "fetch profile", func(ctx context.Context, token string) (account.Profile, error) {
		return s.svc.FetchProfile(ctx, token)
	}, func(epoch, seq uint64, p account.Profile) Event {
		return ProfileLoaded{Epoch: epoch, Seq: seq, Profile: p}
	})
}

// UpdateProfile sends patch and replaces the profile with the canonical
// record returned by the service.
func (s *Store) UpdateProfile(ctx context.Context, patch account.ProfilePatch) (account.Profile, error) {
	return s.runProfileOp(ctx, "update profile", func(ctx context.Context, token string) (account.Profile, error) {
		return s.svc.UpdateProfile(ctx, token, patch)
	}, func(epoch, seq uint64, p account.Profile) Event {
		return ProfileUpdated{Epoch: epoch, Seq: seq, Profile: p}
	})
}

func (s *Store) ClearError() {
	s.dispatch(context.Background(), ErrorCleared{})
}

type profileCall func(ctx context.Context, token string) (account.Profile, error)

func (s *Store) runProfileOp(ctx context.Context, op string, call profileCall, success func(epoch, seq uint64, p account.Profile) Event) (account.Profile, error) {
	s.lock()
	if !s.state.IsAuthenticated {
		s.commit(ctx, ProfileRejected{Message: account.Message(ErrNotAuthenticated)})
		return account.Profile{}, ErrNotAuthenticated
	}
	epoch := s.state.Epoch
	seq := s.state.seq + 1
	prev := s.tail
	done := make(chan struct{})
	s.tail = done
	s.commit(ctx, ProfileRequested{Epoch: epoch, Seq: seq})

	if prev != nil {
		select {
		case <-prev:
		case <-ctx.Done():
			// later operations still queue behind prev
			go func() {
				<-prev
				close(done)
			}()
			s.dispatch(ctx, ProfileFailed{Epoch: epoch, Seq: seq, Message: account.Message(ctx.Err())})
			return account.Profile{}, ctx.Err()
		}
	}
	defer close(done)
	if s.State().Epoch != epoch {
		return account.Profile{}, ErrSessionChanged
	}

	p, err := s.callWithToken(ctx, call)
	if err != nil {
		s.logger.Info(ctx, op+" failed", "seq", seq, "error", err)
		s.dispatch(ctx, ProfileFailed{Epoch: epoch, Seq: seq, Message: account.Message(err)})
		return account.Profile{}, err
	}

	st := s.dispatch(ctx, success(epoch, seq, p))
	if st.Epoch != epoch {
		return account.Profile{}, ErrSessionChanged
	}
	s.logger.Debug(ctx, op+" done", "seq", seq, "account_id", p.ID)
	return p, nil
}

// callWithToken resolves identity from the persisted token, not from the
// in-memory state, so a token removed behind the client's back surfaces as
// a missing token.
func (s *Store) callWithToken(ctx context.Context, call profileCall) (account.Profile, error) {
	if err := ctx.Err(); err != nil {
		return account.Profile{}, err
	}
	token, err := s.sessions.Load(ctx)
	if err != nil {
		return account.Profile{}, fmt.Errorf("load session: %w", err)
	}
	if token == "" {
		return account.Profile{}, account.ErrMissingToken
	}
	return call(ctx, token)
}
