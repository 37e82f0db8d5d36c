package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/profiledash/internal/account"
	"github.com/dmitrijs2005/profiledash/internal/auth"
)

const (
	DefaultLoginLatency = time.Second
	DefaultCallLatency  = 500 * time.Millisecond

	// DefaultMockTokenValidity keeps a mock session alive across client
	// restarts.
	DefaultMockTokenValidity = 30 * 24 * time.Hour
)

// DefaultMockSigningKey signs mock session tokens, so a token persisted by
// one process verifies in the next.
var DefaultMockSigningKey = []byte("profiledash-mock-session")

type mockAccount struct {
	profile  account.Profile
	password string
}

// MockService is an in-process AccountService over the seeded accounts.
// Its tokens are signed JWTs: identity comes from verifying the token, and
// ended sessions are remembered by jti.
type MockService struct {
	mu       sync.Mutex
	accounts map[int64]*mockAccount
	ended    map[string]struct{}

	signingKey    []byte
	tokenValidity time.Duration

	loginLatency time.Duration
	callLatency  time.Duration
	now          func() time.Time
}

type MockOption func(*MockService)

// WithLatency overrides the simulated delays. Zero disables them.
func WithLatency(login, call time.Duration) MockOption {
	return func(m *MockService) {
		m.loginLatency = login
		m.callLatency = call
	}
}

// WithSigningKey replaces DefaultMockSigningKey.
func WithSigningKey(key []byte) MockOption {
	return func(m *MockService) { m.signingKey = key }
}

// WithClock replaces time.Now for last-login stamps.
func WithClock(now func() time.Time) MockOption {
	return func(m *MockService) { m.now = now }
}

func NewMockService(opts ...MockOption) *MockService {
	m := &MockService{
		accounts:     make(map[int64]*mockAccount),
		ended:         make(map[string]struct{}),
		signingKey:    DefaultMockSigningKey,
		tokenValidity: DefaultMockTokenValidity,
		loginLatency:  DefaultLoginLatency,
		callLatency:   DefaultCallLatency,
		now:           time.Now,
	}
	for _, s := range account.Seeds() {
		m.accounts[s.Profile.ID] = &mockAccount{profile: s.Profile, password: s.Password}
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (m *MockService) Authenticate(ctx context.Context, email, password string) (AuthResult, error) {
	if err := sleep(ctx, m.loginLatency); err != nil {
		return AuthResult{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if a.profile.Email != email || a.password != password {
			continue
		}
		issued, err := auth.GenerateToken(a.profile.ID, m.signingKey, m.tokenValidity)
		if err != nil {
			return AuthResult{}, fmt.Errorf("issue token: %w", err)
		}
		a.profile.LastLogin = m.now().UTC()
		return AuthResult{Account: a.profile.Summary(), Token: issued.Token}, nil
	}

	return AuthResult{}, account.ErrInvalidCredentials
}

// EndSession revokes token. Tokens that do not verify are ignored.
func (m *MockService) EndSession(ctx context.Context, token string) error {
	if err := sleep(ctx, m.callLatency); err != nil {
		return err
	}
	claims, err := auth.ParseToken(token, m.signingKey)
	if err != nil {
		return nil
	}
	m.mu.Lock()
	m.ended[claims.ID] = struct{}{}
	m.mu.Unlock()
	return nil
}

// resolve must be called with mu held.
func (m *MockService) resolve(token string) (*mockAccount, error) {
	if token == "" {
		return nil, account.ErrMissingToken
	}
	claims, err := auth.ParseToken(token, m.signingKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", account.ErrMissingToken, err)
	}
	if _, ok := m.ended[claims.ID]; ok {
		return nil, account.ErrMissingToken
	}
	id, err := claims.AccountID()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", account.ErrMissingToken, err)
	}
	a, ok := m.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return a, nil
}

func (m *MockService) FetchProfile(ctx context.Context, token string) (account.Profile, error) {
	if err := sleep(ctx, m.callLatency); err != nil {
		return account.Profile{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.resolve(token)
	if err != nil {
		return account.Profile{}, err
	}
	return a.profile, nil
}

func (m *MockService) UpdateProfile(ctx context.Context, token string, patch account.ProfilePatch) (account.Profile, error) {
	if err := sleep(ctx, m.callLatency); err != nil {
		return account.Profile{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.resolve(token)
	if err != nil {
		return account.Profile{}, err
	}
	a.profile = patch.Apply(a.profile)
	return a.profile, nil
}

func (m *MockService) Ping(context.Context) error { return nil }

func (m *MockService) Close() error { return nil }
