package authstate

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/profiledash/internal/account"
	"github.com/dmitrijs2005/profiledash/internal/client/client"
	"github.com/dmitrijs2005/profiledash/internal/logging"
)

// fakeService is a scriptable AccountService. A non-nil gate makes the
// corresponding call block until a value is sent on it.
type fakeService struct {
	mu sync.Mutex

	authResult client.AuthResult
	authErr    error
	authGate   chan struct{}
	authCalls  chan struct{}

	endErr   error
	endCalls []string

	profile    account.Profile
	fetchErr   error
	fetchGate  chan struct{}
	fetchCalls chan struct{}

	updateGate    chan struct{}
	updateStarted chan account.ProfilePatch
	updates       []account.ProfilePatch
}

func (f *fakeService) Authenticate(ctx context.Context, email, password string) (client.AuthResult, error) {
	if f.authCalls != nil {
		f.authCalls <- struct{}{}
	}
	if f.authGate != nil {
		<-f.authGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authResult, f.authErr
}

func (f *fakeService) EndSession(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.endCalls = append(f.endCalls, token)
	return f.endErr
}

func (f *fakeService) FetchProfile(ctx context.Context, token string) (account.Profile, error) {
	if f.fetchCalls != nil {
		f.fetchCalls <- struct{}{}
	}
	if f.fetchGate != nil {
		<-f.fetchGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profile, f.fetchErr
}

func (f *fakeService) UpdateProfile(ctx context.Context, token string, patch account.ProfilePatch) (account.Profile, error) {
	if f.updateStarted != nil {
		f.updateStarted <- patch
	}
	if f.updateGate != nil {
		<-f.updateGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, patch)
	f.profile = patch.Apply(f.profile)
	return f.profile, nil
}

func (f *fakeService) Ping(context.Context) error { return nil }
func (f *fakeService) Close() error               { return nil }

// failingSessions is a session store whose writes fail.
type failingSessions struct {
	token string
	err   error
}

func (f *failingSessions) Load(context.Context) (string, error) { return f.token, nil }
func (f *failingSessions) Save(context.Context, string) error   { return f.err }
func (f *failingSessions) Clear(context.Context) error          { return f.err }

type logEntry struct {
	level string
	msg   string
}

// recLogger records messages for assertions.
type recLogger struct {
	mu      sync.Mutex
	entries *[]logEntry
}

func newRecLogger() *recLogger {
	return &recLogger{entries: &[]logEntry{}}
}

func (l *recLogger) add(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, logEntry{level, msg})
}

func (l *recLogger) Debug(_ context.Context, msg string, _ ...any) { l.add("DEBUG", msg) }
func (l *recLogger) Info(_ context.Context, msg string, _ ...any)  { l.add("INFO", msg) }
func (l *recLogger) Warn(_ context.Context, msg string, _ ...any)  { l.add("WARN", msg) }
func (l *recLogger) Error(_ context.Context, msg string, _ ...any) { l.add("ERROR", msg) }
func (l *recLogger) With(...any) logging.Logger                    { return l }

func (l *recLogger) has(level, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range *l.entries {
		if e.level == level && e.msg == msg {
			return true
		}
	}
	return false
}

func (l *recLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fmt.Sprint(*l.entries)
}
