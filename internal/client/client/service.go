package client

import (
	"context"

	"github.com/dmitrijs2005/profiledash/internal/account"
)

// AuthResult is returned by a successful Authenticate.
type AuthResult struct {
	Account account.Summary
	Token   string
}

// AccountService is the remote account API the auth state machine drives.
// The session token is always passed explicitly; implementations never read
// it from ambient storage.
type AccountService interface {
	Authenticate(ctx context.Context, email, password string) (AuthResult, error)
	EndSession(ctx context.Context, token string) error
	FetchProfile(ctx context.Context, token string) (account.Profile, error)
	UpdateProfile(ctx context.Context, token string, patch account.ProfilePatch) (account.Profile, error)
	Ping(ctx context.Context) error
	Close() error
}
