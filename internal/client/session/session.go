// Package session persists the session token of the terminal client.
//
// A Store holds at most one token. Load returns "" when no token is saved,
// which the rest of the client treats as the anonymous state.
package session

import "context"

// TokenKey is the metadata key the token is stored under.
const TokenKey = "token"

type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
