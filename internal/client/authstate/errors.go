package authstate

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/profiledash/internal/account"
)

var (
	// ErrNotAuthenticated is returned by profile operations attempted while
	// anonymous. It matches account.ErrMissingToken.
	ErrNotAuthenticated = fmt.Errorf("not authenticated: %w", account.ErrMissingToken)

	ErrLoginInFlight = errors.New("login already in progress")

	// ErrSessionChanged is returned when a login or logout happened while
	// the operation was in flight, so its result was dropped.
	ErrSessionChanged = errors.New("session changed while the request was in flight")
)
