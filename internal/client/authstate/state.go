// Package authstate is the single source of truth for the client's
// authentication and profile state.
//
// State is an immutable value. It changes only through Reduce, a pure
// function of the current state and a tagged event, and Store is the one
// owner that runs account operations, turns their outcomes into events and
// publishes every new state to subscribers.
//
// Profile operations are serialized per Store in the order they were
// issued and carry a sequence number; every login and logout starts a new
// session epoch. Results that belong to an older sequence or an older epoch
// never overwrite newer state.
package authstate

import "github.com/dmitrijs2005/profiledash/internal/account"

// Phase is the coarse state derived from State.
type Phase string

const (
	PhaseAnonymous      Phase = "anonymous"
	PhaseAuthenticating Phase = "authenticating"
	PhaseNoProfile      Phase = "authenticated-no-profile"
	PhaseProfileLoading Phase = "authenticated-profile-loading"
	PhaseWithProfile    Phase = "authenticated-with-profile"
	PhaseProfileError   Phase = "authenticated-profile-error"
)

// State is a snapshot of the auth state. Values reachable through its
// pointers are never modified after publication and must be treated as
// read-only.
type State struct {
	Account         *account.Summary
	Profile         *account.Profile
	Token           string
	IsAuthenticated bool
	LoginInFlight   bool
	ProfileInFlight bool
	LastError       string

	// Epoch identifies the current session; it advances on every
	// successful login and every logout.
	Epoch uint64

	seq     uint64 // last issued profile operation
	pending int    // profile operations of this epoch not yet resolved
}

// Initial returns the state of a process that found token in the session
// store. An empty token yields the anonymous state.
func Initial(token string) State {
	return State{Token: token, IsAuthenticated: token != ""}
}

func (s State) Phase() Phase {
	switch {
	case s.LoginInFlight:
		return PhaseAuthenticating
	case !s.IsAuthenticated:
		return PhaseAnonymous
	case s.ProfileInFlight:
		return PhaseProfileLoading
	case s.LastError != "":
		return PhaseProfileError
	case s.Profile != nil:
		return PhaseWithProfile
	default:
		return PhaseNoProfile
	}
}

// DisplayName picks the name shown in greetings: full name, then account
// name, then "User".
func (s State) DisplayName() string {
	switch {
	case s.Profile != nil && s.Profile.FullName != "":
		return s.Profile.FullName
	case s.Profile != nil && s.Profile.Name != "":
		return s.Profile.Name
	case s.Account != nil && s.Account.Name != "":
		return s.Account.Name
	default:
		return "User"
	}
}
