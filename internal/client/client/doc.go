// Package client contains the account service clients used by the terminal
// application.
//
// # Overview
//
// AccountService is the transport-agnostic contract consumed by the auth
// state machine: Authenticate, EndSession, FetchProfile, UpdateProfile and
// Ping. Two implementations are provided:
//
//   - MockService keeps a seeded in-process account table and simulates
//     network latency. Tokens it issues are random and resolved by lookup,
//     never by parsing.
//   - GRPCClient talks to the account server over gRPC, sends the token as
//     bearer metadata and maps status codes back to the account errors.
//
// # Error Handling
//
// Both implementations report failures with the sentinels of package
// account (ErrInvalidCredentials, ErrMissingToken, ErrAccountNotFound,
// ErrUnavailable), so callers match them with errors.Is regardless of
// transport. GRPCClient additionally returns ErrRateLimited.
//
// All operations honour context cancellation.
package client
