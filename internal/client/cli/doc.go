// Package cli is the interactive terminal front end of the profile
// dashboard.
//
// It wires configuration, the session database, the account service and
// the auth state store, then runs a REPL whose screens follow the client
// routes: /login for anonymous users and /dashboard for signed-in ones.
//
// Commands: login, logout, profile, edit, goto <path>, status, clear,
// help, exit. The REPL is started with App.Run, which blocks until the user
// exits or stdin is closed.
package cli
