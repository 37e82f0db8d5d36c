package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/profiledash/internal/client/router"
)

// Goto resolves path through the route guard and renders the resulting
// screen. Entering the dashboard without a loaded profile fetches it.
func (a *App) Goto(ctx context.Context, path string) error {
	final, screen := router.Navigate(path, a.isLoggedIn())
	a.path = final

	switch screen {
	case router.ScreenLogin:
		renderLogin(a.out, a.store.State())
	case router.ScreenDashboard:
		s := a.store.State()
		if s.Profile == nil && !s.ProfileInFlight {
			_, _ = a.store.FetchProfile(ctx)
		}
		renderDashboard(a.out, a.store.State())
	default:
		fmt.Fprintf(a.out, "Page not found: %s\n", final)
	}
	return nil
}

// Status prints the current phase and session details.
func (a *App) Status(context.Context) error {
	s := a.store.State()
	fmt.Fprintf(a.out, "Path:    %s\n", a.path)
	fmt.Fprintf(a.out, "Phase:   %s\n", s.Phase())
	if s.Account != nil {
		fmt.Fprintf(a.out, "Account: %s (%s)\n", s.Account.Email, s.Account.Role)
	}
	if m := a.getMode(); m != "" {
		fmt.Fprintf(a.out, "Server:  %s\n", m)
	}
	if s.LastError != "" {
		fmt.Fprintf(a.out, "Error:   %s\n", s.LastError)
	}
	return nil
}
