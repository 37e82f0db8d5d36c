package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/profiledash/internal/client/router"
	"github.com/dmitrijs2005/profiledash/internal/common"
	"github.com/dmitrijs2005/profiledash/internal/validate"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Login prompts for credentials, validates them and signs in. On success
// the dashboard is shown.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Already signed in. Use 'logout' to switch accounts.")
		return a.Goto(ctx, router.PathDashboard)
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if errs := validate.Login(validate.LoginForm{Email: email, Password: string(password)}); errs != nil {
		for _, field := range []string{"email", "password"} {
			if msg, ok := errs[field]; ok {
				fmt.Fprintln(a.out, msg)
			}
		}
		return errs
	}

	if err := a.store.Login(ctx, email, string(password)); err != nil {
		renderError(a.out, a.store.State().LastError, err)
		return err
	}

	fmt.Fprintln(a.out, "Login successful")
	return a.Goto(ctx, router.PathDashboard)
}

// Logout ends the session and returns to the login screen. Local state is
// always cleared.
func (a *App) Logout(ctx context.Context) error {
	err := a.store.Logout(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Warning:", err)
	}
	fmt.Fprintln(a.out, "Logged out")
	_ = a.Goto(ctx, router.PathLogin)
	return err
}

// ClearError dismisses the current error banner.
func (a *App) ClearError(context.Context) error {
	a.store.ClearError()
	fmt.Fprintln(a.out, "Error cleared")
	return nil
}
