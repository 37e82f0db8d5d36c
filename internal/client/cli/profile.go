package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/profiledash/internal/account"
	"github.com/dmitrijs2005/profiledash/internal/client/router"
	"github.com/dmitrijs2005/profiledash/internal/validate"
)

// Profile reloads the profile and redraws the dashboard.
func (a *App) Profile(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Please log in first")
		return a.Goto(ctx, router.PathLogin)
	}
	a.path = router.PathDashboard
	_, err := a.store.FetchProfile(ctx)
	renderDashboard(a.out, a.store.State())
	return err
}

// Edit walks through the editable profile fields, validates them and
// submits the patch.
func (a *App) Edit(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Please log in first")
		return a.Goto(ctx, router.PathLogin)
	}
	a.path = router.PathDashboard

	if a.store.State().Profile == nil {
		if _, err := a.store.FetchProfile(ctx); err != nil {
			renderError(a.out, a.store.State().LastError, err)
			return err
		}
	}
	current := *a.store.State().Profile

	form, err := a.readProfileForm(current)
	if err != nil {
		return err
	}

	if errs := validate.Profile(form); errs != nil {
		for _, field := range []string{"fullName", "email", "bio", "avatar"} {
			if msg, ok := errs[field]; ok {
				fmt.Fprintln(a.out, msg)
			}
		}
		return errs
	}

	patch := account.ProfilePatch{
		FullName: strings.TrimSpace(form.FullName),
		Email:    strings.TrimSpace(form.Email),
		Bio:      form.Bio,
		Avatar:   form.Avatar,
	}
	if _, err := a.store.UpdateProfile(ctx, patch); err != nil {
		renderError(a.out, a.store.State().LastError, err)
		return err
	}

	fmt.Fprintln(a.out, "Profile updated successfully!")
	renderDashboard(a.out, a.store.State())
	return nil
}

func (a *App) readProfileForm(p account.Profile) (validate.ProfileForm, error) {
	var (
		form validate.ProfileForm
		err  error
	)
	fmt.Fprintln(a.out, "Edit profile (Enter keeps the current value, '-' clears it)")

	if form.FullName, err = GetWithDefault(a.reader, "Full name", p.FullName, a.out); err != nil {
		return form, err
	}
	if form.Email, err = GetWithDefault(a.reader, "Email", p.Email, a.out); err != nil {
		return form, err
	}

	bio, err := GetWithDefault(a.reader, "Bio ('+' for multi-line)", p.Bio, a.out)
	if err != nil {
		return form, err
	}
	if bio == "+" {
		if bio, err = GetMultiline(a.reader, "Bio", a.out); err != nil {
			return form, err
		}
	}
	form.Bio = bio

	avatar, err := GetWithDefault(a.reader, "Avatar URL (or @path to an image file)", p.Avatar, a.out)
	if err != nil {
		return form, err
	}
	if path, ok := strings.CutPrefix(avatar, "@"); ok {
		if avatar, err = avatarFromFile(path); err != nil {
			fmt.Fprintln(a.out, "Cannot use avatar file:", err)
			return form, err
		}
	}
	form.Avatar = avatar

	return form, nil
}
