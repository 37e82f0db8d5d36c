package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/profiledash/internal/client/authstate"
)

const (
	notProvided  = "Not provided"
	notAvailable = "Not available"
	noBio        = "No bio available"
)

func renderError(w io.Writer, lastError string, err error) {
	msg := lastError
	if msg == "" && err != nil {
		msg = err.Error()
	}
	if msg != "" {
		fmt.Fprintf(w, "! %s\n", msg)
	}
}

func renderLogin(w io.Writer, s authstate.State) {
	fmt.Fprintln(w, "== Sign in ==")
	if s.LastError != "" {
		renderError(w, s.LastError, nil)
	}
	fmt.Fprintln(w, "Type 'login' to sign in.")
	fmt.Fprintln(w, "Demo accounts: admin@example.com / admin123, user@example.com / user123")
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return notAvailable
	}
	return t.Format("January 2, 2006")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return notAvailable
	}
	return t.Local().Format("Jan 2, 2006, 03:04 PM")
}

func renderDashboard(w io.Writer, s authstate.State) {
	fmt.Fprintf(w, "== Welcome back, %s! ==\n", s.DisplayName())
	fmt.Fprintln(w, "Here's your profile information and account details")

	if s.LastError != "" {
		renderError(w, s.LastError, nil)
	}

	if s.ProfileInFlight {
		fmt.Fprintln(w, "Loading profile...")
		for range 6 {
			fmt.Fprintln(w, "  ░░░░░░░░   ░░░░░░░░░░░░░░░░")
		}
		return
	}

	p := s.Profile
	if p == nil {
		fmt.Fprintln(w, "Profile not loaded yet. Type 'profile' to load it.")
		return
	}

	role := orDefault(string(p.Role), "User")
	fmt.Fprintf(w, "%s [%s]\n", s.DisplayName(), role)
	fmt.Fprintln(w, orDefault(p.Bio, noBio))
	if p.Avatar != "" {
		fmt.Fprintf(w, "Avatar:        %s\n", truncate(p.Avatar, 60))
	}

	fmt.Fprintln(w, "-- Profile Information --")
	fmt.Fprintf(w, "Full Name:     %s\n", orDefault(p.FullName, notProvided))
	fmt.Fprintf(w, "Email Address: %s\n", orDefault(p.Email, notProvided))
	fmt.Fprintf(w, "Phone Number:  %s\n", orDefault(p.Phone, notProvided))
	fmt.Fprintf(w, "Location:      %s\n", orDefault(p.Location, notProvided))
	fmt.Fprintf(w, "Member Since:  %s\n", formatDate(p.JoinDate))
	fmt.Fprintf(w, "Last Login:    %s\n", formatDateTime(p.LastLogin))
}
