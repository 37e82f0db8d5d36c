// Package router maps client paths to screens and guards the dashboard
// behind authentication.
package router

import "strings"

type Screen string

const (
	ScreenLogin     Screen = "login"
	ScreenDashboard Screen = "dashboard"
	ScreenNotFound  Screen = "not-found"
)

const (
	PathRoot      = "/"
	PathLogin     = "/login"
	PathDashboard = "/dashboard"
)

// Route is the outcome of resolving one path: either a screen to render or
// a path to redirect to.
type Route struct {
	Screen   Screen
	Redirect string
}

func (r Route) IsRedirect() bool { return r.Redirect != "" }

// Normalize strips query, fragment and trailing slashes.
func Normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// Resolve applies the routing rules to a single path.
func Resolve(path string, authenticated bool) Route {
	switch Normalize(path) {
	case PathRoot:
		return Route{Redirect: PathLogin}
	case PathLogin:
		if authenticated {
			return Route{Redirect: PathDashboard}
		}
		return Route{Screen: ScreenLogin}
	case PathDashboard:
		if !authenticated {
			return Route{Redirect: PathLogin}
		}
		return Route{Screen: ScreenDashboard}
	default:
		return Route{Screen: ScreenNotFound}
	}
}

// maxRedirects bounds Navigate; the rules above never chain more than two.
const maxRedirects = 4

// Navigate follows redirects from path and returns the final path and the
// screen to render there.
func Navigate(path string, authenticated bool) (string, Screen) {
	path = Normalize(path)
	for i := 0; i < maxRedirects; i++ {
		r := Resolve(path, authenticated)
		if !r.IsRedirect() {
			return path, r.Screen
		}
		path = r.Redirect
	}
	return path, ScreenNotFound
}
