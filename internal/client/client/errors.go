package client

import "errors"

// ErrRateLimited is returned when the server throttles login attempts.
var ErrRateLimited = errors.New("too many login attempts, please wait a minute")
