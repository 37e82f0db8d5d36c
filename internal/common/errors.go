package common

import "errors"

var (
	// Service-level errors.
	ErrorInternal = errors.New("internal error")

	// Token errors (malformed, wrong signature, revoked).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
