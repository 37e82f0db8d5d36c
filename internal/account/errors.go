package account

import "errors"

// Error taxonomy shared by every AccountService implementation.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("missing or invalid token")
	ErrAccountNotFound    = errors.New("account not found")
	ErrUnavailable        = errors.New("account service unavailable")
)

// Human-readable messages surfaced to the user.
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgMissingToken       = "No token found"
	MsgAccountNotFound    = "User not found"
	MsgUnavailable        = "Service unavailable, please try again later"
)

// Message converts err into the single string kept as the last error.
// Known failures get their fixed message; anything else passes its text
// through unchanged. A nil error yields "".
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return MsgInvalidCredentials
	case errors.Is(err, ErrMissingToken):
		return MsgMissingToken
	case errors.Is(err, ErrAccountNotFound):
		return MsgAccountNotFound
	case errors.Is(err, ErrUnavailable):
		return MsgUnavailable
	default:
		return err.Error()
	}
}
