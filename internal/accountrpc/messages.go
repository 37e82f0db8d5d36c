package accountrpc

import "github.com/dmitrijs2005/profiledash/internal/account"

type AuthenticateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthenticateResponse struct {
	Account account.Summary `json:"user"`
	Token   string          `json:"token"`
}

type EndSessionRequest struct{}

type EndSessionResponse struct {
	Message string `json:"message"`
}

type FetchProfileRequest struct{}

// UpdateProfileRequest carries the full set of editable fields.
type UpdateProfileRequest struct {
	Patch account.ProfilePatch `json:"patch"`
}

type ProfileResponse struct {
	Profile account.Profile `json:"profile"`
}
