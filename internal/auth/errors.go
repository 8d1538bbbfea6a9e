package auth

import "errors"

// Token and credential failure kinds. The HTTP layer collapses every one of
// these into a uniform 401 so clients cannot probe why a token failed; the
// distinction exists for logs and metrics only.
var (
	ErrBadCredentials  = errors.New("invalid username or password")
	ErrAccountDisabled = errors.New("account not verified or disabled")
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpiredToken    = errors.New("token expired")
	ErrRevokedToken    = errors.New("token revoked")
)
