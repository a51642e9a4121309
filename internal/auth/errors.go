package auth

import "errors"

var (
	// ErrMissingToken is returned when no bearer token is present on the request
	ErrMissingToken = errors.New("missing bearer token")

	// ErrInvalidToken is returned when the token does not resolve to a session
	ErrInvalidToken = errors.New("invalid or expired token")
)
