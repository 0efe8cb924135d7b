package services

import "errors"

var (
	// ErrMissingToken is returned when a request carries no token at all.
	ErrMissingToken = errors.New("access denied")
	// ErrInvalidToken covers bad signatures, unexpected algorithms and expired tokens.
	ErrInvalidToken = errors.New("invalid token")

	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordRequired   = errors.New("password is required")
)
