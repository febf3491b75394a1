package services

import "errors"

var (
	// ErrInvalidCredentials covers unknown email, wrong password, and an
	// access token whose subject no longer exists. The message is identical
	// in all three cases on purpose.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailNotConfirmed is returned on login before the emailed
	// confirmation link has been followed.
	ErrEmailNotConfirmed = errors.New("email not confirmed")

	// ErrInvalidToken covers malformed, expired, wrong-scope and superseded
	// tokens.
	ErrInvalidToken = errors.New("invalid token")
)
