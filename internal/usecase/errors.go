package usecase

import "errors"

// Failure taxonomy surfaced to the handler layer. Every error here maps to a
// rejected single operation; none are retried internally.
var (
	// ErrMalformedToken means the bearer token failed signature or structural
	// checks. The client must re-login.
	ErrMalformedToken = errors.New("could not validate credentials")

	// ErrExpiredToken means the JWT's own exp claim has elapsed. The client
	// should try a refresh.
	ErrExpiredToken = errors.New("token has expired")

	// ErrSessionNotFound covers revoked, rotated, unknown and session-expired
	// credentials: the JWT checked out but no live session row backs it.
	ErrSessionNotFound = errors.New("session not found")

	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrAccountNotVerified = errors.New("account is not verified")
	ErrAccountInactive    = errors.New("account has been deactivated")

	// ErrProofMismatch means an activation or password reset link is expired
	// or was never valid.
	ErrProofMismatch = errors.New("this link is either expired or not valid")

	ErrDuplicateEmail = errors.New("email already registered")
	ErrUserNotFound   = errors.New("user not found")
)
