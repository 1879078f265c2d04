package core

import "errors"

var (
	// ErrResolution means no DID is registered for the identity reference.
	ErrResolution = errors.New("no identity found for reference")

	// ErrServiceUnavailable means a downstream dependency was unreachable
	// or timed out.
	ErrServiceUnavailable = errors.New("identity service unavailable")

	// ErrChallengeInvalid covers an unknown, expired or already consumed
	// challenge. Callers must not be able to tell which.
	ErrChallengeInvalid = errors.New("invalid challenge")

	// ErrSignatureInvalid means the cryptographic check failed.
	ErrSignatureInvalid = errors.New("invalid signature")

	// ErrConfiguration means a required secret or endpoint is missing or
	// malformed at startup. Not recoverable; the service must refuse to start.
	ErrConfiguration = errors.New("invalid configuration")

	ErrTokenExpired = errors.New("token has expired")
	ErrTokenRevoked = errors.New("token has been revoked")
	ErrInvalidToken = errors.New("invalid token")
)
