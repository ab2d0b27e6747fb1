// Package common defines shared constants and sentinel errors used across
// the server and CLI layers of vocabkeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Auth gateway errors.
	ErrDuplicateIdentifier = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("incorrect email or password")
	ErrUnauthenticated     = errors.New("could not validate credentials")

	// Ownership errors. NotFoundOrForbidden deliberately has the same text for
	// missing and foreign resources.
	ErrNotFoundOrForbidden = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")

	// Token errors.
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenMalformed   = errors.New("malformed token")
)
