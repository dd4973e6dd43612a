// Package common defines shared constants and sentinel errors used across
// the layers of the contact book server. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrInternal        = errors.New("internal error")
	ErrUnauthenticated = errors.New("could not validate credentials")

	// Validation errors (malformed input fields).
	ErrValidation = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenScopeInvalid = errors.New("invalid scope for token")

	// Configuration errors (fatal at startup, never per-request).
	ErrConfig = errors.New("configuration error")
)
