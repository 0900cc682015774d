// Package common defines shared constants, helpers and sentinel errors used
// across the tadpole client layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound          = errors.New("not found")
	ErrDuplicateIdentifier = errors.New("duplicate identifier")

	// Validation errors. Every field-level error also matches ErrValidation.
	ErrValidation         = errors.New("validation error")
	ErrBlankField         = errors.New("field must not be blank")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrCredentialTooShort = errors.New("credential must be at least 4 characters")
	ErrInvalidCheckDigit  = errors.New("check digit does not match identifier")

	// Directory invariants.
	ErrDuplicateUser    = errors.New("user already exists")
	ErrProtectedAccount = errors.New("account is protected")
	ErrProtectedField   = errors.New("field is protected")

	// Session errors.
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotLoggedIn          = errors.New("not logged in")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token expired")

	// Infrastructure errors.
	ErrStorage     = errors.New("storage error")
	ErrQueueClosed = errors.New("command queue closed")
)
