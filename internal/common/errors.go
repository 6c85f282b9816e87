// Package common defines shared constants and sentinel errors used across
// layers of the API. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors. ErrorMissingField covers absent required fields,
	// ErrorInvalidInput covers fields that are present but malformed.
	ErrorMissingField = errors.New("missing required field")
	ErrorInvalidInput = errors.New("invalid input")

	// Credential errors.
	ErrorConflict           = errors.New("already exists")
	ErrorInvalidCredentials = errors.New("invalid credentials")

	// Session lifecycle errors.
	ErrorInvalidSession = errors.New("invalid or expired session")

	// Signup verification errors.
	ErrorSignupExpired   = errors.New("pending signup expired")
	ErrorTooManyAttempts = errors.New("too many code attempts")
	ErrorCodeMismatch    = errors.New("verification code mismatch")

	// Collaborator errors.
	ErrorMailDelivery = errors.New("mail delivery failed")
)
