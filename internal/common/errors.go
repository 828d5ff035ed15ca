// Package common defines shared constants and sentinel errors used across
// the GMPI core. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Authentication-stage errors. The HTTP layer renders
	// ErrInvalidCredentials and ErrAccountDisabled with the same public
	// message so callers cannot probe which part failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrInvalidSession     = errors.New("invalid or expired session")

	// Authorization errors.
	ErrPermissionDenied = errors.New("permission denied")
	ErrImmutableAccount = errors.New("built-in administrator account cannot be modified")

	// Validation and generic flow control.
	ErrValidation = errors.New("validation error")
	ErrInternal   = errors.New("internal error")
)
