// Package common defines shared constants and sentinel errors used across
// the server, the client and the encryption core. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// ErrorNoteUnavailable is the only error a caller sees when a note is
	// missing, belongs to someone else or fails to decrypt.
	ErrorNoteUnavailable = errors.New("note not found or inaccessible")

	ErrorUserNotFound = errors.New("user not found")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
