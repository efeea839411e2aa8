package services

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the services. Handlers map these onto HTTP
// status codes; nothing below the API layer retries them.
var (
	// ErrNotFound means the target record is absent or soft-deleted.
	ErrNotFound = errors.New("not found")

	// ErrAuthenticationFailed covers both an unknown email and a wrong
	// password; callers must not be able to tell which.
	ErrAuthenticationFailed = errors.New("invalid credentials")

	// ErrUnauthorized means the actor has no rights over the target record.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports malformed input the caller can correct.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
