package domain

import (
	"errors"
	"fmt"
)

// Error classes. Every sentinel below wraps exactly one of them so the HTTP
// boundary can map by class with errors.Is.
var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrAuthorization  = errors.New("authorization error")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
)

// ValidationError carries a caller-facing message for a rejected input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Authentication and authorization
var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrAuthentication)
	ErrAccessDenied       = errors.New("access denied")
	ErrUnauthenticated    = fmt.Errorf("%w: %w: not authenticated", ErrAccessDenied, ErrAuthentication)
	ErrForbidden          = fmt.Errorf("%w: %w: insufficient role", ErrAccessDenied, ErrAuthorization)
	ErrSessionNotFound    = fmt.Errorf("%w: session not found", ErrNotFound)
)

// Users and rooms
var (
	ErrUserNotFound = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrEmailTaken   = fmt.Errorf("%w: email taken", ErrConflict)
	ErrSelfChat     = &ValidationError{Field: "userId", Message: "self-chat: cannot start a chat with yourself"}
	ErrRoomNotFound = fmt.Errorf("%w: conversation room not found", ErrNotFound)
)
