package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Auth errors carry just enough detail to pick a status code and log a
// useful message. None of them include secrets: credential and password
// failures share deliberately vague text so responses do not reveal
// whether an email is registered.

// ErrEmailAlreadyExists signals a registration attempt against a taken email.
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials covers both unknown emails and wrong passwords.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound signals an authenticated request for a user that no
// longer exists, typically a stale token after account deletion.
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch signals a password change where the supplied
// current password did not match.
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation reports a single field that failed request validation.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus maps a service error to a response status code. It unwraps,
// so errors annotated with fmt.Errorf("...: %w", err) still resolve.
// Anything unrecognized is a 500.
func HTTPStatus(err error) int {
	var (
		emailExists *ErrEmailAlreadyExists
		badCreds    *ErrInvalidCredentials
		noUser      *ErrUserNotFound
		badPassword *ErrPasswordMismatch
		invalid     *ErrValidation
	)
	switch {
	case errors.As(err, &emailExists):
		return http.StatusConflict
	case errors.As(err, &badCreds), errors.As(err, &badPassword):
		return http.StatusUnauthorized
	case errors.As(err, &noUser):
		return http.StatusNotFound
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
