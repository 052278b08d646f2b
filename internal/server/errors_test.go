package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus_MapsServiceErrors(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "duplicate email is a conflict",
			err:     &ErrEmailAlreadyExists{Email: "ada@example.com"},
			status:  http.StatusConflict,
			message: "email already registered: ada@example.com",
		},
		{
			name:    "bad credentials are unauthorized",
			err:     &ErrInvalidCredentials{},
			status:  http.StatusUnauthorized,
			message: "invalid email or password",
		},
		{
			name:    "wrong current password is unauthorized",
			err:     &ErrPasswordMismatch{},
			status:  http.StatusUnauthorized,
			message: "current password is incorrect",
		},
		{
			name:    "missing user is not found",
			err:     &ErrUserNotFound{UserID: userID},
			status:  http.StatusNotFound,
			message: "user not found: " + userID.String(),
		},
		{
			name:    "validation failure is a bad request",
			err:     &ErrValidation{Field: "email", Message: "invalid format"},
			status:  http.StatusBadRequest,
			message: "validation error: email - invalid format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestHTTPStatus_ResolvesWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("register: %w", &ErrEmailAlreadyExists{Email: "ada@example.com"})
	assert.Equal(t, http.StatusConflict, HTTPStatus(wrapped))

	twice := fmt.Errorf("handler: %w", fmt.Errorf("login: %w", &ErrInvalidCredentials{}))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(twice))
}

func TestHTTPStatus_UnknownErrorsAre500(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(assert.AnError))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(nil))
}

// Credential and password errors must not leak which part failed.
func TestAuthErrorMessagesStayVague(t *testing.T) {
	assert.NotContains(t, (&ErrInvalidCredentials{}).Error(), "not registered")
	assert.NotContains(t, (&ErrPasswordMismatch{}).Error(), "hash")
}
