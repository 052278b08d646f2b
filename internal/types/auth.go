// Package types holds the request and response shapes of the ATS API, shared
// by the HTTP handlers and the CLI client so the wire contract lives in one
// place.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// requestValidator backs the Validate methods. Building a validator reflects
// over struct tags, so the package shares one instance.
var requestValidator = validator.New()

// CreateUserRequest registers a recruiter account. The phone number is
// optional contact info.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone,omitempty"`
}

// LoginRequest exchanges credentials for a session token.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdatePasswordRequest rotates the caller's password. The current password
// is required so a stolen token alone is not enough to take over an account.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// User is the public view of an account. The password hash stays in the db
// package; PasswordSet only reports whether one exists.
type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	PasswordSet bool      `json:"password_set"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoginResponse carries the account plus the signed token issued for it.
// Register and login return the same shape.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Validate checks the request against its field constraints.
func (r *CreateUserRequest) Validate() error {
	return requestValidator.Struct(r)
}

// Validate checks the request against its field constraints.
func (r *LoginRequest) Validate() error {
	return requestValidator.Struct(r)
}

// Validate checks the request against its field constraints.
func (r *UpdatePasswordRequest) Validate() error {
	return requestValidator.Struct(r)
}
