package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request CreateUserRequest
		wantErr bool
	}{
		{
			name: "valid request",
			request: CreateUserRequest{
				Name:     "Ada Recruiter",
				Email:    "ada@example.com",
				Password: "hunter2hunter2",
				Phone:    "555-0100",
			},
			wantErr: false,
		},
		{
			name: "valid without phone",
			request: CreateUserRequest{
				Name:     "Ada Recruiter",
				Email:    "ada@example.com",
				Password: "hunter2hunter2",
			},
			wantErr: false,
		},
		{
			name: "missing name",
			request: CreateUserRequest{
				Email:    "ada@example.com",
				Password: "hunter2hunter2",
			},
			wantErr: true,
		},
		{
			name: "malformed email",
			request: CreateUserRequest{
				Name:     "Ada Recruiter",
				Email:    "not-an-email",
				Password: "hunter2hunter2",
			},
			wantErr: true,
		},
		{
			name: "password under eight characters",
			request: CreateUserRequest{
				Name:     "Ada Recruiter",
				Email:    "ada@example.com",
				Password: "short7c",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoginRequest_Validation(t *testing.T) {
	valid := LoginRequest{Email: "ada@example.com", Password: "hunter2hunter2"}
	assert.NoError(t, valid.Validate())

	// Login only requires a non-empty password. The length rule applies at
	// registration; rejecting short logins would lock out old accounts.
	shortOK := LoginRequest{Email: "ada@example.com", Password: "x"}
	assert.NoError(t, shortOK.Validate())

	noPassword := LoginRequest{Email: "ada@example.com"}
	assert.Error(t, noPassword.Validate())

	badEmail := LoginRequest{Email: "nope", Password: "hunter2hunter2"}
	assert.Error(t, badEmail.Validate())
}

func TestUpdatePasswordRequest_Validation(t *testing.T) {
	valid := UpdatePasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"}
	assert.NoError(t, valid.Validate())

	noCurrent := UpdatePasswordRequest{NewPassword: "new-password"}
	assert.Error(t, noCurrent.Validate())

	shortNew := UpdatePasswordRequest{CurrentPassword: "old-password", NewPassword: "short7c"}
	assert.Error(t, shortNew.Validate())
}

func TestUserJSON_NeverCarriesPasswordMaterial(t *testing.T) {
	u := User{
		ID:          uuid.New(),
		Name:        "Ada Recruiter",
		Email:       "ada@example.com",
		PasswordSet: true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	raw, err := json.Marshal(LoginResponse{User: &u, Token: "signed.jwt.token"})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "signed.jwt.token", decoded["token"])

	user, ok := decoded["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", user["email"])
	assert.Equal(t, true, user["password_set"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")
	assert.NotContains(t, user, "phone", "empty phone is omitted")
}
