package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/haruki/ats-backend/internal/config"
	"github.com/haruki/ats-backend/internal/db"
	"github.com/haruki/ats-backend/internal/types"
)

// UserStore is the slice of the database layer user operations need.
type UserStore interface {
	CreateUserWithPassword(ctx context.Context, name, email, phone, passwordHash string) (*db.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// UserService implements registration and credential checks on top of a
// UserStore. It is the only server code that touches password hashes; the
// types it returns never carry them.
type UserService struct {
	store          UserStore
	passwordConfig *config.PasswordConfig
}

func NewUserService(store UserStore, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{store: store, passwordConfig: passwordConfig}
}

// publicUser strips a user row down to the fields the API may expose.
func publicUser(row *db.User) *types.User {
	if row == nil {
		return nil
	}
	return &types.User{
		ID:          row.ID,
		Name:        row.Name,
		Email:       row.Email,
		Phone:       row.Phone,
		PasswordSet: row.PasswordSet,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

// Register creates an account. Email uniqueness is checked up front so the
// caller sees a conflict instead of a bare constraint violation.
func (s *UserService) Register(ctx context.Context, req *types.CreateUserRequest) (*types.User, error) {
	existing, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing email: %w", err)
	}
	if existing != nil {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	hash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	row, err := s.store.CreateUserWithPassword(ctx, req.Name, req.Email, req.Phone, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return publicUser(row), nil
}

// Login verifies credentials. An unknown email, a wrong password, and an
// account without a password all yield the same ErrInvalidCredentials, so
// the response never reveals which check failed.
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	row, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if row == nil || !row.PasswordSet || !s.passwordConfig.VerifyPassword(req.Password, row.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}
	return publicUser(row), nil
}

// UpdatePassword replaces the password after re-verifying the current one,
// so a stolen token alone cannot lock the owner out.
func (s *UserService) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	row, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if row == nil {
		return &ErrUserNotFound{UserID: userID}
	}
	if !s.passwordConfig.VerifyPassword(currentPassword, row.PasswordHash) {
		return &ErrPasswordMismatch{}
	}

	hash, err := s.passwordConfig.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.store.UpdateUserPassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to store new password: %w", err)
	}
	return nil
}

// Profile returns the record for an authenticated user ID, or nil when the
// account no longer exists.
func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	row, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return publicUser(row), nil
}
