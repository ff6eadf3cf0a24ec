// Package services holds the application logic between the HTTP boundary
// and the repositories: identity, catalog, the order ledger, and the pickup
// verification flow.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/pkg/apperr"
	"github.com/shashiranjanraj/canteen/pkg/auth"
	"github.com/shashiranjanraj/canteen/pkg/authz"
)

// UserRepo is the slice of the user store the auth service needs.
type UserRepo interface {
	Create(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
}

// dummyHash is a throwaway bcrypt hash compared against when the username
// does not exist, so unknown-username and wrong-password failures cost the
// same and return the same error.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthResult is what a successful register or login returns.
type AuthResult struct {
	Token string
	User  models.User
}

// AuthService implements registration and credential verification.
type AuthService struct {
	users UserRepo
}

func NewAuthService(users UserRepo) *AuthService {
	return &AuthService{users: users}
}

// Register creates an account and signs the account in. The raw password is
// never stored; only its bcrypt hash. Role defaults to buyer.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return AuthResult{}, fmt.Errorf("%w: username and password are required", apperr.ErrInvalidInput)
	}

	if role == "" {
		role = authz.RoleBuyer
	}
	if !authz.ValidRole(role) {
		return AuthResult{}, fmt.Errorf("%w: unknown role %q", apperr.ErrInvalidInput, role)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:  username,
		Password:  hash,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return AuthResult{}, err
	}

	token, err := auth.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return AuthResult{}, fmt.Errorf("sign token: %w", err)
	}

	return AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and issues a token. Unknown username and wrong
// password are indistinguishable to the caller: same error, and the
// unknown-username path still runs a bcrypt compare.
func (s *AuthService) Login(ctx context.Context, username, password string) (AuthResult, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, apperr.ErrNotFound) {
		auth.CheckPassword(dummyHash, password)
		return AuthResult{}, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return AuthResult{}, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return AuthResult{}, apperr.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return AuthResult{}, fmt.Errorf("sign token: %w", err)
	}

	return AuthResult{Token: token, User: user}, nil
}
