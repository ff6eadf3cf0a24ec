package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/canteen/app/repositories"
	"github.com/shashiranjanraj/canteen/app/services"
	"github.com/shashiranjanraj/canteen/pkg/apperr"
	"github.com/shashiranjanraj/canteen/pkg/auth"
)

func newAuthService() *services.AuthService {
	return services.NewAuthService(repositories.NewMemoryUserRepository())
}

func TestRegister(t *testing.T) {
	svc := newAuthService()

	result, err := svc.Register(context.Background(), "alice", "secret1", "")
	require.NoError(t, err)

	assert.False(t, result.User.ID.IsZero())
	assert.Equal(t, "alice", result.User.Username)
	assert.Equal(t, "buyer", result.User.Role, "role defaults to buyer")
	assert.NotEqual(t, "secret1", result.User.Password, "password must be stored hashed")
	assert.True(t, auth.CheckPassword(result.User.Password, "secret1"))

	claims, err := auth.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID.Hex(), claims.UserID)
	assert.Equal(t, "buyer", claims.Role)
}

func TestRegisterSeller(t *testing.T) {
	svc := newAuthService()

	result, err := svc.Register(context.Background(), "owner1", "owner123", "seller")
	require.NoError(t, err)
	assert.Equal(t, "seller", result.User.Role)
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "secret1", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Register(ctx, "alice", "", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Register(ctx, "alice", "secret1", "admin")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret1", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other-password", "seller")
	assert.ErrorIs(t, err, apperr.ErrDuplicateUsername)
}

func TestLogin(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "customer1", "customer123", "")
	require.NoError(t, err)

	result, err := svc.Login(ctx, "customer1", "customer123")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, result.User.ID)

	claims, err := auth.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID.Hex(), claims.UserID)
}

// Unknown username and wrong password must be the same error value, so a
// caller probing the login endpoint cannot enumerate accounts.
func TestLoginFailuresIndistinguishable(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "customer1", "customer123", "")
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, "customer1", "nope")
	_, unknownUser := svc.Login(ctx, "no-such-user", "nope")

	assert.ErrorIs(t, wrongPassword, apperr.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, apperr.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}
