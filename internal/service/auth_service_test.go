package service

import (
	"context"
	"testing"
	"time"

	"github.com/mpavic/ripple/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService() (*AuthService, *memory.UserRepo) {
	users := memory.NewUserRepo()
	issuer := NewTokenIssuer("test-secret", time.Hour)
	return NewAuthService(users, issuer, time.Second), users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{
		FirstName: "Ana",
		LastName:  "Kovac",
		Email:     "ana@example.com",
		Password:  "Sup3rSecret",
		Location:  "Zagreb",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", reg.User.Email)
	assert.NotEmpty(t, reg.AccessToken)
	assert.NotEqual(t, "Sup3rSecret", reg.User.PasswordHash)

	login, err := svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "Sup3rSecret"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
	assert.NotEmpty(t, login.AccessToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, users := newAuthService()
	ctx := context.Background()

	input := RegisterInput{
		FirstName: "Ana",
		LastName:  "Kovac",
		Email:     "a@x.com",
		Password:  "Sup3rSecret",
	}

	_, err := svc.Register(ctx, input)
	require.NoError(t, err)

	_, err = svc.Register(ctx, input)
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, 1, users.Count(), "failed registration must not add a second record")
}

func TestLoginRejections(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		FirstName: "Ana", LastName: "Kovac",
		Email: "ana@example.com", Password: "Sup3rSecret",
	})
	require.NoError(t, err)

	// Unknown email and wrong password are indistinguishable to the caller.
	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "Sup3rSecret"})
	assert.ErrorIs(t, err, ErrInvalidCreds)

	_, err = svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCreds)
}
