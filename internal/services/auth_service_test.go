package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gmart/internal/domain"
	"gmart/internal/repos"
	"gmart/internal/services"
)

func newAuth(t *testing.T) *services.AuthService {
	a := services.NewAuthService(repos.NewUserRepo(openDB(t)))
	a.Cost = bcrypt.MinCost
	return a
}

func TestSignInSeededUser(t *testing.T) {
	a := newAuth(t)
	ctx := context.Background()

	s, err := a.SignIn(ctx, "Alice@gmart.test", "Passw0rd!")
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, "u-alice", s.User.ID)

	u, err := a.CurrentUser(ctx, s.Token)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "alice@gmart.test", u.Email)

	require.NoError(t, a.SignOut(ctx, s.Token))
	u, err = a.CurrentUser(ctx, s.Token)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestSignInBadCredentials(t *testing.T) {
	a := newAuth(t)
	_, err := a.SignIn(context.Background(), "alice@gmart.test", "wrong")
	assert.ErrorIs(t, err, services.ErrBadCreds)
	_, err = a.SignIn(context.Background(), "nobody@gmart.test", "Passw0rd!")
	assert.ErrorIs(t, err, services.ErrBadCreds)
}

func TestSignUp(t *testing.T) {
	a := newAuth(t)
	ctx := context.Background()

	s, err := a.SignUp(ctx, "Carol", "carol@gmart.test", "Sup3r$ecret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, s.User.Role)

	_, err = a.SignIn(ctx, "carol@gmart.test", "Sup3r$ecret")
	require.NoError(t, err)

	_, err = a.SignUp(ctx, "Carol", "carol@gmart.test", "Sup3r$ecret")
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	_, err = a.SignUp(ctx, "Dan", "dan@gmart.test", "short")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestCurrentUserUnknownToken(t *testing.T) {
	a := newAuth(t)
	u, err := a.CurrentUser(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, u)
}
