package services

import (
	"context"
	"testing"
	"time"

	"github.com/Kariqs/puffvibe-api/logger"
	"github.com/Kariqs/puffvibe-api/models"
	"github.com/Kariqs/puffvibe-api/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService() (*AuthService, *repositories.MemoryStore) {
	store := repositories.NewMemoryStore()
	return NewAuthService(store, "test-secret", logger.Discard()), store
}

func signup() models.SignupData {
	return models.SignupData{
		Name:     "Achieng",
		Email:    "  Achieng@Example.com ",
		Phone:    "0744000004",
		Password: "s3cret-pass",
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	auth, _ := newAuthService()

	user, token, err := auth.Register(context.Background(), signup())
	require.NoError(t, err)
	assert.Equal(t, "achieng@example.com", user.Email)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.NotEqual(t, "s3cret-pass", user.Password)

	principal, err := auth.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)
	assert.Equal(t, models.RoleCustomer, principal.Role)
	assert.Equal(t, "achieng@example.com", principal.Email)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	auth, _ := newAuthService()
	_, _, err := auth.Register(context.Background(), signup())
	require.NoError(t, err)

	again := signup()
	again.Email = "other@example.com"
	_, _, err = auth.Register(context.Background(), again)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestLogin(t *testing.T) {
	auth, _ := newAuthService()
	ctx := context.Background()
	_, _, err := auth.Register(ctx, signup())
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, models.LoginData{Email: "achieng@example.com", Password: "wrong"})
	assert.Equal(t, KindUnauthorized, KindOf(err))

	_, _, err = auth.Login(ctx, models.LoginData{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.Equal(t, KindUnauthorized, KindOf(err))

	user, token, err := auth.Login(ctx, models.LoginData{Email: "ACHIENG@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	require.NotNil(t, user.LastLogin)

	me, err := auth.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, me.Email)

	_, err = auth.Me(ctx, 999)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	auth, _ := newAuthService()
	user, _, err := auth.Register(context.Background(), signup())
	require.NoError(t, err)

	_, err = auth.Authenticate("not-a-token")
	assert.Equal(t, KindUnauthorized, KindOf(err))

	other := NewAuthService(repositories.NewMemoryStore(), "another-secret", logger.Discard())
	forged, err := other.generateJWT(user)
	require.NoError(t, err)
	_, err = auth.Authenticate(forged)
	assert.Equal(t, KindUnauthorized, KindOf(err))

	auth.now = func() time.Time { return time.Now().Add(-31 * 24 * time.Hour) }
	expired, err := auth.generateJWT(user)
	require.NoError(t, err)
	auth.now = time.Now
	_, err = auth.Authenticate(expired)
	assert.Equal(t, KindUnauthorized, KindOf(err))
}

func TestEnsureAdmin(t *testing.T) {
	auth, store := newAuthService()
	ctx := context.Background()

	created, err := auth.EnsureAdmin(ctx, "", "Admin@PuffVibe.co.ke", "0700000000", "admin-pass")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = auth.EnsureAdmin(ctx, "", "admin@puffvibe.co.ke", "0700000000", "admin-pass")
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := store.GetUserByEmail(ctx, "admin@puffvibe.co.ke")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	_, token, err := auth.Login(ctx, models.LoginData{Email: "admin@puffvibe.co.ke", Password: "admin-pass"})
	require.NoError(t, err)
	principal, err := auth.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, principal.Role)

	created, err = auth.EnsureAdmin(ctx, "", "", "", "")
	require.NoError(t, err)
	assert.False(t, created)
}
