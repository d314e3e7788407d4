package service

import (
	"context"
	"starter_api/internal/common"
	"starter_api/internal/common/security"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "foo", "bar", false)

	pair, err := f.auth.Login(context.Background(), "foo", "bar")
	require.NoError(t, err)
	assert.Equal(t, security.TokenTypeBearer, pair.TokenType)

	access, err := f.tokens.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "foo", access.Subject)
	assert.Equal(t, security.ScopeAccess, access.Scope)
	assert.True(t, access.Fresh, "login must issue a fresh access token")

	refresh, err := f.tokens.Verify(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, security.ScopeRefresh, refresh.Scope)
}

func TestAuthService_Login_Failures(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "foo", "bar", false)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"wrong password", "foo", "wrong", common.ErrUnauthorized},
		{"unknown user", "nobody", "bar", common.ErrUnauthorized},
		{"missing password", "foo", "", common.ErrUnauthorized},
		{"missing username", "", "bar", common.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := f.auth.Login(context.Background(), tt.username, tt.password)
			assert.Nil(t, pair)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_Login_NumericUsernameIsNotAnID(t *testing.T) {
	f := newFixture(t)
	alice := f.createUser(t, "alice", "alicepw", false)
	numeric := f.createUser(t, "1", "onepw", false)
	require.Equal(t, int64(1), alice.ID)
	require.NotEqual(t, alice.ID, numeric.ID)

	pair, err := f.auth.Login(context.Background(), "1", "onepw")
	require.NoError(t, err)
	access, err := f.tokens.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "1", access.Subject)

	pair, err = f.auth.Login(context.Background(), "1", "alicepw")
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestAuthService_Login_UnknownAndWrongPasswordLookAlike(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "foo", "bar", false)

	_, unknown := f.auth.Login(context.Background(), "nobody", "bar")
	_, wrong := f.auth.Login(context.Background(), "foo", "nope")
	assert.Equal(t, common.PublicMessage(unknown), common.PublicMessage(wrong))
}

func TestAuthService_Refresh(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "foo", "bar", false)

	pair, err := f.auth.Login(context.Background(), "foo", "bar")
	require.NoError(t, err)

	refreshed, err := f.auth.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	access, err := f.tokens.Verify(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "foo", access.Subject)
	assert.False(t, access.Fresh, "refreshed access tokens are never fresh")
}

func TestAuthService_Refresh_Rejections(t *testing.T) {
	f := newFixture(t)
	foo := f.createUser(t, "foo", "bar", false)
	_, err := f.users.Create(context.Background(), CreateUserRequest{Username: "sleepy", Password: "x", Disabled: true})
	require.NoError(t, err)

	fooPair, err := f.auth.Login(context.Background(), "foo", "bar")
	require.NoError(t, err)
	sleepyPair, err := f.auth.Login(context.Background(), "sleepy", "x")
	require.NoError(t, err)
	ghostRefresh, err := f.tokens.Issue("ghost", security.ScopeRefresh, 0, false)
	require.NoError(t, err)

	t.Run("access token", func(t *testing.T) {
		_, err := f.auth.Refresh(context.Background(), fooPair.AccessToken)
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})
	t.Run("garbage", func(t *testing.T) {
		_, err := f.auth.Refresh(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})
	t.Run("unknown subject", func(t *testing.T) {
		_, err := f.auth.Refresh(context.Background(), ghostRefresh)
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})
	t.Run("disabled subject", func(t *testing.T) {
		_, err := f.auth.Refresh(context.Background(), sleepyPair.RefreshToken)
		assert.ErrorIs(t, err, common.ErrUnauthorized)
		assert.Equal(t, "Inactive user", common.PublicMessage(err))
	})
	t.Run("deleted subject", func(t *testing.T) {
		admin := f.createUser(t, "admin", "admin", true)
		require.NoError(t, f.users.Delete(context.Background(), admin, foo.ID))

		_, err := f.auth.Refresh(context.Background(), fooPair.RefreshToken)
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})
}

func TestAuthService_LookupUser(t *testing.T) {
	f := newFixture(t)
	foo := f.createUser(t, "foo", "bar", false)

	got, err := f.auth.LookupUser(context.Background(), "foo")
	require.NoError(t, err)
	assert.Equal(t, foo.ID, got.ID)

	_, err = f.auth.LookupUser(context.Background(), "1")
	assert.ErrorIs(t, err, common.ErrNotFound, "subjects are usernames, not ids")
}
