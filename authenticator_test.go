package postboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/postboard-io/postboard"
)

func newTestConfig() *postboard.AppConfig {
	return &postboard.AppConfig{
		SigningKey:      string(testSigningKey),
		SigningMethod:   "HS256",
		ContextKey:      "user",
		TokenExpiration: time.Hour,
		TokenLookup:     "header:Authorization",
		AuthScheme:      "Bearer",
		Issuer:          "postboard-test",
	}
}

func TestAuther_Register(t *testing.T) {
	store := &MockUserStore{}
	provider := &MockIdentityProvider{}

	store.On("ExistsByUsername", mock.Anything, "alice").Return(false, nil)
	store.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)
	store.On("Register", mock.Anything, mock.MatchedBy(func(u *postboard.User) bool {
		return u.Username == "alice" &&
			u.Email == "alice@example.com" &&
			u.PasswordHash != "" &&
			u.PasswordHash != "sup3rs3cret" &&
			u.Role == postboard.RoleUser
	})).Return(&postboard.User{
		Username: "alice",
		Email:    "alice@example.com",
	}, nil)

	auther := postboard.NewAuthenticator(provider, store, newTestConfig())

	user, err := auther.Register(context.Background(), postboard.RegisterUserMessage{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "sup3rs3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	store.AssertExpectations(t)
}

func TestAuther_Register_DuplicateUsername(t *testing.T) {
	store := &MockUserStore{}
	provider := &MockIdentityProvider{}

	store.On("ExistsByUsername", mock.Anything, "alice").Return(true, nil)

	auther := postboard.NewAuthenticator(provider, store, newTestConfig())

	_, err := auther.Register(context.Background(), postboard.RegisterUserMessage{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "sup3rs3cret",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, postboard.ErrUsernameTaken)

	store.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestAuther_Register_DuplicateEmail(t *testing.T) {
	store := &MockUserStore{}
	provider := &MockIdentityProvider{}

	store.On("ExistsByUsername", mock.Anything, "alice").Return(false, nil)
	store.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(true, nil)

	auther := postboard.NewAuthenticator(provider, store, newTestConfig())

	_, err := auther.Register(context.Background(), postboard.RegisterUserMessage{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "sup3rs3cret",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, postboard.ErrEmailTaken)

	store.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestAuther_Login(t *testing.T) {
	store := &MockUserStore{}
	provider := &MockIdentityProvider{}

	provider.On("VerifyIdentity", mock.Anything, "alice", "sup3rs3cret").
		Return(postboard.TokenIdentity("alice"), nil)

	auther := postboard.NewAuthenticator(provider, store, newTestConfig())

	token, err := auther.Login(context.Background(), "alice", "sup3rs3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// The issued token carries the username as its subject.
	claims, err := auther.TokenService().Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject())
}

func TestAuther_Login_BadCredentials(t *testing.T) {
	store := &MockUserStore{}
	provider := &MockIdentityProvider{}

	provider.On("VerifyIdentity", mock.Anything, "alice", "wrong").
		Return(nil, postboard.ErrMismatchedHashAndPassword)

	auther := postboard.NewAuthenticator(provider, store, newTestConfig())

	token, err := auther.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.Empty(t, token)
	assert.ErrorIs(t, err, postboard.ErrMismatchedHashAndPassword)
}

func TestAuther_Login_UnknownIdentity(t *testing.T) {
	store := &MockUserStore{}
	provider := &MockIdentityProvider{}

	provider.On("VerifyIdentity", mock.Anything, "ghost", "whatever").
		Return(nil, postboard.ErrIdentityNotFound)

	auther := postboard.NewAuthenticator(provider, store, newTestConfig())

	token, err := auther.Login(context.Background(), "ghost", "whatever")
	require.Error(t, err)
	assert.Empty(t, token)
	assert.ErrorIs(t, err, postboard.ErrIdentityNotFound)
}
