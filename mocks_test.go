package postboard_test

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/mock"

	"github.com/postboard-io/postboard"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) Register(ctx context.Context, user *postboard.User) (*postboard.User, error) {
	args := m.Called(ctx, user)
	if u := args.Get(0); u != nil {
		return u.(*postboard.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockUserTracker struct {
	mock.Mock
}

func (m *MockUserTracker) GetByUsername(ctx context.Context, username string) (*postboard.User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*postboard.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserTracker) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*postboard.User, error) {
	args := m.Called(ctx, identifier)
	if u := args.Get(0); u != nil {
		return u.(*postboard.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (postboard.Identity, error) {
	args := m.Called(ctx, identifier, password)
	if id := args.Get(0); id != nil {
		return id.(postboard.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (postboard.Identity, error) {
	args := m.Called(ctx, identifier)
	if id := args.Get(0); id != nil {
		return id.(postboard.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}
