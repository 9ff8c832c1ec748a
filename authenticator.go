package postboard

import (
	"context"
	"reflect"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
)

// RegisterUserMessage carries a signup request into the verifier.
type RegisterUserMessage struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Auther orchestrates signup and login against the user store, the
// password hasher, and the token service. It is stateless between calls.
type Auther struct {
	provider     IdentityProvider
	store        UserStore
	hasher       PasswordAuthenticator
	tokenService TokenService
	logger       Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, store UserStore, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		defLogger{},
	).WithSigningMethod(opts.GetSigningMethod())

	return &Auther{
		provider:     provider,
		store:        store,
		hasher:       BcryptHasher{},
		tokenService: tokenService,
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService sets a custom token service.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// WithPasswordAuthenticator sets a custom credential hasher.
func (s *Auther) WithPasswordAuthenticator(hasher PasswordAuthenticator) *Auther {
	if hasher != nil {
		s.hasher = hasher
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Register runs the signup flow. Duplicate checks run before any write;
// the record is persisted only after every validation passed. No token is
// issued at signup.
func (s *Auther) Register(ctx context.Context, msg RegisterUserMessage) (*User, error) {
	taken, err := s.store.ExistsByUsername(ctx, msg.Username)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check username availability")
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	taken, err = s.store.ExistsByEmail(ctx, msg.Email)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check email availability")
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.HashPassword(msg.Password)
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	role, ok := ParseRole(msg.Role)
	if !ok {
		role = RoleUser
	}

	user := &User{
		Username:     msg.Username,
		Email:        msg.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if id, err := hashid.NewUUID(msg.Email); err == nil {
		user.ID = id
	}

	created, err := s.store.Register(ctx, user)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryConflict, "could not create user").
			WithCode(errors.CodeBadRequest)
	}

	s.logger.Info("registered user %s", created.Username)
	return created, nil
}

// Login runs the login flow and issues a token for the verified identity.
// The token subject is the username.
func (s *Auther) Login(ctx context.Context, identifier, password string) (string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		s.logger.Error("Login verify identity error: %v", err)
		return "", err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return "", ErrIdentityNotFound
	}

	token, err := s.tokenService.Generate(identity.Username())
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to issue token")
	}

	return token, nil
}

var _ Authenticator = (*Auther)(nil)
