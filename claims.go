package postboard

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the read side of a validated token. The subject is the
// username; no other application claims are round-tripped.
type AuthClaims interface {
	Subject() string
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
}

var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// TokenIdentity builds the identity established from a validated token.
// It carries the subject only: no email, no role, no authority.
func TokenIdentity(username string) Identity {
	return tokenIdentity{username: username}
}

type tokenIdentity struct {
	username string
}

func (t tokenIdentity) ID() string       { return t.username }
func (t tokenIdentity) Username() string { return t.username }
func (t tokenIdentity) Email() string    { return "" }
func (t tokenIdentity) Role() string     { return "" }
