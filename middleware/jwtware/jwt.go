// Package jwtware provides the request authentication filter and the
// access decision gate for fiber applications.
//
// The filter never rejects a request. It extracts a bearer token when one
// is present, validates it, and records either the verified claims or the
// validation error on the request. Deciding whether an anonymous request
// may proceed is the gate's job, keeping extraction and policy separate.
package jwtware

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// ErrJWTMissingOrMalformed is returned by extractors when no token can be
// pulled out of the request.
var ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT", errors.CategoryAuth).
	WithTextCode("TOKEN_MISSING").
	WithCode(errors.CodeUnauthorized)

// AuthClaims is the verified content of a token. Mirrored here so the
// middleware does not depend on the root package.
type AuthClaims interface {
	Subject() string
	Expires() time.Time
	IssuedAt() time.Time
}

// TokenValidator validates a raw token string and returns its claims.
type TokenValidator interface {
	Validate(token string) (AuthClaims, error)
}

// TokenValidatorFunc adapts a function to the TokenValidator interface.
type TokenValidatorFunc func(token string) (AuthClaims, error)

func (f TokenValidatorFunc) Validate(token string) (AuthClaims, error) {
	return f(token)
}

// Logger is the minimal logging surface the middleware uses.
type Logger interface {
	Error(format string, args ...any)
}

// Config holds the filter configuration.
type Config struct {
	// Filter skips the middleware when it returns true.
	Filter func(*fiber.Ctx) bool

	// TokenValidator verifies extracted tokens. Required.
	TokenValidator TokenValidator

	// ContextKey is the fiber Locals key the verified claims are stored
	// under. Defaults to "user".
	ContextKey string

	// ErrorKey is the fiber Locals key a validation failure is recorded
	// under for the gate to pick up. Defaults to "auth_error".
	ErrorKey string

	// TokenLookup is a comma separated list of "<source>:<name>" entries
	// tried in order. Supported sources: header, query, cookie.
	// Defaults to "header:Authorization".
	TokenLookup string

	// AuthScheme is the expected prefix of the Authorization header
	// value. Only used with the header source. Defaults to "Bearer".
	AuthScheme string

	// ContextEnricher, when set, derives a new request context from the
	// verified claims. Used to expose the identity to handlers.
	ContextEnricher func(ctx context.Context, claims AuthClaims) context.Context

	// Logger records validation failures. Optional.
	Logger Logger
}

func (c *Config) setDefaults() {
	if c.ContextKey == "" {
		c.ContextKey = "user"
	}
	if c.ErrorKey == "" {
		c.ErrorKey = "auth_error"
	}
	if c.TokenLookup == "" {
		c.TokenLookup = "header:" + fiber.HeaderAuthorization
	}
	if c.AuthScheme == "" {
		c.AuthScheme = "Bearer"
	}
}

// New builds the authentication filter middleware.
//
// The filter is fail open. A missing token leaves the request anonymous,
// an invalid token records the error under ErrorKey, and in every case
// the request continues down the chain.
func New(config ...Config) fiber.Handler {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}
	cfg.setDefaults()

	if cfg.TokenValidator == nil {
		panic("jwtware: TokenValidator is required")
	}

	extractors := getExtractors(cfg.TokenLookup, cfg.AuthScheme)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		// A previous filter in the chain already authenticated this
		// request, do not run it through validation twice.
		if c.Locals(cfg.ContextKey) != nil {
			return c.Next()
		}

		token, err := extractToken(c, extractors)
		if err != nil {
			return c.Next()
		}

		claims, err := cfg.TokenValidator.Validate(token)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Error("token validation failed: %v", err)
			}
			c.Locals(cfg.ErrorKey, err)
			return c.Next()
		}

		c.Locals(cfg.ContextKey, claims)
		if cfg.ContextEnricher != nil {
			c.SetUserContext(cfg.ContextEnricher(c.UserContext(), claims))
		}

		return c.Next()
	}
}

type extractor func(c *fiber.Ctx) (string, error)

// getExtractors parses a TokenLookup string into an ordered extractor
// chain. Unknown sources are skipped.
func getExtractors(tokenLookup, authScheme string) []extractor {
	chain := []extractor{}

	for _, entry := range strings.Split(tokenLookup, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 2)
		if len(parts) != 2 {
			continue
		}
		source, name := parts[0], parts[1]

		switch source {
		case "header":
			chain = append(chain, jwtFromHeader(name, authScheme))
		case "query":
			chain = append(chain, jwtFromQuery(name))
		case "cookie":
			chain = append(chain, jwtFromCookie(name))
		}
	}

	if len(chain) == 0 {
		chain = append(chain, jwtFromHeader(fiber.HeaderAuthorization, authScheme))
	}

	return chain
}

func extractToken(c *fiber.Ctx, chain []extractor) (string, error) {
	for _, fn := range chain {
		if token, err := fn(c); err == nil && token != "" {
			return token, nil
		}
	}
	return "", ErrJWTMissingOrMalformed
}

// jwtFromHeader extracts the token from a request header, stripping the
// auth scheme prefix when one is configured.
func jwtFromHeader(header, authScheme string) extractor {
	return func(c *fiber.Ctx) (string, error) {
		value := c.Get(header)
		if value == "" {
			return "", ErrJWTMissingOrMalformed
		}

		if authScheme == "" {
			return strings.TrimSpace(value), nil
		}

		prefix := len(authScheme)
		if len(value) <= prefix+1 || !strings.EqualFold(value[:prefix], authScheme) || value[prefix] != ' ' {
			return "", ErrJWTMissingOrMalformed
		}

		return strings.TrimSpace(value[prefix+1:]), nil
	}
}

func jwtFromQuery(param string) extractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Query(param)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

func jwtFromCookie(name string) extractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}
