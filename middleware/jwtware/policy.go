package jwtware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Rule maps a path prefix to an access decision.
type Rule struct {
	Prefix string
	Public bool
}

// Policy decides whether a path may be reached anonymously. Rules are
// evaluated in order, first match wins, and an unmatched path is private.
type Policy struct {
	rules []Rule
}

// NewPolicy builds a policy from an ordered rule list.
func NewPolicy(rules ...Rule) *Policy {
	return &Policy{rules: rules}
}

// DefaultPolicy opens the auth endpoints, the API docs and the health
// check. Everything else requires authentication.
func DefaultPolicy() *Policy {
	return NewPolicy(
		Rule{Prefix: "/api/auth", Public: true},
		Rule{Prefix: "/docs", Public: true},
		Rule{Prefix: "/healthz", Public: true},
	)
}

// IsPublic reports whether the given path may be served anonymously.
func (p *Policy) IsPublic(path string) bool {
	for _, rule := range p.rules {
		if strings.HasPrefix(path, rule.Prefix) {
			return rule.Public
		}
	}
	return false
}

// GateConfig configures the access decision gate.
type GateConfig struct {
	// ContextKey must match the filter's ContextKey.
	ContextKey string

	// ErrorKey must match the filter's ErrorKey.
	ErrorKey string

	// Responder writes the rejection for a request that carried no
	// credential at all. Defaults to a bare 401.
	Responder fiber.Handler
}

// Gate enforces the policy. It is the only place a request gets
// rejected: the filter upstream records outcomes, the gate acts on them.
func Gate(policy *Policy, config ...GateConfig) fiber.Handler {
	cfg := GateConfig{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}
	if cfg.ErrorKey == "" {
		cfg.ErrorKey = "auth_error"
	}
	if cfg.Responder == nil {
		cfg.Responder = func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
	}
	if policy == nil {
		policy = DefaultPolicy()
	}

	return func(c *fiber.Ctx) error {
		if policy.IsPublic(c.Path()) {
			return c.Next()
		}

		if c.Locals(cfg.ContextKey) != nil {
			return c.Next()
		}

		// A credential was presented but failed validation. Surface the
		// recorded error so the application error handler can shape the
		// response.
		if err, ok := c.Locals(cfg.ErrorKey).(error); ok && err != nil {
			return err
		}

		return cfg.Responder(c)
	}
}
