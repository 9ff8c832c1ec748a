package postboard

import (
	"os"
	"time"

	"github.com/goliatone/go-errors"
)

// Default values used when the environment does not say otherwise.
const (
	DefaultTokenExpiration = 24 * time.Hour
	DefaultContextKey      = "user"
	DefaultTokenLookup     = "header:Authorization"
	DefaultAuthScheme      = "Bearer"
	DefaultIssuer          = "postboard"
	DefaultListenAddr      = ":8080"
	DefaultDSN             = "file:postboard.db?cache=shared&_pragma=foreign_keys(1)"
	DefaultPingTimeout     = 5 * time.Second
)

// PersistenceConfig carries the database client options.
type PersistenceConfig struct {
	Driver      string
	Server      string
	Database    string
	DSN         string
	Debug       bool
	PingTimeout time.Duration
}

func (p *PersistenceConfig) GetDriver() string             { return p.Driver }
func (p *PersistenceConfig) GetServer() string             { return p.Server }
func (p *PersistenceConfig) GetDatabase() string           { return p.Database }
func (p *PersistenceConfig) GetDSN() string                { return p.DSN }
func (p *PersistenceConfig) GetDebug() bool                { return p.Debug }
func (p *PersistenceConfig) GetPingTimeout() time.Duration { return p.PingTimeout }
func (p *PersistenceConfig) GetOtelIdentifier() string     { return "" }

// AppConfig is the environment backed Config implementation.
type AppConfig struct {
	SigningKey      string
	SigningMethod   string
	ContextKey      string
	TokenExpiration time.Duration
	TokenLookup     string
	AuthScheme      string
	Issuer          string
	ListenAddr      string
	DSN             string
	DBDebug         bool
	DBPingTimeout   time.Duration
}

var _ Config = (*AppConfig)(nil)

// NewConfigFromEnv reads the configuration from environment variables,
// falling back to defaults for everything but the signing key.
func NewConfigFromEnv() *AppConfig {
	cfg := &AppConfig{
		SigningKey:      os.Getenv("JWT_SECRET"),
		SigningMethod:   envOr("JWT_SIGNING_METHOD", "HS256"),
		ContextKey:      envOr("AUTH_CONTEXT_KEY", DefaultContextKey),
		TokenExpiration: DefaultTokenExpiration,
		TokenLookup:     envOr("AUTH_TOKEN_LOOKUP", DefaultTokenLookup),
		AuthScheme:      envOr("AUTH_SCHEME", DefaultAuthScheme),
		Issuer:          envOr("JWT_ISSUER", DefaultIssuer),
		ListenAddr:      envOr("LISTEN_ADDR", DefaultListenAddr),
		DSN:             envOr("DB_DSN", DefaultDSN),
		DBDebug:         os.Getenv("DB_DEBUG") == "true",
		DBPingTimeout:   DefaultPingTimeout,
	}

	if raw := os.Getenv("JWT_TTL"); raw != "" {
		if ttl, err := time.ParseDuration(raw); err == nil && ttl > 0 {
			cfg.TokenExpiration = ttl
		}
	}

	if raw := os.Getenv("DB_PING_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.DBPingTimeout = d
		}
	}

	return cfg
}

// Persistence returns the database client options derived from this
// configuration.
func (c *AppConfig) Persistence() *PersistenceConfig {
	return &PersistenceConfig{
		Driver:      "sqlite",
		DSN:         c.DSN,
		Debug:       c.DBDebug,
		PingTimeout: c.DBPingTimeout,
	}
}

// Validate makes sure the configuration is usable. A missing signing key
// is fatal, we never fall back to a baked in secret.
func (c *AppConfig) Validate() error {
	if c.SigningKey == "" {
		return errors.New("missing signing key, set JWT_SECRET", errors.CategoryOperation).
			WithTextCode("MISSING_SIGNING_KEY")
	}
	if c.TokenExpiration <= 0 {
		return errors.New("token expiration must be positive", errors.CategoryOperation).
			WithTextCode("INVALID_TOKEN_TTL")
	}
	switch c.SigningMethod {
	case "HS256", "HS384", "HS512":
	default:
		return errors.New("signing method must be one of HS256, HS384, HS512", errors.CategoryOperation).
			WithTextCode("INVALID_SIGNING_METHOD")
	}
	return nil
}

func (c *AppConfig) GetSigningKey() string             { return c.SigningKey }
func (c *AppConfig) GetSigningMethod() string          { return c.SigningMethod }
func (c *AppConfig) GetContextKey() string             { return c.ContextKey }
func (c *AppConfig) GetTokenExpiration() time.Duration { return c.TokenExpiration }
func (c *AppConfig) GetTokenLookup() string            { return c.TokenLookup }
func (c *AppConfig) GetAuthScheme() string             { return c.AuthScheme }
func (c *AppConfig) GetIssuer() string                 { return c.Issuer }

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
