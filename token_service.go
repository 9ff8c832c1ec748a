package postboard

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
	method     *jwt.SigningMethodHMAC
	logger     Logger
}

var _ TokenService = (*TokenServiceImpl)(nil)

// NewTokenService creates a new TokenService instance. The signing key is
// the process-wide secret: loaded once, never rotated at runtime.
func NewTokenService(signingKey []byte, ttl time.Duration, issuer string, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey: signingKey,
		ttl:        ttl,
		issuer:     issuer,
		method:     jwt.SigningMethodHS256,
		logger:     logger,
	}
}

// WithSigningMethod selects the HMAC variant used to sign new tokens.
// Anything outside the HMAC family keeps the HS256 default; validation
// accepts the whole family since every variant shares the same key.
func (ts *TokenServiceImpl) WithSigningMethod(name string) *TokenServiceImpl {
	if m, ok := jwt.GetSigningMethod(name).(*jwt.SigningMethodHMAC); ok && m != nil {
		ts.method = m
	}
	return ts
}

// Generate creates a signed token for the subject using the configured ttl.
func (ts *TokenServiceImpl) Generate(subject string) (string, error) {
	return ts.GenerateWithTTL(subject, ts.ttl)
}

// GenerateWithTTL creates a signed token whose expiration is now + ttl.
// A zero or negative ttl produces a token that is already expired.
func (ts *TokenServiceImpl) GenerateWithTTL(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("token subject must not be empty", errors.CategoryBadInput)
	}

	now := time.Now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(ts.method, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign token")
	}

	return signedString, nil
}

// Validate parses and verifies a token string, returning structured claims.
func (ts *TokenServiceImpl) Validate(tokenString string) (AuthClaims, error) {
	if tokenString == "" {
		return nil, ErrTokenMalformed
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, ts.keyFunc)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, errors.Wrap(err, ErrTokenSignatureInvalid.Category, ErrTokenSignatureInvalid.Message).
				WithTextCode(ErrTokenSignatureInvalid.TextCode).
				WithCode(errors.CodeUnauthorized)
		default:
			return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
				WithTextCode(ErrTokenMalformed.TextCode).
				WithCode(errors.CodeUnauthorized)
		}
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService validate could not decode or validate claims")
		return nil, ErrUnableToDecodeToken
	}

	return claims, nil
}

// Subject verifies the token and returns the embedded subject.
func (ts *TokenServiceImpl) Subject(tokenString string) (string, error) {
	claims, err := ts.Validate(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject(), nil
}

// IsExpired reports whether the token's expiration is at or before the
// current wall-clock time. Undecodable input also reports true; callers
// that need to distinguish malformed tokens must parse first.
func (ts *TokenServiceImpl) IsExpired(tokenString string) bool {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, ts.keyFunc, jwt.WithoutClaimsValidation())
	if err != nil {
		return true
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || claims.RegisteredClaims.ExpiresAt == nil {
		return true
	}

	return !claims.RegisteredClaims.ExpiresAt.Time.After(time.Now())
}

// ValidateForSubject reports whether the token parses, carries exactly the
// expected subject, and has not expired. This is a deliberate fail-closed
// boundary: every error variant collapses to false and nothing propagates.
func (ts *TokenServiceImpl) ValidateForSubject(tokenString, expectedSubject string) bool {
	if tokenString == "" || expectedSubject == "" {
		return false
	}

	claims, err := ts.Validate(tokenString)
	if err != nil {
		return false
	}

	if claims.Subject() != expectedSubject {
		return false
	}

	return !ts.IsExpired(tokenString)
}

func (ts *TokenServiceImpl) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		ts.logger.Error("TokenService encountered unexpected signing method: %v", t.Header["alg"])
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return ts.signingKey, nil
}
