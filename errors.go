package postboard

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeTokenExpired     = "token_expired"
	TextCodeTokenMalformed   = "token_malformed"
	TextCodeBadSignature     = "token_bad_signature"
	TextCodeUsernameTaken    = "username_taken"
	TextCodeEmailTaken       = "email_taken"
	TextCodeIdentityNotFound = "identity_not_found"
	TextCodeBadCredentials   = "bad_credentials"
)

// ErrTokenExpired is returned when a token's expiration is in the past.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a token cannot be decoded.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenSignatureInvalid is returned when the MAC does not match.
var ErrTokenSignatureInvalid = errors.New("token signature is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeBadSignature).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToDecodeToken is returned when claims cannot be mapped.
var ErrUnableToDecodeToken = errors.New("unable to decode token claims", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrUsernameTaken is returned when signup hits an existing username.
var ErrUsernameTaken = errors.New("username is already registered", errors.CategoryConflict).
	WithTextCode(TextCodeUsernameTaken).
	WithCode(errors.CodeBadRequest)

// ErrEmailTaken is returned when signup hits an existing email.
var ErrEmailTaken = errors.New("email is already registered", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeBadRequest)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryAuth).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is returned when the password does not
// match the stored digest.
var ErrMismatchedHashAndPassword = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeBadCredentials).
	WithCode(errors.CodeBadRequest)

// ErrNoEmptyString prevents hashing empty passwords.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for undecodable tokens
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed")
}

// IsBadSignatureError will check for MAC mismatches
func IsBadSignatureError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeBadSignature {
		return true
	}
	return strings.Contains(err.Error(), "signature is invalid")
}
