package auth

import (
	"crypto/subtle"
	"net/http"
)

// DefaultBearerToken is the single token value the default bearer validator
// accepts.
const DefaultBearerToken = "12345"

// BearerOutcome is the result of evaluating a bearer token.
type BearerOutcome struct {
	// IsValid reports whether the token was accepted.
	IsValid bool

	// User is the resolved identity; nil when the token was rejected.
	User *Identity
}

// BearerValidator decides whether a presented bearer token is accepted and
// what identity it maps to. Validators must be pure: same token, same
// outcome.
type BearerValidator func(token string) BearerOutcome

// NewBearerValidator returns a validator accepting exactly one token value.
// On acceptance it resolves the fixed identity; on rejection it produces no
// identity. The comparison is constant-time, which is immaterial for a test
// credential but matches how real token checks are written.
func NewBearerValidator(accepted string, user Identity) BearerValidator {
	return func(token string) BearerOutcome {
		if subtle.ConstantTimeCompare([]byte(token), []byte(accepted)) != 1 {
			return BearerOutcome{}
		}
		u := user
		return BearerOutcome{IsValid: true, User: &u}
	}
}

// DefaultBearerValidator accepts DefaultBearerToken and resolves the fixed
// glennjones identity.
func DefaultBearerValidator() BearerValidator {
	return NewBearerValidator(DefaultBearerToken, Identity{
		Username: "glennjones",
		Name:     "Glenn Jones",
		Groups:   []string{"admin", "user"},
	})
}

// BearerStrategy authenticates requests carrying an Authorization header with
// the Bearer scheme.
type BearerStrategy struct {
	validate BearerValidator
}

// NewBearerStrategy creates a bearer strategy backed by the given validator.
// A nil validator falls back to DefaultBearerValidator.
func NewBearerStrategy(validate BearerValidator) *BearerStrategy {
	if validate == nil {
		validate = DefaultBearerValidator()
	}
	return &BearerStrategy{validate: validate}
}

// Name returns "bearer".
func (s *BearerStrategy) Name() string { return "bearer" }

// Authenticate extracts the bearer token and runs it through the validator.
func (s *BearerStrategy) Authenticate(r *http.Request) (*Credentials, error) {
	token, err := bearerToken(r)
	if err != nil {
		return nil, err
	}
	outcome := s.validate(token)
	if !outcome.IsValid {
		return nil, ErrInvalidCredentials
	}
	return &Credentials{
		Strategy: s.Name(),
		Token:    token,
		User:     outcome.User,
	}, nil
}
