package auth

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSigningKey is the fixed symmetric key the JWT bootstrap signs and
// verifies tokens with. Test suites sign their tokens with the same key.
var DefaultSigningKey = []byte("harness-jwt-signing-key")

// JWTValidator decides whether a decoded claim set is accepted and what
// identity it maps to.
type JWTValidator func(claims jwt.MapClaims) (*Identity, bool)

// NewJWTValidator returns a validator that looks up the claimed numeric id
// in the given identity directory. Acceptance is pure existence: no group or
// scope cross-check happens beyond the directory lookup.
func NewJWTValidator(dir *Directory) JWTValidator {
	return func(claims jwt.MapClaims) (*Identity, bool) {
		raw, ok := claims["id"]
		if !ok {
			return nil, false
		}
		// encoding/json decodes JSON numbers into float64.
		id, ok := raw.(float64)
		if !ok {
			return nil, false
		}
		return dir.Lookup(int64(id))
	}
}

// JWTStrategy authenticates requests carrying an HMAC-SHA256 signed JWT in
// the Authorization header (raw or with the Bearer scheme).
type JWTStrategy struct {
	key      []byte
	validate JWTValidator
}

// NewJWTStrategy creates a JWT strategy using the given symmetric signing
// key and validator. The signature algorithm is restricted to HS256; tokens
// signed with any other algorithm are rejected before the validator runs.
func NewJWTStrategy(key []byte, validate JWTValidator) *JWTStrategy {
	if key == nil {
		key = DefaultSigningKey
	}
	if validate == nil {
		validate = NewJWTValidator(DefaultDirectory())
	}
	return &JWTStrategy{key: key, validate: validate}
}

// Name returns "jwt".
func (s *JWTStrategy) Name() string { return "jwt" }

// Authenticate parses and verifies the presented token, then runs the
// decoded claims through the validator.
func (s *JWTStrategy) Authenticate(r *http.Request) (*Credentials, error) {
	raw := r.Header.Get("Authorization")
	if raw == "" {
		return nil, ErrMissingCredentials
	}
	// Accept both "Authorization: <token>" and "Authorization: Bearer <token>".
	if token, err := bearerToken(r); err == nil {
		raw = token
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	user, ok := s.validate(claims)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return &Credentials{
		Strategy: s.Name(),
		Claims:   claims,
		User:     user,
	}, nil
}
