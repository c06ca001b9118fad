package auth

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// Account pairs an identity with the bcrypt hash of its password. Plaintext
// passwords are never stored, even in a test harness.
type Account struct {
	Identity Identity

	// PasswordHash is the bcrypt hash of the account password.
	PasswordHash string
}

// BasicValidator decides whether a username/password pair is accepted.
type BasicValidator func(username, password string) (*Identity, bool)

// NewBasicValidator returns a validator backed by the given account table,
// keyed by username. Passwords are checked with bcrypt.
func NewBasicValidator(accounts map[string]Account) BasicValidator {
	return func(username, password string) (*Identity, bool) {
		account, ok := accounts[username]
		if !ok {
			return nil, false
		}
		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
			return nil, false
		}
		identity := account.Identity
		return &identity, true
	}
}

// BasicStrategy authenticates requests carrying HTTP basic auth credentials.
type BasicStrategy struct {
	validate BasicValidator
}

// NewBasicStrategy creates a basic-auth strategy backed by the given
// validator.
func NewBasicStrategy(validate BasicValidator) *BasicStrategy {
	return &BasicStrategy{validate: validate}
}

// Name returns "basic".
func (s *BasicStrategy) Name() string { return "basic" }

// Authenticate extracts the basic-auth pair and runs it through the
// validator.
func (s *BasicStrategy) Authenticate(r *http.Request) (*Credentials, error) {
	username, password, ok := r.BasicAuth()
	if !ok {
		return nil, ErrMissingCredentials
	}
	user, ok := s.validate(username, password)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return &Credentials{
		Strategy: s.Name(),
		User:     user,
	}, nil
}
