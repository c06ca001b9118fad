package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Identity describes an authenticated principal.
type Identity struct {
	// ID is the numeric principal id (used by the JWT directory lookup).
	ID int64 `json:"id,omitempty"`

	// Username is the login name of the principal.
	Username string `json:"username,omitempty"`

	// Name is the human-readable display name.
	Name string `json:"name"`

	// Groups lists the principal's group memberships.
	Groups []string `json:"groups,omitempty"`
}

// Credentials is the outcome of a successful strategy evaluation. It carries
// the raw presented credential alongside the resolved identity, if any.
type Credentials struct {
	// Strategy is the name of the strategy that produced these credentials.
	Strategy string `json:"strategy"`

	// Token is the raw presented token, when the strategy is token-based.
	Token string `json:"token,omitempty"`

	// Claims holds the decoded claim set for claim-based strategies (JWT).
	Claims map[string]any `json:"claims,omitempty"`

	// User is the resolved identity. Routes requiring authentication treat
	// credentials without a User as an authorization failure.
	User *Identity `json:"user,omitempty"`
}

// Strategy is a named, pluggable authentication mechanism. Authenticate
// inspects the request, evaluates the presented credential, and either
// returns resolved credentials or an error describing the rejection.
type Strategy interface {
	// Name returns the strategy name routes refer to (e.g. "bearer", "jwt").
	Name() string

	// Authenticate evaluates the request's credential.
	Authenticate(r *http.Request) (*Credentials, error)
}

// Rejection sentinels returned by strategy Authenticate implementations.
var (
	// ErrMissingCredentials indicates the request carried no credential in
	// the format the strategy expects.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrInvalidCredentials indicates a credential was presented but the
	// validator declined it.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// credentialsContextKey is the context key for resolved credentials.
type credentialsContextKey struct{}

// WithCredentials returns a context carrying the resolved credentials.
func WithCredentials(ctx context.Context, creds *Credentials) context.Context {
	return context.WithValue(ctx, credentialsContextKey{}, creds)
}

// FromContext retrieves the resolved credentials, or nil when the request
// was not authenticated.
func FromContext(ctx context.Context) *Credentials {
	if creds, ok := ctx.Value(credentialsContextKey{}).(*Credentials); ok {
		return creds
	}
	return nil
}

// bearerToken extracts the token from an Authorization header using the
// Bearer scheme. The scheme comparison is case-insensitive per RFC 6750.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingCredentials
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", fmt.Errorf("%w: authorization header is not a bearer credential", ErrMissingCredentials)
	}
	return parts[1], nil
}
