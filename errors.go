package harness

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes used in JSON error responses.
const (
	ErrorCodeBadRequest        = "bad_request"
	ErrorCodeUnauthorized      = "unauthorized"
	ErrorCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrorCodeServerError       = "server_error"
)

// AuthError represents an authentication or authorization failure surfaced
// to the HTTP layer. It carries the name of the strategy that was attempted.
type AuthError struct {
	Code        string // error code (e.g. "unauthorized")
	Description string // human-readable description
	Strategy    string // the attempted authentication strategy, if any
	Status      int    // HTTP status code
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Strategy != "" {
		return fmt.Sprintf("%s (strategy %q): %s", e.Code, e.Strategy, e.Description)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// NewAuthError creates a new auth error.
func NewAuthError(code, description, strategy string, status int) *AuthError {
	return &AuthError{
		Code:        code,
		Description: description,
		Strategy:    strategy,
		Status:      status,
	}
}

// ErrUnauthorized builds the standard unauthorized error for a strategy.
var ErrUnauthorized = func(strategy, desc string) *AuthError {
	return NewAuthError(ErrorCodeUnauthorized, desc, strategy, http.StatusUnauthorized)
}

// errorResponse is the JSON shape of error bodies.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	Strategy         string `json:"strategy,omitempty"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, code, description string, status int) {
	writeJSON(w, status, errorResponse{Error: code, ErrorDescription: description})
}

// writeAuthError writes an AuthError as a JSON response.
func writeAuthError(w http.ResponseWriter, err *AuthError) {
	writeJSON(w, err.Status, errorResponse{
		Error:            err.Code,
		ErrorDescription: err.Description,
		Strategy:         err.Strategy,
	})
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
