package harness

import (
	"fmt"
	"net/http"

	"github.com/apitools/docharness/auth"
)

// AuthNone opts a route out of the server-wide default strategy.
const AuthNone = "none"

// Route is one entry of the ordered route table a bootstrap registers.
type Route struct {
	// Method is the HTTP method. Default: GET.
	Method string

	// Path is the URL path pattern (net/http ServeMux syntax).
	Path string

	// Auth names the strategy guarding this route. Empty uses the
	// server-wide default (if any); AuthNone leaves the route open.
	Auth string

	// Handler serves the route.
	Handler http.HandlerFunc
}

// DefaultHandler replies with a fixed literal body. It is the stand-in
// handler for routes whose behavior is irrelevant to the test.
func DefaultHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "ok")
}

// DefaultAuthHandler echoes the authenticated identity back as the response
// body. If strategy evaluation resolved credentials without a usable user
// identity, it fails with an unauthorized error carrying the attempted
// strategy name.
func DefaultAuthHandler(w http.ResponseWriter, r *http.Request) {
	creds := auth.FromContext(r.Context())
	if creds != nil && creds.User != nil {
		writeJSON(w, http.StatusOK, creds.User)
		return
	}
	strategy := ""
	if creds != nil {
		strategy = creds.Strategy
	}
	writeAuthError(w, ErrUnauthorized(strategy, "credentials resolved no user identity"))
}
