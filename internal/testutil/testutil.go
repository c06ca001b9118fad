package testutil

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// GenerateRandomString generates a random base64-encoded string.
func GenerateRandomString(length int) string {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("failed to generate random string: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)[:length]
}

// GenerateTestToken creates a test OAuth2 token for exercising bearer
// transport without caring about the token value.
func GenerateTestToken() *oauth2.Token {
	return &oauth2.Token{
		AccessToken: GenerateRandomString(32),
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(1 * time.Hour),
	}
}

// SignJWT signs claims with the given symmetric key using HMAC-SHA256,
// matching what the JWT bootstrap verifies.
func SignJWT(t *testing.T, key []byte, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign test JWT: %v", err)
	}
	return signed
}

// SignJWTWithMethod signs claims with an arbitrary signing method, for tests
// asserting that non-HS256 tokens are rejected.
func SignJWTWithMethod(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(method, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign test JWT: %v", err)
	}
	return signed
}

// NewMockHTTPServer creates a test HTTP server with the given handler.
func NewMockHTTPServer(handler http.HandlerFunc) *httptest.Server {
	return httptest.NewServer(handler)
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error but got nil")
	}
}

// AssertEqual fails the test if got != want.
func AssertEqual(t *testing.T, got, want interface{}) {
	t.Helper()
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

// AssertTrue fails the test if condition is false.
func AssertTrue(t *testing.T, condition bool, message string) {
	t.Helper()
	if !condition {
		t.Errorf("assertion failed: %s", message)
	}
}

// AssertStringContains fails the test if s does not contain substr.
func AssertStringContains(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("string %q does not contain %q", s, substr)
	}
}

// HTTPRequest is a helper for making test HTTP requests against a running
// harness server.
type HTTPRequest struct {
	Method  string
	URL     string
	Headers map[string]string
}

// NewHTTPRequest creates a new HTTP request helper.
func NewHTTPRequest(method, url string) *HTTPRequest {
	return &HTTPRequest{
		Method:  method,
		URL:     url,
		Headers: make(map[string]string),
	}
}

// WithHeader adds a header to the request.
func (r *HTTPRequest) WithHeader(key, value string) *HTTPRequest {
	r.Headers[key] = value
	return r
}

// Do executes the request over the network.
func (r *HTTPRequest) Do(t *testing.T) *http.Response {
	t.Helper()
	req, err := http.NewRequest(r.Method, r.URL, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("execute request: %v", err)
	}
	return res
}
