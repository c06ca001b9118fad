package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerateRequestID(t *testing.T) {
	first := GenerateRequestID()
	second := GenerateRequestID()
	if len(first) != 22 {
		t.Errorf("len = %d, want 22", len(first))
	}
	if first == second {
		t.Error("consecutive request IDs are equal")
	}
	if !requestIDPattern.MatchString(first) {
		t.Errorf("generated ID %q does not match its own validation pattern", first)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name         string
		upstreamID   string
		wantUpstream bool
	}{
		{name: "generates when missing", upstreamID: "", wantUpstream: false},
		{name: "preserves valid upstream id", upstreamID: "abc-123_XYZ", wantUpstream: true},
		{name: "replaces injection attempt", upstreamID: "bad\r\nid", wantUpstream: false},
		{name: "replaces oversized id", upstreamID: string(make([]byte, 200)), wantUpstream: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r.Context())
			}))

			r := httptest.NewRequest("GET", "/", nil)
			if tt.upstreamID != "" {
				r.Header.Set(RequestIDHeader, tt.upstreamID)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, r)

			header := rr.Header().Get(RequestIDHeader)
			if header == "" || seen == "" {
				t.Fatal("request ID missing from header or context")
			}
			if header != seen {
				t.Errorf("header %q != context %q", header, seen)
			}
			if tt.wantUpstream && header != tt.upstreamID {
				t.Errorf("upstream ID %q not preserved, got %q", tt.upstreamID, header)
			}
			if !tt.wantUpstream && tt.upstreamID != "" && header == tt.upstreamID {
				t.Errorf("invalid upstream ID %q was preserved", tt.upstreamID)
			}
		})
	}
}
