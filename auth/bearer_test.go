package auth

import (
	"errors"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestDefaultBearerValidator(t *testing.T) {
	validate := DefaultBearerValidator()

	tests := []struct {
		name      string
		token     string
		wantValid bool
	}{
		{name: "accepted sentinel", token: "12345", wantValid: true},
		{name: "wrong token", token: "54321", wantValid: false},
		{name: "empty token", token: "", wantValid: false},
		{name: "sentinel with whitespace", token: " 12345", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := validate(tt.token)
			if outcome.IsValid != tt.wantValid {
				t.Fatalf("IsValid = %v, want %v", outcome.IsValid, tt.wantValid)
			}
			if !tt.wantValid {
				if outcome.User != nil {
					t.Errorf("rejected token resolved identity %+v", outcome.User)
				}
				return
			}
			if outcome.User == nil {
				t.Fatal("accepted token resolved no identity")
			}
			if outcome.User.Username != "glennjones" {
				t.Errorf("Username = %q, want %q", outcome.User.Username, "glennjones")
			}
			if outcome.User.Name != "Glenn Jones" {
				t.Errorf("Name = %q, want %q", outcome.User.Name, "Glenn Jones")
			}
			if len(outcome.User.Groups) == 0 {
				t.Error("accepted identity has no group memberships")
			}
		})
	}
}

func TestDefaultBearerValidator_Deterministic(t *testing.T) {
	validate := DefaultBearerValidator()
	first := validate(DefaultBearerToken)
	second := validate(DefaultBearerToken)
	if first.User == nil || second.User == nil {
		t.Fatal("expected identity on both evaluations")
	}
	if !reflect.DeepEqual(first.User, second.User) {
		t.Errorf("repeated evaluations resolved different identities: %+v vs %+v", first.User, second.User)
	}
}

func TestBearerStrategy_Authenticate(t *testing.T) {
	strategy := NewBearerStrategy(nil)

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{name: "missing header", header: "", wantErr: ErrMissingCredentials},
		{name: "wrong scheme", header: "Basic 12345", wantErr: ErrMissingCredentials},
		{name: "invalid token", header: "Bearer nope", wantErr: ErrInvalidCredentials},
		{name: "valid token", header: "Bearer 12345"},
		{name: "case-insensitive scheme", header: "bearer 12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/restricted", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			creds, err := strategy.Authenticate(r)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate() error = %v", err)
			}
			if creds.Strategy != "bearer" {
				t.Errorf("Strategy = %q, want %q", creds.Strategy, "bearer")
			}
			if creds.Token != "12345" {
				t.Errorf("Token = %q, want %q", creds.Token, "12345")
			}
			if creds.User == nil || creds.User.Username != "glennjones" {
				t.Errorf("User = %+v, want glennjones", creds.User)
			}
		})
	}
}
