package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewJWTValidator(t *testing.T) {
	validate := NewJWTValidator(DefaultDirectory())

	tests := []struct {
		name   string
		claims jwt.MapClaims
		wantOK bool
	}{
		{name: "known id", claims: jwt.MapClaims{"id": float64(56732)}, wantOK: true},
		{name: "unknown id", claims: jwt.MapClaims{"id": float64(99999)}, wantOK: false},
		{name: "missing id", claims: jwt.MapClaims{"name": "whoever"}, wantOK: false},
		{name: "non-numeric id", claims: jwt.MapClaims{"id": "56732"}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, ok := validate(tt.claims)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				if user != nil {
					t.Errorf("rejected claims resolved identity %+v", user)
				}
				return
			}
			if user.ID != 56732 {
				t.Errorf("ID = %d, want 56732", user.ID)
			}
			if user.Name != "Jen Jones" {
				t.Errorf("Name = %q, want %q", user.Name, "Jen Jones")
			}
		})
	}
}

func TestDirectory_Lookup(t *testing.T) {
	dir := NewDirectory(
		Identity{ID: 1, Name: "First"},
		Identity{ID: 2, Name: "Second"},
	)
	if dir.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", dir.Len())
	}
	if _, ok := dir.Lookup(3); ok {
		t.Error("Lookup(3) unexpectedly succeeded")
	}
	entry, ok := dir.Lookup(2)
	if !ok || entry.Name != "Second" {
		t.Errorf("Lookup(2) = %+v, %v", entry, ok)
	}

	// Returned entries are copies of the read-only table.
	entry.Name = "mutated"
	again, _ := dir.Lookup(2)
	if again.Name != "Second" {
		t.Error("directory entry mutated through Lookup result")
	}
}

func signHS256(t *testing.T, key []byte, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestJWTStrategy_Authenticate(t *testing.T) {
	strategy := NewJWTStrategy(nil, nil)

	t.Run("missing header", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/restricted", nil)
		if _, err := strategy.Authenticate(r); !errors.Is(err, ErrMissingCredentials) {
			t.Fatalf("error = %v, want %v", err, ErrMissingCredentials)
		}
	})

	t.Run("valid token raw header", func(t *testing.T) {
		token := signHS256(t, DefaultSigningKey, jwt.MapClaims{"id": 56732})
		r := httptest.NewRequest("GET", "/restricted", nil)
		r.Header.Set("Authorization", token)
		creds, err := strategy.Authenticate(r)
		if err != nil {
			t.Fatalf("Authenticate() error = %v", err)
		}
		if creds.Strategy != "jwt" {
			t.Errorf("Strategy = %q, want %q", creds.Strategy, "jwt")
		}
		if creds.User == nil || creds.User.ID != 56732 {
			t.Errorf("User = %+v, want id 56732", creds.User)
		}
	})

	t.Run("valid token bearer scheme", func(t *testing.T) {
		token := signHS256(t, DefaultSigningKey, jwt.MapClaims{"id": 56732})
		r := httptest.NewRequest("GET", "/restricted", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		if _, err := strategy.Authenticate(r); err != nil {
			t.Fatalf("Authenticate() error = %v", err)
		}
	})

	t.Run("unknown principal", func(t *testing.T) {
		token := signHS256(t, DefaultSigningKey, jwt.MapClaims{"id": 424242})
		r := httptest.NewRequest("GET", "/restricted", nil)
		r.Header.Set("Authorization", token)
		if _, err := strategy.Authenticate(r); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("error = %v, want %v", err, ErrInvalidCredentials)
		}
	})

	t.Run("wrong signing key", func(t *testing.T) {
		token := signHS256(t, []byte("some other key"), jwt.MapClaims{"id": 56732})
		r := httptest.NewRequest("GET", "/restricted", nil)
		r.Header.Set("Authorization", token)
		if _, err := strategy.Authenticate(r); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("error = %v, want %v", err, ErrInvalidCredentials)
		}
	})

	t.Run("algorithm restricted to HS256", func(t *testing.T) {
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			t.Fatalf("generate key: %v", err)
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{"id": 56732}).SignedString(key)
		if err != nil {
			t.Fatalf("sign token: %v", err)
		}
		r := httptest.NewRequest("GET", "/restricted", nil)
		r.Header.Set("Authorization", signed)
		if _, err := strategy.Authenticate(r); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("error = %v, want %v", err, ErrInvalidCredentials)
		}
	})
}
