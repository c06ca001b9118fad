package security

import (
	"net/http/httptest"
	"testing"
)

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name              string
		remoteAddr        string
		forwardedFor      string
		realIP            string
		trustProxy        bool
		trustedProxyCount int
		want              string
	}{
		{
			name:       "direct connection",
			remoteAddr: "192.0.2.10:54321",
			want:       "192.0.2.10",
		},
		{
			name:         "forwarded header ignored when proxy untrusted",
			remoteAddr:   "192.0.2.10:54321",
			forwardedFor: "203.0.113.7",
			want:         "192.0.2.10",
		},
		{
			name:              "single trusted proxy",
			remoteAddr:        "192.0.2.10:54321",
			forwardedFor:      "203.0.113.7, 192.0.2.10",
			trustProxy:        true,
			trustedProxyCount: 1,
			want:              "203.0.113.7",
		},
		{
			name:              "two trusted proxies",
			remoteAddr:        "192.0.2.10:54321",
			forwardedFor:      "203.0.113.7, 198.51.100.4, 192.0.2.10",
			trustProxy:        true,
			trustedProxyCount: 2,
			want:              "203.0.113.7",
		},
		{
			name:       "real ip fallback",
			remoteAddr: "192.0.2.10:54321",
			realIP:     "203.0.113.9",
			trustProxy: true,
			want:       "203.0.113.9",
		},
		{
			name:         "garbage forwarded value falls through",
			remoteAddr:   "192.0.2.10:54321",
			forwardedFor: "not-an-ip",
			trustProxy:   true,
			want:         "192.0.2.10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwardedFor != "" {
				r.Header.Set("X-Forwarded-For", tt.forwardedFor)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := GetClientIP(r, tt.trustProxy, tt.trustedProxyCount); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
