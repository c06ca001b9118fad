package security

import (
	"net"
	"net/http"
	"strings"
)

// GetClientIP extracts the client IP for rate-limit accounting. When
// trustProxy is set the X-Forwarded-For and X-Real-IP headers are consulted,
// with trustedProxyCount proxies trusted from the right of the forwarded
// chain; otherwise the direct connection address is used.
func GetClientIP(r *http.Request, trustProxy bool, trustedProxyCount int) string {
	if trustProxy {
		if ip := ipFromForwardedFor(r.Header.Get("X-Forwarded-For"), trustedProxyCount); ip != "" {
			return ip
		}
		if ip := r.Header.Get("X-Real-IP"); net.ParseIP(ip) != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ipFromForwardedFor picks the client IP out of an X-Forwarded-For chain.
// The chain reads "client, proxy1, proxy2"; the rightmost entries are the
// proxies we control, so the client sits at len - trusted - 1.
func ipFromForwardedFor(xff string, trustedProxyCount int) string {
	if xff == "" {
		return ""
	}
	ips := strings.Split(xff, ",")
	if trustedProxyCount == 0 {
		trustedProxyCount = 1
	}
	idx := len(ips) - trustedProxyCount - 1
	if idx < 0 {
		idx = 0
	}
	ip := strings.TrimSpace(ips[idx])
	if net.ParseIP(ip) == nil {
		return ""
	}
	return ip
}
