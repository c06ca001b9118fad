package relay

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
)

// JSON reads the full body of a proxied upstream response and parses it as
// JSON. A non-nil err short-circuits: it is returned unchanged so callers
// can chain the adapter directly onto an http.Client call. A body that is
// not valid JSON fails the read.
func JSON(res *http.Response, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("relay: read upstream body: %w", err)
	}
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return nil, fmt.Errorf("relay: parse upstream body: %w", err)
	}
	return value, nil
}

// Handler returns the proxy capability: a reverse proxy forwarding every
// request to the given upstream, raw response passed through untouched.
func Handler(upstream *url.URL) http.Handler {
	return httputil.NewSingleHostReverseProxy(upstream)
}

// JSONHandler fetches the request path from the upstream, runs the response
// through the JSON adapter, and re-emits the parsed payload. It is used by
// bootstrap configurations that want the JSON value rather than the raw
// proxied response. A nil client uses http.DefaultClient.
func JSONHandler(upstream *url.URL, client *http.Client) http.Handler {
	if client == nil {
		client = http.DefaultClient
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target := *upstream
		target.Path = r.URL.Path
		target.RawQuery = r.URL.RawQuery

		req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target.String(), nil)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		value, err := JSON(client.Do(req))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(value); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
