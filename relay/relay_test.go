package relay

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	t.Run("parses upstream body", func(t *testing.T) {
		res := &http.Response{Body: io.NopCloser(strings.NewReader(`{"status":"ok","count":2}`))}
		value, err := JSON(res, nil)
		if err != nil {
			t.Fatalf("JSON() error = %v", err)
		}
		want := map[string]any{"status": "ok", "count": float64(2)}
		if !reflect.DeepEqual(value, want) {
			t.Errorf("JSON() = %v, want %v", value, want)
		}
	})

	t.Run("propagates upstream error", func(t *testing.T) {
		upstream := errors.New("connection refused")
		if _, err := JSON(nil, upstream); !errors.Is(err, upstream) {
			t.Fatalf("error = %v, want %v", err, upstream)
		}
	})

	t.Run("fails on non-JSON body", func(t *testing.T) {
		res := &http.Response{Body: io.NopCloser(strings.NewReader("<html>not json</html>"))}
		if _, err := JSON(res, nil); err == nil {
			t.Fatal("expected parse error")
		}
	})
}

func TestHandler(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Upstream", "yes")
		io.WriteString(w, "raw body")
	}))
	defer backend.Close()

	upstream, err := url.Parse(backend.URL)
	if err != nil {
		t.Fatalf("parse backend URL: %v", err)
	}

	rr := httptest.NewRecorder()
	Handler(upstream).ServeHTTP(rr, httptest.NewRequest("GET", "/anything", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Header().Get("X-Upstream") != "yes" {
		t.Error("proxied response lost upstream header")
	}
	if rr.Body.String() != "raw body" {
		t.Errorf("body = %q, want raw passthrough", rr.Body.String())
	}
}

func TestJSONHandler(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			io.WriteString(w, "not json")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"path":"`+r.URL.Path+`"}`)
	}))
	defer backend.Close()

	upstream, err := url.Parse(backend.URL)
	if err != nil {
		t.Fatalf("parse backend URL: %v", err)
	}
	handler := JSONHandler(upstream, nil)

	t.Run("re-emits parsed payload", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/data", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
		}
		if !strings.Contains(rr.Body.String(), `"path":"/data"`) {
			t.Errorf("body = %q", rr.Body.String())
		}
	})

	t.Run("non-JSON upstream is a bad gateway", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/broken", nil))
		if rr.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadGateway)
		}
	})
}
