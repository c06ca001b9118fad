package harness

import (
	"crypto/tls"
	"log/slog"
	"net/http"

	"github.com/apitools/docharness/docs"
	"github.com/apitools/docharness/instrumentation"
)

// Config holds the low-level server options every bootstrap variant accepts.
// The zero value (or a nil *Config) yields a loopback server on an ephemeral
// port with all optional capabilities left unconfigured.
type Config struct {
	// Host is the listen host. Default: "127.0.0.1".
	Host string

	// Port is the listen port. Default: 0 (ephemeral, pick a free port).
	// Concurrent tests should keep the default so handles never collide.
	Port int

	// TLSConfig, when set, serves HTTPS with the given configuration.
	TLSConfig *tls.Config

	// StaticDir, when set, enables the static-file capability: files under
	// the directory are served at /public/.
	StaticDir string

	// TemplateGlob, when set, enables the templating capability: templates
	// matching the glob are parsed at bootstrap and available to handlers
	// via Server.RenderTemplate.
	TemplateGlob string

	// Upstream, when set, enables the proxy-relay capability: /proxy/
	// forwards raw to the upstream, /relay/ re-emits the upstream payload
	// as parsed JSON.
	Upstream string

	// HTTPClient is used by the JSON relay when fetching the upstream.
	// Default: http.DefaultClient.
	HTTPClient *http.Client

	// RateLimit configures optional per-IP rate limiting.
	RateLimit RateLimitConfig

	// Logger for structured logging. Default: slog.Default().
	Logger *slog.Logger

	// Instrumentation enables OpenTelemetry metrics and tracing. Nil means
	// disabled (no-op providers).
	Instrumentation *instrumentation.Config

	// PluginFactory constructs the documentation plugin from an options
	// bag. Default: docs.New (the reference plugin). Tests exercising an
	// external plugin supply their own factory.
	PluginFactory docs.Factory
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	// Rate is requests per second allowed per IP. Zero disables limiting.
	Rate int

	// Burst is the maximum burst size allowed per IP.
	Burst int

	// TrustProxy enables trusting X-Forwarded-For and X-Real-IP headers.
	// Only enable behind a trusted reverse proxy.
	TrustProxy bool

	// TrustedProxyCount is the number of trusted proxies in front of the
	// server, counted from the right of the forwarded chain. Default: 1.
	TrustedProxyCount int
}

// applyDefaults normalizes a possibly-nil config.
func applyDefaults(cfg *Config) *Config {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.PluginFactory == nil {
		cfg.PluginFactory = docs.New
	}
	return cfg
}
