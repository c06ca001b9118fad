package harness

import (
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"

	"github.com/apitools/docharness/auth"
	"github.com/apitools/docharness/docs"
	"github.com/apitools/docharness/instrumentation"
	"github.com/apitools/docharness/relay"
	"github.com/apitools/docharness/security"
)

// Default mount prefixes for dual-mount topologies when the plugin options
// carry no RouteTag. Distinct by construction, so two untagged instances
// never collide.
const (
	defaultFirstMountTag  = "api1"
	defaultSecondMountTag = "api2"
)

// Server is the handle a bootstrap returns: a live, listening server owned
// by the caller for the remainder of the test. The bootstrap starts it; the
// caller tears it down with Close.
type Server struct {
	mux      *http.ServeMux
	httpSrv  *http.Server
	listener net.Listener
	logger   *slog.Logger
	cfg      *Config

	inst      *instrumentation.Instrumentation
	limiter   *security.RateLimiter
	templates *template.Template

	strategies      map[string]auth.Strategy
	defaultStrategy string
	mounts          map[string]bool

	url string
}

// New bootstraps a server with the base capabilities and the documentation
// plugin mounted at the server root. No authentication is installed; all
// routes are open. The route table and config are optional.
func New(ctx context.Context, opts docs.Options, routes []Route, cfg *Config) (*Server, error) {
	s, err := newServer(cfg)
	if err != nil {
		return nil, err
	}
	ctx, span := s.inst.StartBootstrapSpan(ctx, "basic")
	defer span.End()

	if err := s.registerBaseCapabilities(); err != nil {
		return nil, err
	}
	if err := s.mountPlugin(opts, ""); err != nil {
		return nil, err
	}
	if err := s.registerRoutes(routes); err != nil {
		return nil, err
	}
	if err := s.start(ctx); err != nil {
		return nil, err
	}
	s.inst.Metrics().RecordBootstrap(ctx, "basic")
	return s, nil
}

// NewDualMount bootstraps a server with the documentation plugin mounted
// twice, each instance under its own prefix derived from its options'
// RouteTag ("api1"/"api2" when untagged). The two instances must not
// collide on mount prefix. Extra routes are registered at the server root,
// outside both mounts.
func NewDualMount(ctx context.Context, first, second docs.Options, routes []Route, cfg *Config) (*Server, error) {
	s, err := newServer(cfg)
	if err != nil {
		return nil, err
	}
	ctx, span := s.inst.StartBootstrapSpan(ctx, "dual-mount")
	defer span.End()

	if err := s.registerBaseCapabilities(); err != nil {
		return nil, err
	}
	if err := s.mountPlugin(first, mountPrefix(first, defaultFirstMountTag)); err != nil {
		return nil, err
	}
	if err := s.mountPlugin(second, mountPrefix(second, defaultSecondMountTag)); err != nil {
		return nil, err
	}
	if err := s.registerRoutes(routes); err != nil {
		return nil, err
	}
	if err := s.start(ctx); err != nil {
		return nil, err
	}
	s.inst.Metrics().RecordBootstrap(ctx, "dual-mount")
	return s, nil
}

// NewBearerAuth bootstraps a server with a strategy named "bearer" backed by
// the default bearer validator. The strategy is not the server-wide default:
// routes opt in individually with Auth: "bearer". The route table is
// mandatory.
func NewBearerAuth(ctx context.Context, opts docs.Options, routes []Route, cfg *Config) (*Server, error) {
	if len(routes) == 0 {
		return nil, fmt.Errorf("bearer-auth bootstrap: route table is required")
	}
	s, err := newServer(cfg)
	if err != nil {
		return nil, err
	}
	ctx, span := s.inst.StartBootstrapSpan(ctx, "bearer-auth")
	defer span.End()

	if err := s.registerBaseCapabilities(); err != nil {
		return nil, err
	}
	if err := s.registerStrategy(auth.NewBearerStrategy(nil), false); err != nil {
		return nil, err
	}
	if err := s.mountPlugin(opts, ""); err != nil {
		return nil, err
	}
	if err := s.registerRoutes(routes); err != nil {
		return nil, err
	}
	if err := s.start(ctx); err != nil {
		return nil, err
	}
	s.inst.Metrics().RecordBootstrap(ctx, "bearer-auth")
	return s, nil
}

// NewJWTAuth bootstraps a server with a strategy named "jwt" as the
// server-wide default: every route not overriding Auth requires a JWT
// signed with the fixed symmetric key (HMAC-SHA256 only) whose claimed id
// exists in the default identity directory. The route table is mandatory.
func NewJWTAuth(ctx context.Context, opts docs.Options, routes []Route) (*Server, error) {
	if len(routes) == 0 {
		return nil, fmt.Errorf("jwt-auth bootstrap: route table is required")
	}
	s, err := newServer(nil)
	if err != nil {
		return nil, err
	}
	ctx, span := s.inst.StartBootstrapSpan(ctx, "jwt-auth")
	defer span.End()

	if err := s.registerBaseCapabilities(); err != nil {
		return nil, err
	}
	strategy := auth.NewJWTStrategy(auth.DefaultSigningKey, auth.NewJWTValidator(auth.DefaultDirectory()))
	if err := s.registerStrategy(strategy, true); err != nil {
		return nil, err
	}
	if err := s.mountPlugin(opts, ""); err != nil {
		return nil, err
	}
	if err := s.registerRoutes(routes); err != nil {
		return nil, err
	}
	if err := s.start(ctx); err != nil {
		return nil, err
	}
	s.inst.Metrics().RecordBootstrap(ctx, "jwt-auth")
	return s, nil
}

// NewBasicAuth bootstraps a server with a strategy named "basic" backed by
// the given account table (usernames mapped to bcrypt password hashes).
// Like the bearer variant, routes opt in individually. The route table is
// mandatory.
func NewBasicAuth(ctx context.Context, opts docs.Options, accounts map[string]auth.Account, routes []Route, cfg *Config) (*Server, error) {
	if len(routes) == 0 {
		return nil, fmt.Errorf("basic-auth bootstrap: route table is required")
	}
	s, err := newServer(cfg)
	if err != nil {
		return nil, err
	}
	ctx, span := s.inst.StartBootstrapSpan(ctx, "basic-auth")
	defer span.End()

	if err := s.registerBaseCapabilities(); err != nil {
		return nil, err
	}
	if err := s.registerStrategy(auth.NewBasicStrategy(auth.NewBasicValidator(accounts)), false); err != nil {
		return nil, err
	}
	if err := s.mountPlugin(opts, ""); err != nil {
		return nil, err
	}
	if err := s.registerRoutes(routes); err != nil {
		return nil, err
	}
	if err := s.start(ctx); err != nil {
		return nil, err
	}
	s.inst.Metrics().RecordBootstrap(ctx, "basic-auth")
	return s, nil
}

// newServer builds the unstarted server skeleton from the config.
func newServer(cfg *Config) (*Server, error) {
	cfg = applyDefaults(cfg)

	instCfg := instrumentation.Config{}
	if cfg.Instrumentation != nil {
		instCfg = *cfg.Instrumentation
	}
	inst, err := instrumentation.New(instCfg)
	if err != nil {
		return nil, fmt.Errorf("set up instrumentation: %w", err)
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     cfg.Logger,
		cfg:        cfg,
		inst:       inst,
		strategies: make(map[string]auth.Strategy),
		mounts:     make(map[string]bool),
	}
	if cfg.RateLimit.Rate > 0 {
		s.limiter = security.NewRateLimiter(cfg.RateLimit.Rate, cfg.RateLimit.Burst, cfg.Logger)
	}
	return s, nil
}

// mountPrefix derives the URL mount prefix for a plugin instance. An empty
// RouteTag falls back to the given default tag; the prefix is always rooted.
func mountPrefix(opts docs.Options, fallbackTag string) string {
	tag := opts.RouteTag
	if tag == "" {
		tag = fallbackTag
	}
	return "/" + tag
}

// registerBaseCapabilities wires static file serving, templating, and the
// proxy relay, each only when configured. Failures are fatal to the
// bootstrap.
func (s *Server) registerBaseCapabilities() error {
	cfg := s.cfg

	if cfg.StaticDir != "" {
		if _, err := os.Stat(cfg.StaticDir); err != nil {
			return fmt.Errorf("static capability: %w", err)
		}
		s.mux.Handle("GET /public/", http.StripPrefix("/public/", http.FileServer(http.Dir(cfg.StaticDir))))
	}

	if cfg.TemplateGlob != "" {
		templates, err := template.ParseGlob(cfg.TemplateGlob)
		if err != nil {
			return fmt.Errorf("templating capability: %w", err)
		}
		s.templates = templates
	}

	if cfg.Upstream != "" {
		upstream, err := url.Parse(cfg.Upstream)
		if err != nil {
			return fmt.Errorf("proxy capability: %w", err)
		}
		if upstream.Scheme == "" || upstream.Host == "" {
			return fmt.Errorf("proxy capability: upstream %q is not an absolute URL", cfg.Upstream)
		}
		s.mux.Handle("/proxy/", http.StripPrefix("/proxy", relay.Handler(upstream)))
		s.mux.Handle("/relay/", http.StripPrefix("/relay", relay.JSONHandler(upstream, cfg.HTTPClient)))
	}
	return nil
}

// registerStrategy installs a named authentication strategy, optionally as
// the server-wide default.
func (s *Server) registerStrategy(strategy auth.Strategy, asDefault bool) error {
	name := strategy.Name()
	if _, exists := s.strategies[name]; exists {
		return fmt.Errorf("auth strategy %q already registered", name)
	}
	s.strategies[name] = strategy
	if asDefault {
		s.defaultStrategy = name
	}
	s.logger.Debug("auth strategy registered", "strategy", name, "default", asDefault)
	return nil
}

// mountPlugin registers one documentation-plugin instance under the given
// prefix (empty means the server root). Mount prefixes must be unique
// within one server.
func (s *Server) mountPlugin(opts docs.Options, prefix string) error {
	if s.mounts[prefix] {
		return fmt.Errorf("plugin mount prefix %q already registered", displayPrefix(prefix))
	}
	plugin := s.cfg.PluginFactory(opts)
	if err := plugin.Register(s.mux, prefix); err != nil {
		return fmt.Errorf("mount documentation plugin at %q: %w", displayPrefix(prefix), err)
	}
	s.mounts[prefix] = true
	s.logger.Debug("documentation plugin mounted", "prefix", displayPrefix(prefix))
	return nil
}

func displayPrefix(prefix string) string {
	if prefix == "" {
		return "/"
	}
	return prefix
}

// registerRoutes registers the route table in order. Unknown strategy names
// and missing handlers are setup failures.
func (s *Server) registerRoutes(routes []Route) error {
	for _, route := range routes {
		if route.Path == "" {
			return fmt.Errorf("route path is required")
		}
		if route.Handler == nil {
			return fmt.Errorf("route %s: handler is required", route.Path)
		}
		handler, err := s.routeHandler(route)
		if err != nil {
			return err
		}
		method := route.Method
		if method == "" {
			method = http.MethodGet
		}
		s.mux.Handle(method+" "+route.Path, handler)
	}
	return nil
}

// routeHandler resolves the effective strategy for a route and wraps its
// handler accordingly.
func (s *Server) routeHandler(route Route) (http.Handler, error) {
	name := route.Auth
	if name == "" {
		name = s.defaultStrategy
	}
	if name == AuthNone {
		name = ""
	}
	var handler http.Handler = route.Handler
	if name != "" {
		strategy, ok := s.strategies[name]
		if !ok {
			return nil, fmt.Errorf("route %s: unknown auth strategy %q", route.Path, name)
		}
		handler = s.requireAuth(strategy, handler)
	}
	return handler, nil
}

// requireAuth guards a handler with a strategy. A rejection becomes a
// standard unauthorized JSON response, never a process-level failure.
func (s *Server) requireAuth(strategy auth.Strategy, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		creds, err := strategy.Authenticate(r)
		s.inst.Metrics().RecordAuthAttempt(r.Context(), strategy.Name(), err == nil)
		if err != nil {
			s.logger.Debug("authentication rejected",
				"strategy", strategy.Name(),
				"path", r.URL.Path,
				"error", err)
			writeAuthError(w, ErrUnauthorized(strategy.Name(), err.Error()))
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithCredentials(r.Context(), creds)))
	})
}

// handler assembles the middleware chain around the mux.
func (s *Server) handler() http.Handler {
	var handler http.Handler = s.mux
	handler = s.metricsMiddleware(handler)
	if s.limiter != nil {
		handler = s.rateLimitMiddleware(handler)
	}
	return security.RequestIDMiddleware(handler)
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.inst.Metrics().RecordHTTPRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r, s.cfg.RateLimit.TrustProxy, s.cfg.RateLimit.TrustedProxyCount)
		if !s.limiter.Allow(ip) {
			s.inst.Metrics().RecordRateLimited(r.Context())
			s.logger.Debug("request rate limited", "ip", ip, "path", r.URL.Path)
			writeError(w, ErrorCodeRateLimitExceeded, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// start binds the listening socket and begins serving. It is the last
// bootstrap step; a bind failure aborts the bootstrap.
func (s *Server) start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", addr, err)
	}

	scheme := "http"
	if s.cfg.TLSConfig != nil {
		listener = tls.NewListener(listener, s.cfg.TLSConfig)
		scheme = "https"
	}
	s.listener = listener
	s.url = fmt.Sprintf("%s://%s", scheme, listener.Addr().String())
	s.httpSrv = &http.Server{Handler: s.handler()}

	go func() {
		if err := s.httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("harness server stopped unexpectedly", "url", s.url, "error", err)
		}
	}()

	s.logger.Debug("harness server listening", "url", s.url)
	return nil
}

// URL returns the base URL of the running server.
func (s *Server) URL() string { return s.url }

// Addr returns the bound listen address.
func (s *Server) Addr() net.Addr { return s.listener.Addr() }

// RenderTemplate executes a named template from the templating capability.
func (s *Server) RenderTemplate(w http.ResponseWriter, name string, data any) error {
	if s.templates == nil {
		return fmt.Errorf("templating capability not configured")
	}
	return s.templates.ExecuteTemplate(w, name, data)
}

// Close shuts the server down and releases its resources. The caller owns
// the handle; bootstraps never tear down servers themselves.
func (s *Server) Close(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	err := s.httpSrv.Shutdown(ctx)
	if ierr := s.inst.Shutdown(ctx); err == nil {
		err = ierr
	}
	return err
}
