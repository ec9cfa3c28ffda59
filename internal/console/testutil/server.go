package testutil

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"shivaccounts.cloud/console/internal/console/auth"
	"shivaccounts.cloud/console/internal/console/httpserver"
	"shivaccounts.cloud/console/internal/console/ledger"
	"shivaccounts.cloud/console/internal/console/session"
)

// TestHashKey signs session cookies issued by NewServer.
const TestHashKey = "0123456789abcdef0123456789abcdef"

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithBasePath sets a custom base path for the console routes.
func WithBasePath(path string) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.BasePath = path
	}
}

// WithAuthService overrides the authentication service.
func WithAuthService(service auth.Service) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.AuthService = service
	}
}

// WithLedger wires a custom ledger service implementation.
func WithLedger(service ledger.Service) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Ledger = service
	}
}

// WithLogger routes server logs to logger.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Logger = logger
	}
}

// NewServer constructs an httptest server running the console HTTP stack with sensible defaults.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	sessions, err := session.NewManager(session.Config{HashKey: []byte(TestHashKey)})
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}

	cfg := httpserver.Config{
		Address:        ":0",
		BasePath:       "/app",
		Logger:         zap.NewNop(),
		Sessions:       sessions,
		AuthService:    auth.NewMockService(),
		Ledger:         ledger.NewStaticService(),
		CSRFCookieName: "console_csrf",
		CSRFHeaderName: "X-CSRF-Token",
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	srv := httpserver.New(cfg)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

// NewClient returns a client with a cookie jar that does not follow redirects.
func NewClient(t testing.TB) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
