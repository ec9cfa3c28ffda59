package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"shivaccounts.cloud/console/internal/console/auth"
	custommw "shivaccounts.cloud/console/internal/console/httpserver/middleware"
	"shivaccounts.cloud/console/internal/console/httpserver/ui"
	"shivaccounts.cloud/console/internal/console/ledger"
	"shivaccounts.cloud/console/internal/console/observability"
	"shivaccounts.cloud/console/internal/console/rbac"
	"shivaccounts.cloud/console/public"
)

// Config holds runtime options for the console HTTP server.
type Config struct {
	Address          string
	BasePath         string
	Logger           *zap.Logger
	Sessions         custommw.SessionStore
	AuthService      auth.Service
	Ledger           ledger.Service
	CSRFCookieName   string
	CSRFCookieSecure bool
	CSRFHeaderName   string
	RequestTimeout   time.Duration
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) *http.Server {
	if cfg.Sessions == nil {
		panic("httpserver: session store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.InjectLogger(logger))
	router.Use(observability.RequestLogger())
	router.Use(observability.Recovery())
	router.Use(chimw.Timeout(timeout))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	staticContent, err := public.StaticFS()
	if err != nil {
		logger.Fatal("embed static", zap.Error(err))
	}
	router.Handle("/public/static/*", http.StripPrefix("/public/static/", http.FileServer(http.FS(staticContent))))

	basePath := custommw.NormaliseBase(cfg.BasePath)
	loginPath := resolveLoginPath(basePath)

	authService := cfg.AuthService
	if authService == nil {
		authService = auth.NewMockService()
	}

	mountConsoleRoutes(router, basePath, routeOptions{
		LoginPath:   loginPath,
		Sessions:    cfg.Sessions,
		AuthService: authService,
		Ledger:      cfg.Ledger,
		CSRF: custommw.CSRFConfig{
			CookieName: cfg.CSRFCookieName,
			CookiePath: "/",
			HeaderName: cfg.CSRFHeaderName,
			Secure:     cfg.CSRFCookieSecure,
		},
	})

	return &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

type routeOptions struct {
	LoginPath   string
	Sessions    custommw.SessionStore
	AuthService auth.Service
	Ledger      ledger.Service
	CSRF        custommw.CSRFConfig
}

func mountConsoleRoutes(router chi.Router, base string, opts routeOptions) {
	uiHandlers := ui.NewHandlers(ui.Dependencies{
		Ledger: opts.Ledger,
	})
	authHandlers := newAuthHandlers(opts.AuthService, base, opts.LoginPath)

	router.Route(base, func(r chi.Router) {
		r.Use(custommw.HTMX())
		r.Use(custommw.RequestInfoMiddleware(base))
		r.Use(custommw.Session(opts.Sessions))
		r.Use(custommw.CSRF(opts.CSRF))

		r.Get("/login", authHandlers.LoginForm)
		r.Post("/login", authHandlers.LoginSubmit)

		r.Group(func(r chi.Router) {
			r.Use(custommw.NoStore())
			r.Use(custommw.RequireAuth(opts.LoginPath))

			r.Get("/", uiHandlers.Home)
			r.With(custommw.RequireCapability(rbac.CapRolePreview)).Post("/role", uiHandlers.SwitchRole)
			r.Post("/logout", authHandlers.Logout)
			RegisterFragment(r.With(custommw.RequireCapability(rbac.CapInvoicesPay)), "/fragments/invoices/{number}/pay", uiHandlers.PayInvoiceModal)
			r.Get("/*", uiHandlers.Page)
		})
	})
}

func resolveLoginPath(base string) string {
	if base == "/" {
		return "/login"
	}
	return base + "/login"
}

// RegisterFragment registers a GET handler intended for htmx fragment rendering.
func RegisterFragment(r chi.Router, pattern string, handler http.HandlerFunc) {
	r.With(custommw.RequireHTMX()).Get(pattern, handler)
}
