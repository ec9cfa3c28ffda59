package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"shivaccounts.cloud/console/internal/console/observability"
)

const (
	// ReasonMissingSession indicates a request without an authenticated session.
	ReasonMissingSession = "missing_session"
	// ReasonUnauthenticated indicates a session that never completed login.
	ReasonUnauthenticated = "unauthenticated"
)

// RequireAuth lets requests through only when the session state is authenticated.
// Others are redirected to loginPath, or receive 401 with HX-Redirect when issued by htmx.
func RequireAuth(loginPath string) func(http.Handler) http.Handler {
	if loginPath == "" {
		loginPath = "/login"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state, ok := StateFromContext(r.Context())
			if !ok || !state.Authenticated {
				reason := ReasonUnauthenticated
				if !ok {
					reason = ReasonMissingSession
				}
				observability.FromContext(r.Context()).Warn("auth failure",
					zap.String("reason", reason),
					zap.String("path", r.URL.Path),
				)
				handleUnauthorized(w, r, loginPath)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func handleUnauthorized(w http.ResponseWriter, r *http.Request, loginPath string) {
	if IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Redirect", loginPath)
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	http.Redirect(w, r, loginPath, http.StatusFound)
}
