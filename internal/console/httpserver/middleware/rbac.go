package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"shivaccounts.cloud/console/internal/console/observability"
	"shivaccounts.cloud/console/internal/console/rbac"
)

// RequireCapability aborts the request with 403 when the session role lacks the capability.
func RequireCapability(capability rbac.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state, ok := StateFromContext(r.Context())
			if !ok || !state.Authenticated || !rbac.HasCapability(state.Role, capability) {
				observability.FromContext(r.Context()).Warn("capability denied",
					zap.String("reason", "forbidden"),
					zap.String("capability", string(capability)),
					zap.String("role", string(state.Role)),
				)
				forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func forbidden(w http.ResponseWriter, r *http.Request) {
	if IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Refresh", "true")
	}
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}
