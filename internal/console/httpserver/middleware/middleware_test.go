package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"shivaccounts.cloud/console/internal/console/rbac"
	"shivaccounts.cloud/console/internal/console/session"
)

const testHashKey = "0123456789abcdef0123456789abcdef"

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	m, err := session.NewManager(session.Config{HashKey: []byte(testHashKey)})
	require.NoError(t, err)
	return m
}

func signedIn(t *testing.T, role rbac.Role) *session.Session {
	t.Helper()
	sess := newManager(t).New()
	sess.Dispatch(session.LoginSucceeded{Email: "a@b.com", Role: role})
	return sess
}

func TestSessionSavesBeforeBodyIsWritten(t *testing.T) {
	t.Parallel()

	manager := newManager(t)
	handler := Session(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := SessionFromContext(r.Context())
		require.True(t, ok)
		sess.Dispatch(session.LoginSucceeded{Email: "a@b.com", Role: rbac.RoleAdmin})
		_, _ = w.Write([]byte("hello"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/dashboard", nil))

	resp := rec.Result()
	defer resp.Body.Close()
	require.Len(t, resp.Cookies(), 1)

	replay := httptest.NewRequest(http.MethodGet, "/app/dashboard", nil)
	replay.AddCookie(resp.Cookies()[0])
	loaded, err := manager.Load(replay)
	require.NoError(t, err)
	require.True(t, loaded.State().Authenticated)
	require.Equal(t, rbac.RoleAdmin, loaded.State().Role)
}

func TestRequireAuthRedirectsAnonymousRequests(t *testing.T) {
	t.Parallel()

	handler := Session(newManager(t))(RequireAuth("/app/login")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/dashboard", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/app/login", rec.Header().Get("Location"))

	htmx := HTMX()(handler)
	req := httptest.NewRequest(http.MethodGet, "/app/dashboard", nil)
	req.Header.Set("HX-Request", "true")
	rec = httptest.NewRecorder()
	htmx.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "/app/login", rec.Header().Get("HX-Redirect"))
}

func TestRequireAuthAllowsSignedInSession(t *testing.T) {
	t.Parallel()

	handler := RequireAuth("/app/login")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/app/dashboard", nil)
	req = req.WithContext(ContextWithSession(req.Context(), signedIn(t, rbac.RoleCustomer)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTeapot, rec.Code)
}

func TestCSRFDoubleSubmit(t *testing.T) {
	t.Parallel()

	handler := CSRF(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(CSRFTokenFromContext(r.Context())))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/login", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	token := cookies[0].Value
	require.Equal(t, token, rec.Body.String())

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/app/logout", nil)
		req.AddCookie(cookies[0])
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/app/logout", nil)
		req.AddCookie(cookies[0])
		req.Header.Set("X-CSRF-Token", token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("form field", func(t *testing.T) {
		form := url.Values{CSRFFormField: {token}}
		req := httptest.NewRequest(http.MethodPost, "/app/logout", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookies[0])
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("mismatch", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/app/logout", nil)
		req.AddCookie(cookies[0])
		req.Header.Set("X-CSRF-Token", token+"x")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRequireHTMX(t *testing.T) {
	t.Parallel()

	handler := HTMX()(RequireHTMX()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fragment", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/fragment", nil)
	req.Header.Set("HX-Request", "true")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "HX-Request", rec.Header().Get("Vary"))
}

func TestRequireCapability(t *testing.T) {
	t.Parallel()

	handler := RequireCapability(rbac.CapMastersWrite)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	cases := map[rbac.Role]int{
		rbac.RoleAdmin:         http.StatusOK,
		rbac.RoleInvoicingUser: http.StatusForbidden,
		rbac.RoleCustomer:      http.StatusForbidden,
	}
	for role, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(ContextWithSession(req.Context(), signedIn(t, role)))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, want, rec.Code, "role %s", role)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestNormaliseBase(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":         "/",
		"/":        "/",
		"app":      "/app",
		"/app/":    "/app",
		" /app// ": "/app",
	}
	for in, want := range cases {
		require.Equal(t, want, NormaliseBase(in), "input %q", in)
	}
}

func TestNoStore(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	NoStore()(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestRequestInfoCarriesBasePath(t *testing.T) {
	t.Parallel()

	var got string
	handler := RequestInfoMiddleware("app/")(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = BasePathFromContext(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/app/dashboard", nil))
	require.Equal(t, "/app", got)

	require.Equal(t, "/", BasePathFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
