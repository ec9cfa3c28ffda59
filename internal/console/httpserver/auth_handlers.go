package httpserver

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"shivaccounts.cloud/console/internal/console/auth"
	custommw "shivaccounts.cloud/console/internal/console/httpserver/middleware"
	"shivaccounts.cloud/console/internal/console/observability"
	"shivaccounts.cloud/console/internal/console/rbac"
	"shivaccounts.cloud/console/internal/console/session"
	"shivaccounts.cloud/console/internal/console/templates"
)

const noticeLoggedOut = "You have been signed out."

type authHandlers struct {
	service   auth.Service
	basePath  string
	loginPath string
}

func newAuthHandlers(service auth.Service, basePath, loginPath string) *authHandlers {
	if service == nil {
		panic("auth: service is required")
	}
	if strings.TrimSpace(basePath) == "" {
		basePath = "/"
	}
	if strings.TrimSpace(loginPath) == "" {
		loginPath = resolveLoginPath(basePath)
	}
	return &authHandlers{
		service:   service,
		basePath:  basePath,
		loginPath: loginPath,
	}
}

func (h *authHandlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	if state, ok := custommw.StateFromContext(r.Context()); ok && state.Authenticated {
		http.Redirect(w, r, h.landingTarget(state), http.StatusFound)
		return
	}

	q := r.URL.Query()
	mode := auth.ParseMode(q.Get("mode"))
	data := h.buildLoginPageData(r, mode, strings.TrimSpace(q.Get("email")), nil, h.messageForQuery(q))
	h.renderLoginPage(w, r, data, http.StatusOK)
}

func (h *authHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	logger := observability.FromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		data := h.buildLoginPageData(r, auth.ModeLogin, "", auth.FieldErrors{auth.FieldEmail: "The form could not be read. Please try again."}, "")
		h.renderLoginPage(w, r, data, http.StatusBadRequest)
		return
	}

	sub := auth.Submission{
		Mode:     auth.ParseMode(r.PostFormValue("mode")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm"),
	}

	result, errs := h.service.Authenticate(r.Context(), sub)
	if !errs.OK() {
		fields := make([]string, 0, len(errs))
		for field := range errs {
			fields = append(fields, field)
		}
		logger.Info("auth submission rejected",
			zap.String("mode", string(sub.Mode)),
			zap.Strings("fields", fields),
		)
		data := h.buildLoginPageData(r, sub.Mode, sub.Email, errs, "")
		h.renderLoginPage(w, r, data, http.StatusBadRequest)
		return
	}

	if !result.Authenticated {
		data := h.buildLoginPageData(r, sub.Mode, sub.Email, nil, result.Notice)
		h.renderLoginPage(w, r, data, http.StatusOK)
		return
	}

	sess, ok := custommw.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	sess.SetUID(result.Identity.UID)
	state := sess.Dispatch(session.LoginSucceeded{
		Email: result.Identity.Email,
		Role:  result.Identity.Role,
	})
	logger.Info("login succeeded",
		zap.String("mode", string(sub.Mode)),
		zap.String("uid", result.Identity.UID),
		zap.String("role", string(state.Role)),
	)

	target := h.landingTarget(state)
	if custommw.IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *authHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := custommw.SessionFromContext(r.Context()); ok {
		sess.Dispatch(session.LoggedOut{})
		sess.Destroy()
	}

	redirect := h.loginURLWithParams(map[string]string{
		"status": "logged_out",
	})

	if custommw.IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Redirect", redirect)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

func (h *authHandlers) buildLoginPageData(r *http.Request, mode auth.Mode, email string, errs auth.FieldErrors, notice string) templates.LoginPageData {
	if errs == nil {
		errs = auth.FieldErrors{}
	}
	return templates.LoginPageData{
		Mode:      mode,
		Modes:     templates.ModeLinks(h.loginPath, mode),
		Email:     email,
		Errors:    errs,
		Notice:    notice,
		Action:    h.loginPath,
		CSRFToken: custommw.CSRFTokenFromContext(r.Context()),
	}
}

func (h *authHandlers) renderLoginPage(w http.ResponseWriter, r *http.Request, data templates.LoginPageData, status int) {
	templ.Handler(templates.LoginPage(data), templ.WithStatus(status)).ServeHTTP(w, r)
}

func (h *authHandlers) messageForQuery(q url.Values) string {
	if q.Get("status") == "logged_out" {
		return noticeLoggedOut
	}
	return ""
}

func (h *authHandlers) landingTarget(state session.State) string {
	key := state.ActiveKey
	if key == "" {
		key = rbac.HomeKey(state.Role)
	}
	return templates.PageHref(h.basePath, key)
}

func (h *authHandlers) loginURLWithParams(params map[string]string) string {
	u, err := url.Parse(h.loginPath)
	if err != nil {
		return h.loginPath
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
