// Package ui serves the authenticated console pages and htmx fragments.
package ui

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	custommw "shivaccounts.cloud/console/internal/console/httpserver/middleware"
	"shivaccounts.cloud/console/internal/console/ledger"
	"shivaccounts.cloud/console/internal/console/navigation"
	"shivaccounts.cloud/console/internal/console/observability"
	"shivaccounts.cloud/console/internal/console/rbac"
	"shivaccounts.cloud/console/internal/console/reports"
	"shivaccounts.cloud/console/internal/console/session"
	"shivaccounts.cloud/console/internal/console/templates"
	"shivaccounts.cloud/console/internal/console/views"
)

// modalTarget is the element id the shell reserves for dialogs.
const modalTarget = "modal"

// Dependencies collects the services required by the UI handlers.
type Dependencies struct {
	Ledger ledger.Service
}

// Handlers exposes HTTP handlers for the console pages. Links are built from the
// base path stored by RequestInfoMiddleware.
type Handlers struct {
	ledger ledger.Service
}

// NewHandlers wires the UI handler set.
func NewHandlers(deps Dependencies) *Handlers {
	svc := deps.Ledger
	if svc == nil {
		svc = ledger.NewStaticService()
	}
	return &Handlers{ledger: svc}
}

// Home redirects the bare base path to the session's active page.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	state, _ := custommw.StateFromContext(r.Context())
	key := state.ActiveKey
	if key == "" {
		key = rbac.HomeKey(state.Role)
	}
	http.Redirect(w, r, templates.PageHref(custommw.BasePathFromContext(r.Context()), key), http.StatusFound)
}

// Page records the navigation in the session and renders the console shell for the requested key.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	key := strings.Trim(chi.URLParam(r, "*"), "/")
	if key == "" {
		h.Home(w, r)
		return
	}

	sess, ok := custommw.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	state := sess.Dispatch(session.Navigated{Key: key})

	data, err := h.shellData(r.Context(), state, custommw.CSRFTokenFromContext(r.Context()))
	if err != nil {
		observability.FromContext(r.Context()).Error("build console page failed",
			zap.String("active_key", key),
			zap.Error(err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var opts []func(*templ.ComponentHandler)
	if data.View.Descriptor.Kind == views.KindNotFound {
		opts = append(opts, templ.WithStatus(http.StatusNotFound))
	}
	templ.Handler(templates.ShellPage(data), opts...).ServeHTTP(w, r)
}

// SwitchRole changes the previewed role and returns to the active page.
func (h *Handlers) SwitchRole(w http.ResponseWriter, r *http.Request) {
	sess, ok := custommw.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	role, valid := rbac.ParseRole(r.PostFormValue("role"))
	if !valid {
		observability.FromContext(r.Context()).Warn("role switch rejected",
			zap.String("reason", "invalid_role"),
			zap.String("role", r.PostFormValue("role")),
		)
		http.Error(w, "unknown role", http.StatusBadRequest)
		return
	}

	state := sess.Dispatch(session.RoleSwitched{Role: role})
	observability.FromContext(r.Context()).Info("role switched", zap.String("role", string(state.Role)))

	target := templates.PageHref(custommw.BasePathFromContext(r.Context()), state.ActiveKey)
	if custommw.IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// PayInvoiceModal renders the pay dialog fragment for an invoice.
func (h *Handlers) PayInvoiceModal(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	inv, err := h.ledger.Invoice(r.Context(), number)
	if err != nil {
		if errors.Is(err, ledger.ErrInvoiceNotFound) {
			http.NotFound(w, r)
			return
		}
		observability.FromContext(r.Context()).Error("load invoice failed", zap.String("invoice", number), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if custommw.HTMXInfoFromContext(r.Context()).Target != modalTarget {
		w.Header().Set("HX-Retarget", "#"+modalTarget)
	}
	templ.Handler(templates.PayModal(templates.NewPayModalData(inv))).ServeHTTP(w, r)
}

func (h *Handlers) shellData(ctx context.Context, state session.State, csrfToken string) (templates.ShellData, error) {
	basePath := custommw.BasePathFromContext(ctx)
	descriptor := views.Select(state.ActiveKey, state.Role)
	title := views.Title(descriptor)

	view, err := h.viewData(ctx, basePath, descriptor, state.Role)
	if err != nil {
		return templates.ShellData{}, err
	}
	view.Title = title

	return templates.ShellData{
		Title:       title,
		BasePath:    basePath,
		CSRFToken:   csrfToken,
		Email:       state.Email,
		Role:        state.Role,
		RoleOptions: templates.RoleOptions(state.Role),
		Sections:    templates.NavSections(basePath, state.ActiveKey, navigation.VisibleSections(state.Role, navigation.Sections())),
		Crumbs:      navigation.Trail(state.ActiveKey),
		View:        view,
	}, nil
}

func (h *Handlers) viewData(ctx context.Context, basePath string, descriptor views.Descriptor, role rbac.Role) (templates.ViewData, error) {
	view := templates.ViewData{
		Descriptor: descriptor,
		Subject:    descriptor.Subject,
		CanWrite:   rbac.HasCapability(role, rbac.CapMastersWrite),
	}

	switch descriptor.Kind {
	case views.KindDashboard:
		summary, err := h.ledger.Summary(ctx)
		if err != nil {
			return view, err
		}
		view.Cards = templates.SummaryCards(summary)
		view.StatusBadges = templates.StatusBadges(summary)
		view.Outstanding = templates.Currency(summary.Outstanding)
	case views.KindInvoiceTable, views.KindCustomerDashboard:
		invoices, err := h.ledger.ListInvoices(ctx)
		if err != nil {
			return view, err
		}
		view.Invoices = templates.InvoiceRows(basePath, invoices)
	case views.KindTransactionForm:
		view.PartyLabel = templates.PartyLabel(descriptor.Subject)
	case views.KindReportView:
		report, err := reports.Lookup(descriptor.Subject)
		if err != nil {
			return view, err
		}
		view.Report = report
	}
	return view, nil
}
