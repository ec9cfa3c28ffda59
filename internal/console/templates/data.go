package templates

import (
	"net/url"
	"strings"

	"shivaccounts.cloud/console/internal/console/auth"
	"shivaccounts.cloud/console/internal/console/ledger"
	"shivaccounts.cloud/console/internal/console/navigation"
	"shivaccounts.cloud/console/internal/console/rbac"
	"shivaccounts.cloud/console/internal/console/reports"
	"shivaccounts.cloud/console/internal/console/views"
)

// LoginPageData feeds the login/signup/forgot screen.
type LoginPageData struct {
	Mode      auth.Mode
	Modes     []ModeLink
	Email     string
	Errors    auth.FieldErrors
	Notice    string
	Action    string
	CSRFToken string
}

// ModeLink is one of the auth mode switches above the form.
type ModeLink struct {
	Label  string
	Href   string
	Active bool
}

// ShellData feeds the authenticated console page.
type ShellData struct {
	Title       string
	BasePath    string
	CSRFToken   string
	Email       string
	Role        rbac.Role
	RoleOptions []RoleOption
	Sections    []NavSection
	Crumbs      []navigation.Crumb
	View        ViewData
}

// RoleOption is an entry in the navbar role selector.
type RoleOption struct {
	Value    string
	Label    string
	Selected bool
}

// NavSection is a sidebar group ready for rendering.
type NavSection struct {
	Title string
	Items []NavItem
}

// NavItem is a sidebar link.
type NavItem struct {
	Label  string
	Icon   string
	Href   string
	Active bool
}

// ViewData carries everything the selected page body may need.
type ViewData struct {
	Descriptor   views.Descriptor
	Title        string
	Subject      string
	CanWrite     bool
	Cards        []CardView
	StatusBadges []BadgeView
	Outstanding  string
	Invoices     []InvoiceRow
	Report       reports.Report
	PartyLabel   string
}

// CardView is a dashboard summary card.
type CardView struct {
	ID     string
	Label  string
	Period string
	Value  string
	Delta  string
	Trend  ledger.Trend
}

// BadgeView is a status pill.
type BadgeView struct {
	Label string
	Class string
	Count int
}

// InvoiceRow is a formatted invoice table row.
type InvoiceRow struct {
	Number     string
	Issued     string
	Due        string
	Amount     string
	Status     string
	Contact    string
	BadgeClass string
	PayURL     string
}

// PayModalData feeds the pay-invoice fragment.
type PayModalData struct {
	Number  string
	Amount  string
	Status  string
	Payable bool
}

// ModeLinks builds the auth mode switcher for loginPath.
func ModeLinks(loginPath string, current auth.Mode) []ModeLink {
	modes := []auth.Mode{auth.ModeLogin, auth.ModeSignup, auth.ModeForgot}
	labels := map[auth.Mode]string{
		auth.ModeLogin:  "Login",
		auth.ModeSignup: "Sign up",
		auth.ModeForgot: "Forgot password",
	}
	out := make([]ModeLink, 0, len(modes))
	for _, mode := range modes {
		q := url.Values{"mode": []string{string(mode)}}
		out = append(out, ModeLink{
			Label:  labels[mode],
			Href:   loginPath + "?" + q.Encode(),
			Active: mode == current,
		})
	}
	return out
}

// RoleOptions lists every role with current marked as selected.
func RoleOptions(current rbac.Role) []RoleOption {
	out := make([]RoleOption, 0, len(rbac.AllRoles))
	for _, role := range rbac.AllRoles {
		out = append(out, RoleOption{
			Value:    string(role),
			Label:    role.DisplayName(),
			Selected: role == current,
		})
	}
	return out
}

// PageHref returns the console URL for an active key.
func PageHref(basePath, key string) string {
	return strings.TrimRight(basePath, "/") + "/" + key
}

// NavSections converts visible navigation sections into sidebar links.
func NavSections(basePath, activeKey string, sections []navigation.Section) []NavSection {
	out := make([]NavSection, 0, len(sections))
	for _, section := range sections {
		items := make([]NavItem, 0, len(section.Items))
		for _, entry := range section.Items {
			items = append(items, NavItem{
				Label:  entry.Label,
				Icon:   entry.Icon,
				Href:   PageHref(basePath, entry.Key),
				Active: entry.Key == activeKey,
			})
		}
		out = append(out, NavSection{Title: section.Title, Items: items})
	}
	return out
}

// SummaryCards formats the dashboard cards.
func SummaryCards(summary ledger.Summary) []CardView {
	out := make([]CardView, 0, len(summary.Cards))
	for _, card := range summary.Cards {
		out = append(out, CardView{
			ID:     card.ID,
			Label:  card.Label,
			Period: card.Period,
			Value:  Currency(card.Amount),
			Delta:  Percent(card.DeltaPercent()) + " vs last month",
			Trend:  card.Trend(),
		})
	}
	return out
}

// StatusBadges returns one badge per invoice status with its count.
func StatusBadges(summary ledger.Summary) []BadgeView {
	out := make([]BadgeView, 0, len(ledger.Statuses))
	for _, status := range ledger.Statuses {
		out = append(out, BadgeView{
			Label: string(status),
			Class: BadgeClass(status),
			Count: summary.StatusCounts[status],
		})
	}
	return out
}

// InvoiceRows formats invoices for the invoice tables.
func InvoiceRows(basePath string, invoices []ledger.Invoice) []InvoiceRow {
	out := make([]InvoiceRow, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, InvoiceRow{
			Number:     inv.Number,
			Issued:     Date(inv.Issued),
			Due:        Date(inv.Due),
			Amount:     Currency(inv.Amount),
			Status:     string(inv.Status),
			Contact:    inv.Contact,
			BadgeClass: BadgeClass(inv.Status),
			PayURL:     PageHref(basePath, "fragments/invoices/"+url.PathEscape(inv.Number)+"/pay"),
		})
	}
	return out
}

// NewPayModalData builds the pay fragment data for an invoice.
func NewPayModalData(inv ledger.Invoice) PayModalData {
	return PayModalData{
		Number:  inv.Number,
		Amount:  Currency(inv.Amount),
		Status:  string(inv.Status),
		Payable: inv.Status.Payable(),
	}
}
