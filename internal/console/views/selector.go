// Package views decides which page template renders for an active key.
// The decision is pure; rendering lives in the templates package.
package views

import (
	"strings"

	"shivaccounts.cloud/console/internal/console/rbac"
	"shivaccounts.cloud/console/internal/console/reports"
)

// Kind identifies one of the fixed page variants.
type Kind int

const (
	KindNotFound Kind = iota
	KindDashboard
	KindMasterList
	KindInvoiceTable
	KindTransactionForm
	KindReportView
	KindCustomerDashboard
)

var kindNames = [...]string{
	KindNotFound:          "NotFound",
	KindDashboard:         "Dashboard",
	KindMasterList:        "MasterList",
	KindInvoiceTable:      "InvoiceTable",
	KindTransactionForm:   "TransactionForm",
	KindReportView:        "ReportView",
	KindCustomerDashboard: "CustomerDashboard",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Descriptor is the resolved view for an active key. Subject carries the trailing key
// segment for MasterList, TransactionForm and ReportView.
type Descriptor struct {
	Kind    Kind
	Subject string
}

func (d Descriptor) String() string {
	if d.Subject == "" {
		return d.Kind.String()
	}
	return d.Kind.String() + "(" + d.Subject + ")"
}

var dispatch = buildDispatch()

func buildDispatch() map[string]Descriptor {
	table := map[string]Descriptor{
		"dashboard":             {Kind: KindDashboard},
		"transactions/invoices": {Kind: KindInvoiceTable},
		"customer-dashboard":    {Kind: KindCustomerDashboard},
	}
	parameterised := []struct {
		prefix   string
		kind     Kind
		subjects []string
	}{
		{"masters", KindMasterList, []string{"products", "contacts", "taxes", "chart-of-accounts"}},
		{"transactions", KindTransactionForm, []string{"sales-order", "purchase-order", "vendor-bill", "payments"}},
		{"reports", KindReportView, reports.Kinds()},
	}
	for _, group := range parameterised {
		for _, subject := range group.subjects {
			table[group.prefix+"/"+subject] = Descriptor{Kind: group.kind, Subject: subject}
		}
	}
	return table
}

// Select resolves the view for activeKey. Keys are matched exactly; anything unknown is NotFound.
// The role is accepted for symmetry with rendering but never rejects a key.
func Select(activeKey string, _ rbac.Role) Descriptor {
	if d, ok := dispatch[activeKey]; ok {
		return d
	}
	return Descriptor{Kind: KindNotFound}
}

// Title returns a display heading for the descriptor.
func Title(d Descriptor) string {
	switch d.Kind {
	case KindDashboard:
		return "Dashboard"
	case KindMasterList:
		return "Master List"
	case KindInvoiceTable:
		return "Invoices"
	case KindTransactionForm:
		return humanise(d.Subject)
	case KindReportView:
		if d.Subject == "profit-loss" {
			return "Profit & Loss"
		}
		return humanise(d.Subject)
	case KindCustomerDashboard:
		return "My Invoices"
	default:
		return "Page not found"
	}
}

func humanise(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
