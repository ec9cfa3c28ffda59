package navigation

import "strings"

// Crumb is a breadcrumb entry as consumed by templates.
type Crumb struct {
	Label   string
	Current bool
}

var segmentLabels = map[string]string{
	"dashboard":          "Dashboard",
	"masters":            "Masters",
	"contacts":           "Contacts",
	"products":           "Products",
	"taxes":              "Taxes",
	"chart-of-accounts":  "Chart of Accounts",
	"transactions":       "Transactions",
	"sales-order":        "Sales Order",
	"purchase-order":     "Purchase Order",
	"invoices":           "Invoices",
	"vendor-bill":        "Vendor Bill",
	"payments":           "Payments",
	"reports":            "Reports",
	"balance-sheet":      "Balance Sheet",
	"profit-loss":        "Profit & Loss",
	"stock":              "Stock",
	"customer-dashboard": "Customer Dashboard",
}

// Breadcrumbs maps each "/"-separated segment of activeKey to its display label.
// Segments without a label pass through unchanged.
func Breadcrumbs(activeKey string) []string {
	parts := strings.Split(activeKey, "/")
	labels := make([]string, len(parts))
	for i, part := range parts {
		if label, ok := segmentLabels[part]; ok {
			labels[i] = label
			continue
		}
		labels[i] = part
	}
	return labels
}

// Trail returns the breadcrumb labels with the final entry marked as the current page.
func Trail(activeKey string) []Crumb {
	labels := Breadcrumbs(activeKey)
	crumbs := make([]Crumb, len(labels))
	for i, label := range labels {
		crumbs[i] = Crumb{Label: label, Current: i == len(labels)-1}
	}
	return crumbs
}
