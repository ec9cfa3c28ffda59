package templates

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"shivaccounts.cloud/console/internal/console/ledger"
)

var printer = message.NewPrinter(language.English)

// Currency formats a dollar amount with thousands grouping and two decimals.
func Currency(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.Sign() < 0 {
		sign = "-"
		rounded = rounded.Neg()
	}
	whole := rounded.Truncate(0)
	cents := rounded.Sub(whole).Shift(2).IntPart()
	return fmt.Sprintf("%s$%s.%02d", sign, printer.Sprintf("%d", whole.IntPart()), cents)
}

// Percent renders a signed whole percentage ("+8%", "-3%").
func Percent(value decimal.Decimal) string {
	if value.Sign() > 0 {
		return "+" + value.String() + "%"
	}
	return value.String() + "%"
}

// Date formats a calendar date as YYYY-MM-DD.
func Date(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(time.DateOnly)
}

// BadgeClass maps an invoice status to badge utility classes.
func BadgeClass(status ledger.Status) string {
	base := "inline-flex items-center rounded-full border px-2.5 py-0.5 text-xs "
	switch status {
	case ledger.StatusPaid:
		return base + "bg-green-50 text-green-700 border-green-200"
	case ledger.StatusUnpaid:
		return base + "bg-amber-50 text-amber-700 border-amber-200"
	case ledger.StatusOverdue:
		return base + "bg-rose-50 text-rose-700 border-rose-200"
	default:
		return base + "bg-gray-50 text-gray-700 border-gray-200"
	}
}

// NavClass returns sidebar link classes.
func NavClass(active bool) string {
	if active {
		return "nav-link flex items-center gap-2 rounded-md bg-indigo-50 px-3 py-2 text-sm font-medium text-indigo-700"
	}
	return "nav-link flex items-center gap-2 rounded-md px-3 py-2 text-sm text-gray-700 hover:bg-gray-100"
}

// PartyLabel names the counterparty field on a transaction form.
func PartyLabel(subject string) string {
	switch subject {
	case "purchase-order", "vendor-bill":
		return "Vendor"
	default:
		return "Customer"
	}
}
