// Package ledger provides the invoice and summary data shown in the console.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvoiceNotFound indicates the requested invoice number does not exist.
var ErrInvoiceNotFound = errors.New("ledger: invoice not found")

// Service exposes read access to invoices and dashboard figures.
type Service interface {
	// ListInvoices returns invoices ordered by issue date.
	ListInvoices(ctx context.Context) ([]Invoice, error)
	// Invoice returns a single invoice by number.
	Invoice(ctx context.Context, number string) (Invoice, error)
	// Summary returns the dashboard summary cards.
	Summary(ctx context.Context) (Summary, error)
}

// Status is the payment state of an invoice.
type Status string

const (
	StatusPaid    Status = "Paid"
	StatusUnpaid  Status = "Unpaid"
	StatusOverdue Status = "Overdue"
)

// Statuses lists every invoice status in display order.
var Statuses = []Status{StatusPaid, StatusUnpaid, StatusOverdue}

// Payable reports whether the invoice still has money owing.
func (s Status) Payable() bool {
	return s == StatusUnpaid || s == StatusOverdue
}

// Invoice is a customer invoice row.
type Invoice struct {
	Number  string
	Issued  time.Time
	Due     time.Time
	Amount  decimal.Decimal
	Status  Status
	Contact string
}

// Trend describes the direction of a summary delta.
type Trend string

const (
	TrendFlat Trend = "flat"
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

// Card is a dashboard summary figure compared with the previous period.
type Card struct {
	ID       string
	Label    string
	Period   string
	Amount   decimal.Decimal
	Previous decimal.Decimal
}

// DeltaPercent is the change from Previous as a whole percentage, rounded half away from zero.
func (c Card) DeltaPercent() decimal.Decimal {
	if c.Previous.IsZero() {
		return decimal.Zero
	}
	return c.Amount.Sub(c.Previous).Div(c.Previous).Mul(decimal.NewFromInt(100)).Round(0)
}

// Trend classifies DeltaPercent.
func (c Card) Trend() Trend {
	switch c.DeltaPercent().Sign() {
	case 1:
		return TrendUp
	case -1:
		return TrendDown
	default:
		return TrendFlat
	}
}

// Summary aggregates the dashboard cards and invoice status counts.
type Summary struct {
	Cards        []Card
	StatusCounts map[Status]int
	Outstanding  decimal.Decimal
}
