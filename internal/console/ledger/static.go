package ledger

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StaticService serves canned ledger data for development and tests.
type StaticService struct {
	Invoices []Invoice
	Cards    []Card
}

func day(value string) time.Time {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		panic(err)
	}
	return t
}

// NewStaticService returns a StaticService populated with the sample invoices.
func NewStaticService() *StaticService {
	return &StaticService{
		Invoices: []Invoice{
			{Number: "INV-1001", Issued: day("2025-01-12"), Due: day("2025-01-27"), Amount: decimal.NewFromInt(1200), Status: StatusPaid, Contact: "Azure Interiors"},
			{Number: "INV-1002", Issued: day("2025-01-18"), Due: day("2025-02-02"), Amount: decimal.NewFromInt(540), Status: StatusUnpaid, Contact: "Nimbus Traders"},
			{Number: "INV-1003", Issued: day("2025-02-05"), Due: day("2025-02-20"), Amount: decimal.NewFromInt(320), Status: StatusOverdue, Contact: "Customer Co."},
		},
		Cards: []Card{
			{ID: "receivables", Label: "Receivables", Period: "This month", Amount: decimal.NewFromInt(18240), Previous: decimal.NewFromInt(16889)},
			{ID: "payables", Label: "Payables", Period: "This month", Amount: decimal.NewFromInt(12910), Previous: decimal.NewFromInt(13309)},
		},
	}
}

// ListInvoices returns a copy of the configured invoices ordered by issue date.
func (s *StaticService) ListInvoices(ctx context.Context) ([]Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := append([]Invoice(nil), s.Invoices...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Issued.Before(out[j].Issued)
	})
	return out, nil
}

// Invoice looks up an invoice by number, ignoring case.
func (s *StaticService) Invoice(ctx context.Context, number string) (Invoice, error) {
	if err := ctx.Err(); err != nil {
		return Invoice{}, err
	}
	number = strings.TrimSpace(number)
	for _, inv := range s.Invoices {
		if strings.EqualFold(inv.Number, number) {
			return inv, nil
		}
	}
	return Invoice{}, ErrInvoiceNotFound
}

// Summary returns the configured cards plus counts derived from the invoices.
func (s *StaticService) Summary(ctx context.Context) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	summary := Summary{
		Cards:        append([]Card(nil), s.Cards...),
		StatusCounts: make(map[Status]int, len(Statuses)),
		Outstanding:  decimal.Zero,
	}
	for _, inv := range s.Invoices {
		summary.StatusCounts[inv.Status]++
		if inv.Status.Payable() {
			summary.Outstanding = summary.Outstanding.Add(inv.Amount)
		}
	}
	return summary, nil
}
