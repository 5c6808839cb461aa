package pos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClosingReportAggregator fetches daily reconciliation figures from the
// ledger and cross-checks them before display. The ledger computes the
// aggregates; this side only verifies they are internally consistent.
type ClosingReportAggregator struct {
	ledger Ledger
}

// NewClosingReportAggregator creates a report aggregator
func NewClosingReportAggregator(ledger Ledger) *ClosingReportAggregator {
	return &ClosingReportAggregator{ledger: ledger}
}

// Generate fetches the closing report for a date, optionally narrowed
// to one store. It requires an open session, re-checked immediately
// before the ledger call. Breakdown totals that disagree with the
// headline figures are reported as warnings, never as failures.
func (a *ClosingReportAggregator) Generate(ctx context.Context, sessions *SessionManager, date time.Time, storeID *uuid.UUID) (*ClosingReport, error) {
	if err := sessions.RequireOpen(); err != nil {
		return nil, err
	}

	report, err := a.ledger.ClosingReport(ctx, ReportQuery{
		Date:    date,
		StoreID: storeID,
	})
	if err != nil {
		return nil, err
	}

	report.Warnings = append(report.Warnings, verifyBreakdown(report)...)
	return report, nil
}

// verifyBreakdown checks that the payment breakdown sums back to the
// headline totals
func verifyBreakdown(report *ClosingReport) []string {
	var warnings []string

	sum := decimal.Zero
	transactions := 0
	for _, p := range report.PaymentBreakdown {
		sum = sum.Add(p.Total)
		transactions += p.Transactions
	}

	if !sum.Equal(report.TotalSales) {
		warnings = append(warnings, fmt.Sprintf(
			"payment breakdown sums to %s but total sales is %s",
			sum.StringFixed(2), report.TotalSales.StringFixed(2)))
	}
	if transactions != report.Transactions {
		warnings = append(warnings, fmt.Sprintf(
			"payment breakdown counts %d transactions but the report has %d",
			transactions, report.Transactions))
	}
	return warnings
}
