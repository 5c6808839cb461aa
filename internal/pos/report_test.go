package pos_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendanova/pos-api/internal/pos"
)

func consistentReport(date time.Time) *pos.ClosingReport {
	return &pos.ClosingReport{
		Date:             date.Format("2006-01-02"),
		StoreName:        "All Stores",
		TotalSales:       dec("21000"),
		Transactions:     2,
		TaxRate:          dec("0.19"),
		TaxesCollected:   dec("3990"),
		DiscountsApplied: dec("4000"),
		PaymentBreakdown: []pos.PaymentBreakdown{
			{Method: "cash", Total: dec("16000"), Transactions: 1},
			{Method: "card", Total: dec("5000"), Transactions: 1},
		},
		ProductsSold: []pos.ProductSold{
			{ProductID: uuid.New(), ProductName: "Coffee", Quantity: 2, TotalAmount: dec("16000")},
			{ProductID: uuid.New(), ProductName: "Cake", Quantity: 1, TotalAmount: dec("5000")},
		},
	}
}

func TestReportGenerate(t *testing.T) {
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	var seen pos.ReportQuery
	ledger := &stubLedger{
		closingReportFn: func(ctx context.Context, query pos.ReportQuery) (*pos.ClosingReport, error) {
			seen = query
			return consistentReport(query.Date), nil
		},
	}
	sessions := openSession(t, ledger, uuid.New())
	aggregator := pos.NewClosingReportAggregator(ledger)

	report, err := aggregator.Generate(context.Background(), sessions, date, nil)

	require.NoError(t, err)
	assert.Equal(t, date, seen.Date)
	assert.Nil(t, seen.StoreID)
	assert.Equal(t, "2026-08-31", report.Date)
	assert.True(t, report.TotalSales.Equal(dec("21000")))
	assert.Equal(t, 2, report.Transactions)
	assert.Empty(t, report.Warnings, "a consistent report carries no warnings")
}

func TestReportGenerateScopedToStore(t *testing.T) {
	storeID := uuid.New()
	ledger := &stubLedger{
		closingReportFn: func(ctx context.Context, query pos.ReportQuery) (*pos.ClosingReport, error) {
			report := consistentReport(query.Date)
			report.StoreID = query.StoreID
			report.StoreName = "Main Store"
			return report, nil
		},
	}
	sessions := openSession(t, ledger, uuid.New())
	aggregator := pos.NewClosingReportAggregator(ledger)

	report, err := aggregator.Generate(context.Background(), sessions, time.Now(), &storeID)

	require.NoError(t, err)
	require.NotNil(t, report.StoreID)
	assert.Equal(t, storeID, *report.StoreID)
	assert.Equal(t, "Main Store", report.StoreName)
}

func TestReportRequiresOpenSession(t *testing.T) {
	ledger := &stubLedger{
		closingReportFn: func(ctx context.Context, query pos.ReportQuery) (*pos.ClosingReport, error) {
			t.Fatal("the ledger must not be called without an open session")
			return nil, nil
		},
	}
	sessions := pos.NewSessionManager(ledger, uuid.New())
	aggregator := pos.NewClosingReportAggregator(ledger)

	_, err := aggregator.Generate(context.Background(), sessions, time.Now(), nil)

	assert.ErrorIs(t, err, pos.ErrSessionClosed)
}

func TestReportWarnsOnBreakdownMismatch(t *testing.T) {
	ledger := &stubLedger{
		closingReportFn: func(ctx context.Context, query pos.ReportQuery) (*pos.ClosingReport, error) {
			report := consistentReport(query.Date)
			report.TotalSales = dec("25000")
			report.Transactions = 3
			return report, nil
		},
	}
	sessions := openSession(t, ledger, uuid.New())
	aggregator := pos.NewClosingReportAggregator(ledger)

	report, err := aggregator.Generate(context.Background(), sessions, time.Now(), nil)

	require.NoError(t, err, "an inconsistent breakdown warns, it does not fail")
	require.Len(t, report.Warnings, 2)
	assert.Contains(t, report.Warnings[0], "21000.00")
	assert.Contains(t, report.Warnings[0], "25000.00")
	assert.Contains(t, report.Warnings[1], "2 transactions")
}

func TestReportLedgerFailure(t *testing.T) {
	boom := errors.New("ledger unavailable")
	ledger := &stubLedger{
		closingReportFn: func(ctx context.Context, query pos.ReportQuery) (*pos.ClosingReport, error) {
			return nil, boom
		},
	}
	sessions := openSession(t, ledger, uuid.New())
	aggregator := pos.NewClosingReportAggregator(ledger)

	_, err := aggregator.Generate(context.Background(), sessions, time.Now(), nil)

	assert.ErrorIs(t, err, boom)
}

func TestReportEmptyDay(t *testing.T) {
	ledger := &stubLedger{
		closingReportFn: func(ctx context.Context, query pos.ReportQuery) (*pos.ClosingReport, error) {
			return &pos.ClosingReport{
				Date:             query.Date.Format("2006-01-02"),
				TotalSales:       dec("0"),
				Transactions:     0,
				TaxRate:          dec("0.19"),
				TaxesCollected:   dec("0"),
				DiscountsApplied: dec("0"),
			}, nil
		},
	}
	sessions := openSession(t, ledger, uuid.New())
	aggregator := pos.NewClosingReportAggregator(ledger)

	report, err := aggregator.Generate(context.Background(), sessions, time.Now(), nil)

	require.NoError(t, err)
	assert.True(t, report.TotalSales.IsZero())
	assert.Empty(t, report.PaymentBreakdown)
	assert.Empty(t, report.Warnings)
}
