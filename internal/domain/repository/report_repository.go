package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesTotalsResult holds the headline figures for a report window
type SalesTotalsResult struct {
	TotalSales   decimal.Decimal
	Transactions int
	Discounts    decimal.Decimal
}

// PaymentMethodResult aggregates one payment method over a report window
type PaymentMethodResult struct {
	Method       string
	Total        decimal.Decimal
	Transactions int
}

// ProductSalesResult aggregates one product over a report window
type ProductSalesResult struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	TotalAmount decimal.Decimal
}

// ReportRepository defines interface for closing report aggregation
// queries. Void invoices are excluded from every aggregate.
type ReportRepository interface {
	// GetSalesTotals returns total sales, transaction count and the sum
	// of applied discounts for a day, optionally scoped to a store
	GetSalesTotals(ctx context.Context, day time.Time, storeID *uuid.UUID) (*SalesTotalsResult, error)

	// GetPaymentBreakdown returns per-method totals for a day
	GetPaymentBreakdown(ctx context.Context, day time.Time, storeID *uuid.UUID) ([]PaymentMethodResult, error)

	// GetProductsSold returns per-product quantities and totals for a day
	GetProductsSold(ctx context.Context, day time.Time, storeID *uuid.UUID) ([]ProductSalesResult, error)
}
