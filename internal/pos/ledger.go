package pos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger is the authoritative store of sessions, invoices and stock.
// Terminal-side state is an optimistic working copy; any rejection from
// the ledger is final and must not be overridden locally.
type Ledger interface {
	OpenSession(ctx context.Context, req OpenSessionRequest) (*SessionSnapshot, error)
	CloseSession(ctx context.Context, req CloseSessionRequest) (*SessionCloseResult, error)
	CurrentSession(ctx context.Context, userID uuid.UUID) (*SessionSnapshot, error)

	Checkout(ctx context.Context, req CheckoutRequest) (*InvoiceDetail, error)
	GetInvoice(ctx context.Context, invoiceID uuid.UUID) (*InvoiceDetail, error)
	UpdateInvoice(ctx context.Context, req UpdateInvoiceRequest) (*InvoiceDetail, error)
	VoidInvoice(ctx context.Context, invoiceID, userID uuid.UUID) (*InvoiceDetail, error)
	InvoiceAuditLog(ctx context.Context, invoiceID uuid.UUID) ([]AuditEntry, error)

	ClosingReport(ctx context.Context, query ReportQuery) (*ClosingReport, error)
}

// OpenSessionRequest opens a register session for a store
type OpenSessionRequest struct {
	UserID        uuid.UUID       `json:"user_id"`
	StoreID       uuid.UUID       `json:"store_id"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
	Notes         string          `json:"notes,omitempty"`
}

// CloseSessionRequest closes an open register session
type CloseSessionRequest struct {
	SessionID     uuid.UUID       `json:"session_id"`
	UserID        uuid.UUID       `json:"user_id"`
	ClosingAmount decimal.Decimal `json:"closing_amount"`
}

// SessionSnapshot is the terminal's view of a register session
type SessionSnapshot struct {
	ID            uuid.UUID       `json:"id"`
	StoreID       uuid.UUID       `json:"store_id"`
	StoreName     string          `json:"store"`
	OpenedAt      time.Time       `json:"opened_at"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
	TotalSales    decimal.Decimal `json:"total_sales"`
}

// SessionCloseResult is the ledger's echo of a session close
type SessionCloseResult struct {
	SessionID     uuid.UUID       `json:"session_id"`
	ClosedAt      time.Time       `json:"closed_at"`
	ClosingAmount decimal.Decimal `json:"closing_amount"`
	TotalSales    decimal.Decimal `json:"total_sales"`
}

// CheckoutItem is one submitted sale line
type CheckoutItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// CheckoutRequest submits a cart for invoicing
type CheckoutRequest struct {
	UserID        uuid.UUID      `json:"user_id"`
	SessionID     uuid.UUID      `json:"session_id"`
	CustomerID    *uuid.UUID     `json:"customer_id,omitempty"`
	PaymentMethod string         `json:"payment_method"`
	Items         []CheckoutItem `json:"items"`
}

// UpdateInvoiceRequest replaces an invoice's full line set. Lines that
// carry an InvoiceItemID update existing rows; lines without one are
// inserts. Omitted rows are removed.
type UpdateInvoiceRequest struct {
	InvoiceID     uuid.UUID     `json:"invoice_id"`
	UserID        uuid.UUID     `json:"user_id"`
	PaymentMethod string        `json:"payment_method"`
	Items         []InvoiceLine `json:"items"`
}

// InvoiceLine mirrors a cart line plus the identity of its persisted
// row when it originates from an existing invoice.
type InvoiceLine struct {
	InvoiceItemID *uuid.UUID      `json:"invoice_item_id,omitempty"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product"`
	ProductSKU    string          `json:"product_sku"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Discount      decimal.Decimal `json:"discount"`
	LineTotal     decimal.Decimal `json:"line_total"`
}

// LineUnitPrice implements money.Line
func (l InvoiceLine) LineUnitPrice() decimal.Decimal { return l.UnitPrice }

// LineDiscount implements money.Line
func (l InvoiceLine) LineDiscount() decimal.Decimal { return l.Discount }

// LineQuantity implements money.Line
func (l InvoiceLine) LineQuantity() int { return l.Quantity }

// InvoiceDetail is the ledger's authoritative serialization of an invoice
type InvoiceDetail struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    *uuid.UUID      `json:"customer_id,omitempty"`
	CustomerName  string          `json:"customer"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CreatedAt     time.Time       `json:"created_at"`
	Items         []InvoiceLine   `json:"items"`
}

// AuditEntry is one recorded change of an invoice
type AuditEntry struct {
	Action      string    `json:"action"`
	User        string    `json:"user"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReportQuery scopes a closing report to a date and optionally a store
type ReportQuery struct {
	Date    time.Time  `json:"date"`
	StoreID *uuid.UUID `json:"store_id,omitempty"`
}

// PaymentBreakdown aggregates one payment method over the report window
type PaymentBreakdown struct {
	Method       string          `json:"method"`
	Total        decimal.Decimal `json:"total"`
	Transactions int             `json:"transactions"`
}

// ProductSold aggregates one product over the report window
type ProductSold struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// ClosingReport is the end-of-period summary for a date and store scope.
// It is derived, read-only and recomputed on every request.
type ClosingReport struct {
	Date             string             `json:"date"`
	StoreID          *uuid.UUID         `json:"store_id,omitempty"`
	StoreName        string             `json:"store_name"`
	TotalSales       decimal.Decimal    `json:"total_sales"`
	Transactions     int                `json:"transactions"`
	TaxRate          decimal.Decimal    `json:"tax_rate"`
	TaxesCollected   decimal.Decimal    `json:"taxes_collected"`
	DiscountsApplied decimal.Decimal    `json:"discounts_applied"`
	PaymentBreakdown []PaymentBreakdown `json:"payment_breakdown"`
	ProductsSold     []ProductSold      `json:"products_sold"`
	Warnings         []string           `json:"warnings,omitempty"`
}
