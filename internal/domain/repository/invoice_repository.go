package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tiendanova/pos-api/internal/domain/entity"
	"github.com/tiendanova/pos-api/internal/domain/enum"
	"github.com/tiendanova/pos-api/pkg/pagination"
)

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.InvoiceStatus
	StoreID    *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, invoiceNumber string) (*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)

	// ListRecent returns today's non-void invoices, newest first
	ListRecent(ctx context.Context, storeID *uuid.UUID, limit int) ([]entity.Invoice, error)

	// CountForDay counts invoices created on a calendar day, used to
	// derive the per-day sequence in invoice numbers
	CountForDay(ctx context.Context, day time.Time) (int64, error)
}

// InvoiceItemRepository defines the interface for invoice line data operations
type InvoiceItemRepository interface {
	Create(ctx context.Context, item *entity.InvoiceItem) error
	CreateBatch(ctx context.Context, items []entity.InvoiceItem) error
	GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceItem, error)
	Update(ctx context.Context, item *entity.InvoiceItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}
