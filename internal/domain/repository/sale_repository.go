package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tiendanova/pos-api/internal/domain/entity"
)

// SaleRepository defines the interface for denormalized sale rows. The
// rows mirror invoice lines for reporting and are rebuilt whenever an
// invoice changes.
type SaleRepository interface {
	CreateBatch(ctx context.Context, sales []entity.Sale) error
	DeleteByInvoiceID(ctx context.Context, invoiceID uuid.UUID) error
}
