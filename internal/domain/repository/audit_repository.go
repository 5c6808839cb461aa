package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tiendanova/pos-api/internal/domain/entity"
)

// AuditLogRepository defines the interface for invoice audit records
type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.InvoiceAuditLog) error

	// ListByInvoice returns an invoice's audit entries, newest first
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceAuditLog, error)
}
