package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tiendanova/pos-api/internal/domain/entity"
	domainRepo "github.com/tiendanova/pos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new invoice audit log repository
func NewAuditLogRepository(db *gorm.DB) domainRepo.AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.InvoiceAuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *auditLogRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceAuditLog, error) {
	var logs []entity.InvoiceAuditLog
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("invoice_id = ?", invoiceID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
