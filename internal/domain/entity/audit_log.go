package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/tiendanova/pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// InvoiceAuditLog records every change applied to an invoice: creation,
// edits and voiding. Entries are append-only.
type InvoiceAuditLog struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"invoice_id"`
	UserID      uuid.UUID        `gorm:"type:uuid;not null" json:"user_id"`
	Action      enum.AuditAction `gorm:"size:50;not null" json:"action"`
	Description string           `gorm:"size:255" json:"description"`
	Metadata    json.RawMessage  `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`

	// Relationships
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
	User    User    `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new audit entry
func (l *InvoiceAuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceAuditLog model
func (InvoiceAuditLog) TableName() string {
	return "invoice_audit_logs"
}
