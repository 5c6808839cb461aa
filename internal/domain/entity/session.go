package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tiendanova/pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// RegisterSession represents the open/closed lifecycle of a cash drawer
// for a store over a working period. It is created by an open action,
// mutated only by the close action, and immutable once closed.
type RegisterSession struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	StoreID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"store_id"`
	UserID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	Status        enum.SessionStatus `gorm:"default:0" json:"status"`
	OpeningAmount decimal.Decimal    `gorm:"type:numeric(12,2);not null;default:0" json:"opening_amount"`
	ClosingAmount *decimal.Decimal   `gorm:"type:numeric(12,2)" json:"closing_amount,omitempty"`
	Notes         *string            `gorm:"type:text" json:"notes,omitempty"`
	OpenedAt      time.Time          `gorm:"not null" json:"opened_at"`
	ClosedAt      *time.Time         `json:"closed_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`

	// Relationships
	Store Store `gorm:"foreignKey:StoreID" json:"-"`
	User  User  `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID and stamps the opening time
func (s *RegisterSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.OpenedAt.IsZero() {
		s.OpenedAt = time.Now().UTC()
	}
	return nil
}

// TableName returns the table name for the RegisterSession model
func (RegisterSession) TableName() string {
	return "register_sessions"
}

// IsOpen reports whether the session still accepts transactions
func (s *RegisterSession) IsOpen() bool {
	return s.Status == enum.SessionStatusOpen
}
