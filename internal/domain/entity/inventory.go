package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Inventory tracks the authoritative stock of a product in a store.
// The quantity the POS terminal holds is advisory only; this row is
// what checkout and invoice editing validate against.
type Inventory struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_product_store" json:"product_id"`
	StoreID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_product_store" json:"store_id"`
	Quantity  int       `gorm:"not null;default:0" json:"quantity"`
	MinStock  int       `gorm:"not null;default:0" json:"min_stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
	Store   Store   `gorm:"foreignKey:StoreID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new inventory row
func (i *Inventory) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Inventory model
func (Inventory) TableName() string {
	return "inventories"
}
