package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tiendanova/pos-api/internal/domain/entity"
)

// ErrInsufficientStock is returned when a stock adjustment would take
// the on-hand quantity below zero
var ErrInsufficientStock = errors.New("insufficient stock")

// InventoryRepository defines the interface for per-store stock operations
type InventoryRepository interface {
	Create(ctx context.Context, inventory *entity.Inventory) error
	GetByProductAndStore(ctx context.Context, productID, storeID uuid.UUID) (*entity.Inventory, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]entity.Inventory, error)
	ListLowStock(ctx context.Context, storeID uuid.UUID) ([]entity.Inventory, error)

	// AdjustStock applies a signed quantity delta atomically. A negative
	// delta that would take stock below zero fails without changing the row.
	AdjustStock(ctx context.Context, productID, storeID uuid.UUID, delta int) error
}
