package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tiendanova/pos-api/internal/domain/entity"
	"github.com/tiendanova/pos-api/pkg/pagination"
)

// ProductWithStock is a product joined with its on-hand quantity for a
// store, as shown on the sale screen
type ProductWithStock struct {
	ID    uuid.UUID
	Name  string
	SKU   string
	Price decimal.Decimal
	Stock int
}

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string, params *pagination.PaginationParams) ([]entity.Product, int64, error)

	// SearchForSale matches products by name or SKU and joins each with
	// its stock at the given store
	SearchForSale(ctx context.Context, storeID uuid.UUID, query string, limit int) ([]ProductWithStock, error)
}
