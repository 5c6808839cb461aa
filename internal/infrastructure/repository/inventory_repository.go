package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tiendanova/pos-api/internal/domain/entity"
	domainRepo "github.com/tiendanova/pos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *gorm.DB) domainRepo.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, inventory *entity.Inventory) error {
	return r.db.WithContext(ctx).Create(inventory).Error
}

func (r *inventoryRepository) GetByProductAndStore(ctx context.Context, productID, storeID uuid.UUID) (*entity.Inventory, error) {
	var inventory entity.Inventory
	err := r.db.WithContext(ctx).
		First(&inventory, "product_id = ? AND store_id = ?", productID, storeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &inventory, err
}

func (r *inventoryRepository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]entity.Inventory, error) {
	var inventories []entity.Inventory
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("store_id = ?", storeID).
		Find(&inventories).Error
	return inventories, err
}

func (r *inventoryRepository) ListLowStock(ctx context.Context, storeID uuid.UUID) ([]entity.Inventory, error) {
	var inventories []entity.Inventory
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("store_id = ? AND quantity <= min_stock", storeID).
		Find(&inventories).Error
	return inventories, err
}

// AdjustStock applies the delta in a single guarded UPDATE so two
// concurrent checkouts cannot both spend the same units
func (r *inventoryRepository) AdjustStock(ctx context.Context, productID, storeID uuid.UUID, delta int) error {
	result := r.db.WithContext(ctx).Model(&entity.Inventory{}).
		Where("product_id = ? AND store_id = ? AND quantity + ? >= 0", productID, storeID, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainRepo.ErrInsufficientStock
	}
	return nil
}
