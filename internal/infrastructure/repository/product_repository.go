package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tiendanova/pos-api/internal/domain/entity"
	domainRepo "github.com/tiendanova/pos-api/internal/domain/repository"
	"github.com/tiendanova/pos-api/pkg/pagination"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).First(&product, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *productRepository) List(ctx context.Context, search string, params *pagination.PaginationParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(sku) LIKE LOWER(?)", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&products).Error

	return products, total, err
}

func (r *productRepository) SearchForSale(ctx context.Context, storeID uuid.UUID, search string, limit int) ([]domainRepo.ProductWithStock, error) {
	if limit <= 0 {
		limit = 10
	}

	var results []domainRepo.ProductWithStock
	query := r.db.WithContext(ctx).Model(&entity.Product{}).
		Select("products.id, products.name, products.sku, products.price, COALESCE(inventories.quantity, 0) AS stock").
		Joins("LEFT JOIN inventories ON inventories.product_id = products.id AND inventories.store_id = ?", storeID)

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(products.name) LIKE LOWER(?) OR LOWER(products.sku) LIKE LOWER(?)", pattern, pattern)
	}

	err := query.Order("products.name ASC").Limit(limit).Scan(&results).Error
	return results, err
}
