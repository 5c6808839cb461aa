package service

import (
	"context"

	"github.com/tiendanova/pos-api/internal/domain/entity"
	"github.com/tiendanova/pos-api/internal/domain/repository"
	"github.com/tiendanova/pos-api/pkg/pagination"
)

// CatalogService exposes the reference data the sale screen needs:
// stores, products and customers
type CatalogService struct {
	stores    repository.StoreRepository
	products  repository.ProductRepository
	customers repository.CustomerRepository
}

// NewCatalogService creates a catalog service
func NewCatalogService(stores repository.StoreRepository, products repository.ProductRepository, customers repository.CustomerRepository) *CatalogService {
	return &CatalogService{stores: stores, products: products, customers: customers}
}

// ListStores returns every store
func (s *CatalogService) ListStores(ctx context.Context) ([]entity.Store, error) {
	return s.stores.List(ctx)
}

// ListProducts returns products matching the search, paginated
func (s *CatalogService) ListProducts(ctx context.Context, search string, params *pagination.PaginationParams) ([]entity.Product, int64, error) {
	return s.products.List(ctx, search, params)
}

// ListCustomers returns customers matching the search, paginated
func (s *CatalogService) ListCustomers(ctx context.Context, search string, params *pagination.PaginationParams) ([]entity.Customer, int64, error) {
	return s.customers.List(ctx, search, params)
}

// CreateCustomer registers a customer for named invoices
func (s *CatalogService) CreateCustomer(ctx context.Context, customer *entity.Customer) error {
	return s.customers.Create(ctx, customer)
}
