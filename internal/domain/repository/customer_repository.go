package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tiendanova/pos-api/internal/domain/entity"
	"github.com/tiendanova/pos-api/pkg/pagination"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string, params *pagination.PaginationParams) ([]entity.Customer, int64, error)
}
