package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tiendanova/pos-api/internal/domain/entity"
)

// SessionRepository defines the interface for register session data operations
type SessionRepository interface {
	Create(ctx context.Context, session *entity.RegisterSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.RegisterSession, error)
	Update(ctx context.Context, session *entity.RegisterSession) error

	// GetOpenByUser returns the user's open session, or nil when none is open
	GetOpenByUser(ctx context.Context, userID uuid.UUID) (*entity.RegisterSession, error)

	// TotalSales sums the non-void invoice totals recorded under a session
	TotalSales(ctx context.Context, sessionID uuid.UUID) (decimal.Decimal, error)
}
