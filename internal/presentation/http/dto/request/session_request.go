package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpenSessionRequest opens the register for a store
type OpenSessionRequest struct {
	StoreID       uuid.UUID       `json:"store_id" binding:"required"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
	Notes         string          `json:"notes"`
}

// CloseSessionRequest closes the open register session
type CloseSessionRequest struct {
	ClosingAmount decimal.Decimal `json:"closing_amount"`
}
