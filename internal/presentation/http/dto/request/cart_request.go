package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddCartLineRequest adds a product to the cart
type AddCartLineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity"`
}

// SetCartQuantityRequest replaces a cart line's quantity
type SetCartQuantityRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required"`
}

// SetCartDiscountRequest sets a cart line's per-unit discount
type SetCartDiscountRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Discount  decimal.Decimal `json:"discount"`
}

// CheckoutRequest submits the cart as a sale
type CheckoutRequest struct {
	CustomerID    *uuid.UUID `json:"customer_id"`
	PaymentMethod string     `json:"payment_method"`
}
