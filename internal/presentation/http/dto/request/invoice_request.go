package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddInvoiceLineRequest adds a product line to the invoice under edit
type AddInvoiceLineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

// SetInvoiceQuantityRequest replaces a line's quantity by index
type SetInvoiceQuantityRequest struct {
	Index    int `json:"index"`
	Quantity int `json:"quantity" binding:"required"`
}

// SetInvoiceUnitPriceRequest overrides a line's unit price by index
type SetInvoiceUnitPriceRequest struct {
	Index     int             `json:"index"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SetInvoiceDiscountRequest sets a line's per-unit discount by index
type SetInvoiceDiscountRequest struct {
	Index    int             `json:"index"`
	Discount decimal.Decimal `json:"discount"`
}

// RemoveInvoiceLineRequest removes a line by index
type RemoveInvoiceLineRequest struct {
	Index int `json:"index"`
}

// SetInvoicePaymentRequest changes the payment method recorded on save
type SetInvoicePaymentRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}
