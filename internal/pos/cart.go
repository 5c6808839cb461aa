package pos

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tiendanova/pos-api/pkg/money"
)

// CartProduct is the advisory product data a cart line is built from.
// Stock is the terminal's last known figure, nil when unknown; it is
// used only to warn the operator, never as the authority.
type CartProduct struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	SKU   string          `json:"sku"`
	Price decimal.Decimal `json:"price"`
	Stock *int            `json:"stock,omitempty"`
}

// CartLine is one in-progress sale line owned by the cart
type CartLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Quantity  int             `json:"quantity"`
	Stock     *int            `json:"stock,omitempty"`
}

// LineUnitPrice implements money.Line
func (l CartLine) LineUnitPrice() decimal.Decimal { return l.UnitPrice }

// LineDiscount implements money.Line
func (l CartLine) LineDiscount() decimal.Decimal { return l.Discount }

// LineQuantity implements money.Line
func (l CartLine) LineQuantity() int { return l.Quantity }

// Total returns the line total with the discount clamped
func (l CartLine) Total() decimal.Decimal {
	return money.LineTotal(l.UnitPrice, l.Discount, l.Quantity)
}

// Cart is the operator's in-progress, not-yet-submitted list of sale
// lines. It is pure in-memory state and never talks to the ledger.
type Cart struct {
	lines []CartLine
}

// NewCart creates an empty cart
func NewCart() *Cart {
	return &Cart{}
}

// AddLine adds quantity units of a product. An existing line for the
// same product has its quantity incremented; otherwise a new line is
// appended with no discount. A quantity below one defaults to one.
func (c *Cart) AddLine(product CartProduct, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	for i := range c.lines {
		if c.lines[i].ProductID == product.ID {
			c.lines[i].Quantity += quantity
			c.lines[i].Stock = product.Stock
			return
		}
	}
	c.lines = append(c.lines, CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		SKU:       product.SKU,
		UnitPrice: product.Price,
		Discount:  decimal.Zero,
		Quantity:  quantity,
		Stock:     product.Stock,
	})
}

// RemoveLine removes the line for a product, if present
func (c *Cart) RemoveLine(productID uuid.UUID) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces the quantity of a line. A non-positive quantity
// leaves the line untouched. When the line carries an advisory stock
// figure and the quantity exceeds it, the change is rejected with a
// StockWarning and nothing is mutated.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		if c.lines[i].Stock != nil && quantity > *c.lines[i].Stock {
			return &StockWarning{
				ProductID: productID,
				Requested: quantity,
				Available: *c.lines[i].Stock,
			}
		}
		c.lines[i].Quantity = quantity
		return nil
	}
	return nil
}

// SetDiscount sets the per-unit discount of a line, clamped to the
// line's unit price. Negative input is rejected.
func (c *Cart) SetDiscount(productID uuid.UUID, discount decimal.Decimal) error {
	if discount.IsNegative() {
		return NewValidationError("discount", "cannot be negative")
	}
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Discount = money.ClampDiscount(c.lines[i].UnitPrice, discount)
			return nil
		}
	}
	return nil
}

// Clear removes every line
func (c *Cart) Clear() {
	c.lines = nil
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the cart's lines in insertion order
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Totals returns the cart total and item count
func (c *Cart) Totals() money.Totals {
	return money.CartTotals(c.lines)
}

// items builds the checkout submission payload
func (c *Cart) items() []CheckoutItem {
	items := make([]CheckoutItem, len(c.lines))
	for i, line := range c.lines {
		items[i] = CheckoutItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Discount:  line.Discount,
		}
	}
	return items
}
