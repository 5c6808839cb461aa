package money

import "github.com/shopspring/decimal"

// All monetary amounts are fixed-point with two decimal places. Every
// computation rounds at the line level so repeated recomputation of the
// same cart can never drift.

// ClampDiscount limits a per-unit discount to the [0, unitPrice] range.
func ClampDiscount(unitPrice, discount decimal.Decimal) decimal.Decimal {
	if discount.IsNegative() {
		return decimal.Zero
	}
	if discount.GreaterThan(unitPrice) {
		return unitPrice
	}
	return discount
}

// LineTotal computes the total for a single line:
// max(unitPrice - discount, 0) * quantity, rounded to two places.
// The discount is clamped before the computation, so the result is
// never negative.
func LineTotal(unitPrice, discount decimal.Decimal, quantity int) decimal.Decimal {
	if unitPrice.IsNegative() {
		unitPrice = decimal.Zero
	}
	effective := unitPrice.Sub(ClampDiscount(unitPrice, discount))
	return effective.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// Line is the minimal shape CartTotals needs: anything that can report
// its unit price, discount and quantity.
type Line interface {
	LineUnitPrice() decimal.Decimal
	LineDiscount() decimal.Decimal
	LineQuantity() int
}

// Totals is the aggregate of a set of lines.
type Totals struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalItems  int             `json:"total_items"`
}

// CartTotals sums LineTotal over all lines and counts items. The sum is
// order-independent because every term is rounded before accumulation.
func CartTotals[L Line](lines []L) Totals {
	totals := Totals{TotalAmount: decimal.Zero}
	for _, line := range lines {
		totals.TotalAmount = totals.TotalAmount.Add(
			LineTotal(line.LineUnitPrice(), line.LineDiscount(), line.LineQuantity()))
		totals.TotalItems += line.LineQuantity()
	}
	return totals
}
