package pos

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tiendanova/pos-api/pkg/money"
)

// EditorPhase is the invoice editor's lifecycle state
type EditorPhase int

const (
	PhaseView EditorPhase = iota
	PhaseEditing
	PhaseSaving
	PhaseVoid
)

func (p EditorPhase) String() string {
	return [...]string{"view", "editing", "saving", "void"}[p]
}

// InvoiceEditor loads a persisted invoice into an editable working copy
// and resubmits the full line set to the ledger on save. Phases move
// VIEW -> EDITING -> SAVING -> VIEW on success, SAVING -> EDITING on
// failure (message retained); VOID is terminal.
type InvoiceEditor struct {
	ledger Ledger
	userID uuid.UUID
	tokens requestTokens

	invoiceID     uuid.UUID
	invoiceNumber string
	customerID    *uuid.UUID
	customerName  string
	paymentMethod string
	lines         []InvoiceLine
	phase         EditorPhase
	lastError     string
}

// NewInvoiceEditor creates an editor bound to an operator
func NewInvoiceEditor(ledger Ledger, userID uuid.UUID) *InvoiceEditor {
	return &InvoiceEditor{ledger: ledger, userID: userID}
}

// Open loads an invoice from the ledger. A void invoice still loads for
// display, but every mutation on it fails with ErrInvoiceVoid.
func (e *InvoiceEditor) Open(ctx context.Context, invoiceID uuid.UUID) (*InvoiceDetail, error) {
	detail, err := e.ledger.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	e.invoiceID = detail.ID
	e.invoiceNumber = detail.InvoiceNumber
	e.customerID = detail.CustomerID
	e.customerName = detail.CustomerName
	e.paymentMethod = detail.PaymentMethod
	e.lines = make([]InvoiceLine, len(detail.Items))
	copy(e.lines, detail.Items)
	e.lastError = ""
	if detail.Status == "void" {
		e.phase = PhaseVoid
	} else {
		e.phase = PhaseView
	}
	return detail, nil
}

// Phase returns the editor's current lifecycle phase
func (e *InvoiceEditor) Phase() EditorPhase {
	return e.phase
}

// LastError returns the message of the last failed save, if any
func (e *InvoiceEditor) LastError() string {
	return e.lastError
}

// InvoiceID returns the id of the loaded invoice
func (e *InvoiceEditor) InvoiceID() uuid.UUID {
	return e.invoiceID
}

// InvoiceNumber returns the human-readable number of the loaded invoice
func (e *InvoiceEditor) InvoiceNumber() string {
	return e.invoiceNumber
}

// CustomerName returns the display name of the invoice's customer
func (e *InvoiceEditor) CustomerName() string {
	return e.customerName
}

// PaymentMethod returns the payment method to be recorded on save
func (e *InvoiceEditor) PaymentMethod() string {
	return e.paymentMethod
}

// Lines returns a copy of the editable line list
func (e *InvoiceEditor) Lines() []InvoiceLine {
	out := make([]InvoiceLine, len(e.lines))
	copy(out, e.lines)
	return out
}

// Totals recomputes the working copy's totals
func (e *InvoiceEditor) Totals() money.Totals {
	return money.CartTotals(e.lines)
}

// beginMutation gates every line-level change on the editor state
func (e *InvoiceEditor) beginMutation() error {
	if e.invoiceID == uuid.Nil {
		return ErrNotEditing
	}
	switch e.phase {
	case PhaseVoid:
		return ErrInvoiceVoid
	case PhaseSaving:
		return &InvalidStateError{Reason: "a save is in progress"}
	}
	e.phase = PhaseEditing
	return nil
}

// AddLine appends a new line for a product with quantity one and no
// discount. The line carries no persisted-row identity, which tells the
// ledger it is an insert.
func (e *InvoiceEditor) AddLine(product CartProduct) error {
	if err := e.beginMutation(); err != nil {
		return err
	}
	for i := range e.lines {
		if e.lines[i].ProductID == product.ID {
			e.lines[i].Quantity++
			e.recompute(i)
			return nil
		}
	}
	e.lines = append(e.lines, InvoiceLine{
		ProductID:   product.ID,
		ProductName: product.Name,
		ProductSKU:  product.SKU,
		Quantity:    1,
		UnitPrice:   product.Price,
		Discount:    decimal.Zero,
		LineTotal:   money.LineTotal(product.Price, decimal.Zero, 1),
	})
	return nil
}

// RemoveLine deletes the line at index. Removing the last remaining
// line is rejected: an invoice must retain at least one line.
func (e *InvoiceEditor) RemoveLine(index int) error {
	if err := e.beginMutation(); err != nil {
		return err
	}
	if index < 0 || index >= len(e.lines) {
		return NewValidationError("index", "no such line")
	}
	if len(e.lines) == 1 {
		return ErrEmptyInvoice
	}
	e.lines = append(e.lines[:index], e.lines[index+1:]...)
	return nil
}

// SetQuantity replaces the quantity of the line at index. Quantities
// must be positive integers.
func (e *InvoiceEditor) SetQuantity(index, quantity int) error {
	if err := e.beginMutation(); err != nil {
		return err
	}
	if index < 0 || index >= len(e.lines) {
		return NewValidationError("index", "no such line")
	}
	if quantity <= 0 {
		return NewValidationError("quantity", "must be greater than zero")
	}
	e.lines[index].Quantity = quantity
	e.recompute(index)
	return nil
}

// SetUnitPrice replaces the unit price of the line at index. The
// discount is re-clamped against the new price.
func (e *InvoiceEditor) SetUnitPrice(index int, price decimal.Decimal) error {
	if err := e.beginMutation(); err != nil {
		return err
	}
	if index < 0 || index >= len(e.lines) {
		return NewValidationError("index", "no such line")
	}
	if price.IsNegative() {
		return NewValidationError("unit_price", "cannot be negative")
	}
	e.lines[index].UnitPrice = price
	e.lines[index].Discount = money.ClampDiscount(price, e.lines[index].Discount)
	e.recompute(index)
	return nil
}

// SetDiscount replaces the per-unit discount of the line at index,
// clamped to the unit price. Negative input is rejected.
func (e *InvoiceEditor) SetDiscount(index int, discount decimal.Decimal) error {
	if err := e.beginMutation(); err != nil {
		return err
	}
	if index < 0 || index >= len(e.lines) {
		return NewValidationError("index", "no such line")
	}
	if discount.IsNegative() {
		return NewValidationError("discount", "cannot be negative")
	}
	e.lines[index].Discount = money.ClampDiscount(e.lines[index].UnitPrice, discount)
	e.recompute(index)
	return nil
}

// SetPaymentMethod changes the payment method recorded on save
func (e *InvoiceEditor) SetPaymentMethod(method string) error {
	if err := e.beginMutation(); err != nil {
		return err
	}
	if method == "" {
		return NewValidationError("payment_method", "cannot be empty")
	}
	e.paymentMethod = method
	return nil
}

func (e *InvoiceEditor) recompute(index int) {
	line := &e.lines[index]
	line.LineTotal = money.LineTotal(line.UnitPrice, line.Discount, line.Quantity)
}

// Save submits the full line list and payment method as a replace-style
// update. On success the working copy is replaced by the ledger's echo,
// which re-derives totals and may adjust rounding. On failure the
// editor stays in EDITING with the message retained, and the working
// copy is untouched. A superseded echo is discarded.
func (e *InvoiceEditor) Save(ctx context.Context) (*InvoiceDetail, error) {
	if e.invoiceID == uuid.Nil {
		return nil, ErrNotEditing
	}
	switch e.phase {
	case PhaseVoid:
		return nil, ErrInvoiceVoid
	case PhaseSaving:
		return nil, &InvalidStateError{Reason: "a save is in progress"}
	}
	if len(e.lines) == 0 {
		return nil, ErrEmptyInvoice
	}

	e.phase = PhaseSaving
	token := e.tokens.next()

	detail, err := e.ledger.UpdateInvoice(ctx, UpdateInvoiceRequest{
		InvoiceID:     e.invoiceID,
		UserID:        e.userID,
		PaymentMethod: e.paymentMethod,
		Items:         e.Lines(),
	})
	if err != nil {
		e.phase = PhaseEditing
		e.lastError = err.Error()
		return nil, err
	}

	if !e.tokens.isCurrent(token) {
		return detail, nil
	}
	e.lines = make([]InvoiceLine, len(detail.Items))
	copy(e.lines, detail.Items)
	e.paymentMethod = detail.PaymentMethod
	e.lastError = ""
	e.phase = PhaseView
	return detail, nil
}

// Void annuls the invoice. The transition happens exactly once; after
// it the invoice is immutable and every mutation fails with
// ErrInvoiceVoid. Confirmation is the caller's responsibility.
func (e *InvoiceEditor) Void(ctx context.Context) (*InvoiceDetail, error) {
	if e.invoiceID == uuid.Nil {
		return nil, ErrNotEditing
	}
	if e.phase == PhaseVoid {
		return nil, ErrInvoiceVoid
	}
	if e.phase == PhaseSaving {
		return nil, &InvalidStateError{Reason: "a save is in progress"}
	}

	token := e.tokens.next()
	detail, err := e.ledger.VoidInvoice(ctx, e.invoiceID, e.userID)
	if err != nil {
		return nil, err
	}
	if e.tokens.isCurrent(token) {
		e.phase = PhaseVoid
	}
	return detail, nil
}

// AuditLog fetches the invoice's change history for display. Failures
// are non-fatal and leave the editor state unchanged.
func (e *InvoiceEditor) AuditLog(ctx context.Context) ([]AuditEntry, error) {
	if e.invoiceID == uuid.Nil {
		return nil, ErrNotEditing
	}
	return e.ledger.InvoiceAuditLog(ctx, e.invoiceID)
}
