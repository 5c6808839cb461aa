package pos

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tiendanova/pos-api/pkg/money"
)

// CartState is a consistent snapshot of the cart for display
type CartState struct {
	Lines  []CartLine   `json:"lines"`
	Totals money.Totals `json:"totals"`
}

// EditorState is a consistent snapshot of the invoice editor
type EditorState struct {
	InvoiceID     uuid.UUID     `json:"invoice_id"`
	InvoiceNumber string        `json:"invoice_number"`
	CustomerName  string        `json:"customer_name,omitempty"`
	PaymentMethod string        `json:"payment_method"`
	Phase         string        `json:"phase"`
	LastError     string        `json:"last_error,omitempty"`
	Lines         []InvoiceLine `json:"lines"`
	Totals        money.Totals  `json:"totals"`
}

// Terminal is one operator's point-of-sale state: their cart, their
// register session view, and at most one invoice under edit. Every
// command runs under the terminal's lock, so commands from concurrent
// requests serialize instead of interleaving.
type Terminal struct {
	mu sync.Mutex

	userID   uuid.UUID
	cart     *Cart
	sessions *SessionManager
	checkout *CheckoutCoordinator
	reports  *ClosingReportAggregator
	editor   *InvoiceEditor
}

// NewTerminal creates a terminal for an operator
func NewTerminal(ledger Ledger, userID uuid.UUID) *Terminal {
	return &Terminal{
		userID:   userID,
		cart:     NewCart(),
		sessions: NewSessionManager(ledger, userID),
		checkout: NewCheckoutCoordinator(ledger),
		reports:  NewClosingReportAggregator(ledger),
		editor:   NewInvoiceEditor(ledger, userID),
	}
}

// UserID returns the operator the terminal belongs to
func (t *Terminal) UserID() uuid.UUID {
	return t.userID
}

// OpenSession opens a register session for a store
func (t *Terminal) OpenSession(ctx context.Context, storeID uuid.UUID, openingAmount decimal.Decimal, notes string) (*SessionSnapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessions.Open(ctx, storeID, openingAmount, notes)
}

// CloseSession closes the open register session
func (t *Terminal) CloseSession(ctx context.Context, closingAmount decimal.Decimal) (*SessionCloseResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessions.Close(ctx, closingAmount)
}

// RefreshSession re-syncs the session view from the ledger
func (t *Terminal) RefreshSession(ctx context.Context) (*SessionSnapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessions.Refresh(ctx)
}

// CurrentSession returns the session snapshot, or nil when closed
func (t *Terminal) CurrentSession() *SessionSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessions.Current()
}

// AddToCart adds quantity units of a product to the cart
func (t *Terminal) AddToCart(product CartProduct, quantity int) CartState {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cart.AddLine(product, quantity)
	return t.cartStateLocked()
}

// RemoveFromCart removes the cart line for a product
func (t *Terminal) RemoveFromCart(productID uuid.UUID) CartState {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cart.RemoveLine(productID)
	return t.cartStateLocked()
}

// SetCartQuantity replaces the quantity of a cart line
func (t *Terminal) SetCartQuantity(productID uuid.UUID, quantity int) (CartState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	err := t.cart.SetQuantity(productID, quantity)
	return t.cartStateLocked(), err
}

// SetCartDiscount sets the per-unit discount of a cart line
func (t *Terminal) SetCartDiscount(productID uuid.UUID, discount decimal.Decimal) (CartState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	err := t.cart.SetDiscount(productID, discount)
	return t.cartStateLocked(), err
}

// ClearCart empties the cart
func (t *Terminal) ClearCart() CartState {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cart.Clear()
	return t.cartStateLocked()
}

// CartState returns a snapshot of the cart
func (t *Terminal) CartState() CartState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cartStateLocked()
}

func (t *Terminal) cartStateLocked() CartState {
	return CartState{
		Lines:  t.cart.Lines(),
		Totals: t.cart.Totals(),
	}
}

// Checkout submits the cart as a sale. The cart is cleared only after
// the ledger confirms, so a rejected checkout can be retried as is.
func (t *Terminal) Checkout(ctx context.Context, customerID *uuid.UUID, paymentMethod string) (*InvoiceDetail, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	detail, err := t.checkout.Checkout(ctx, t.cart, t.sessions, customerID, paymentMethod)
	if err != nil {
		return nil, err
	}
	t.cart.Clear()
	return detail, nil
}

// OpenInvoice loads an invoice into the editor
func (t *Terminal) OpenInvoice(ctx context.Context, invoiceID uuid.UUID) (*InvoiceDetail, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.editor.Open(ctx, invoiceID)
}

// EditInvoice runs a mutation against the loaded invoice and returns
// the resulting editor snapshot
func (t *Terminal) EditInvoice(fn func(*InvoiceEditor) error) (EditorState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	err := fn(t.editor)
	return t.editorStateLocked(), err
}

// SaveInvoice persists the editor's working copy
func (t *Terminal) SaveInvoice(ctx context.Context) (*InvoiceDetail, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.editor.Save(ctx)
}

// VoidInvoice annuls the loaded invoice
func (t *Terminal) VoidInvoice(ctx context.Context) (*InvoiceDetail, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.editor.Void(ctx)
}

// InvoiceAuditLog fetches the loaded invoice's change history
func (t *Terminal) InvoiceAuditLog(ctx context.Context) ([]AuditEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.editor.AuditLog(ctx)
}

// EditorState returns a snapshot of the invoice editor
func (t *Terminal) EditorState() EditorState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.editorStateLocked()
}

func (t *Terminal) editorStateLocked() EditorState {
	return EditorState{
		InvoiceID:     t.editor.InvoiceID(),
		InvoiceNumber: t.editor.InvoiceNumber(),
		CustomerName:  t.editor.CustomerName(),
		PaymentMethod: t.editor.PaymentMethod(),
		Phase:         t.editor.Phase().String(),
		LastError:     t.editor.LastError(),
		Lines:         t.editor.Lines(),
		Totals:        t.editor.Totals(),
	}
}

// ClosingReport fetches the reconciliation report for a date
func (t *Terminal) ClosingReport(ctx context.Context, date time.Time, storeID *uuid.UUID) (*ClosingReport, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reports.Generate(ctx, t.sessions, date, storeID)
}

// Registry hands out one terminal per operator, created on first use.
// Terminals live for the process lifetime; session state survives
// between requests but not restarts, which Refresh covers.
type Registry struct {
	mu        sync.Mutex
	ledger    Ledger
	terminals map[uuid.UUID]*Terminal
}

// NewRegistry creates a terminal registry backed by a ledger
func NewRegistry(ledger Ledger) *Registry {
	return &Registry{
		ledger:    ledger,
		terminals: make(map[uuid.UUID]*Terminal),
	}
}

// Terminal returns the operator's terminal, creating it if needed
func (r *Registry) Terminal(userID uuid.UUID) *Terminal {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.terminals[userID]; ok {
		return t
	}
	t := NewTerminal(r.ledger, userID)
	r.terminals[userID] = t
	return t
}
