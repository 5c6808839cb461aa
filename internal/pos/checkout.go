package pos

import (
	"context"

	"github.com/google/uuid"
)

// DefaultPaymentMethod is used when the operator does not pick one
const DefaultPaymentMethod = "cash"

// CheckoutCoordinator validates a cart against the session manager and
// submits it to the ledger. It never mutates the cart: the caller
// clears it only after a successful submission, so a failure always
// leaves the operator free to retry.
type CheckoutCoordinator struct {
	ledger Ledger
}

// NewCheckoutCoordinator creates a checkout coordinator
func NewCheckoutCoordinator(ledger Ledger) *CheckoutCoordinator {
	return &CheckoutCoordinator{ledger: ledger}
}

// Checkout submits the cart. It fails with ErrEmptyCart on an empty
// cart and ErrSessionClosed when no session is open; the session check
// runs again immediately before the ledger call because the session may
// have closed while an earlier operation was in flight. Ledger
// rejections (insufficient stock, unknown customer) surface verbatim.
func (c *CheckoutCoordinator) Checkout(ctx context.Context, cart *Cart, sessions *SessionManager, customerID *uuid.UUID, paymentMethod string) (*InvoiceDetail, error) {
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if err := sessions.RequireOpen(); err != nil {
		return nil, err
	}
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	items := cart.items()

	// Session re-check at the network boundary
	if err := sessions.RequireOpen(); err != nil {
		return nil, err
	}

	return c.ledger.Checkout(ctx, CheckoutRequest{
		UserID:        sessions.userID,
		SessionID:     sessions.Current().ID,
		CustomerID:    customerID,
		PaymentMethod: paymentMethod,
		Items:         items,
	})
}
