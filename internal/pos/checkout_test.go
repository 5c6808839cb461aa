package pos_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendanova/pos-api/internal/pos"
)

func openSession(t *testing.T, ledger pos.Ledger, userID uuid.UUID) *pos.SessionManager {
	t.Helper()
	manager := pos.NewSessionManager(ledger, userID)
	_, err := manager.Open(context.Background(), uuid.New(), dec("50000"), "")
	require.NoError(t, err)
	return manager
}

func TestCheckoutSubmitsCart(t *testing.T) {
	userID := uuid.New()
	ledger := &stubLedger{}
	sessions := openSession(t, ledger, userID)
	coordinator := pos.NewCheckoutCoordinator(ledger)

	cart := pos.NewCart()
	coffee := testProduct("Coffee", "10000")
	cart.AddLine(coffee, 2)
	require.NoError(t, cart.SetDiscount(coffee.ID, dec("2000")))

	detail, err := coordinator.Checkout(context.Background(), cart, sessions, nil, "card")

	require.NoError(t, err)
	assert.True(t, detail.TotalAmount.Equal(dec("16000")))
	require.Len(t, ledger.checkoutCalls, 1)
	submitted := ledger.checkoutCalls[0]
	assert.Equal(t, userID, submitted.UserID)
	assert.Equal(t, sessions.Current().ID, submitted.SessionID)
	assert.Equal(t, "card", submitted.PaymentMethod)
	require.Len(t, submitted.Items, 1)
	assert.Equal(t, 2, submitted.Items[0].Quantity)
	assert.True(t, submitted.Items[0].Discount.Equal(dec("2000")))
}

func TestCheckoutDefaultsPaymentMethodToCash(t *testing.T) {
	ledger := &stubLedger{}
	sessions := openSession(t, ledger, uuid.New())
	coordinator := pos.NewCheckoutCoordinator(ledger)

	cart := pos.NewCart()
	cart.AddLine(testProduct("Coffee", "10000"), 1)

	_, err := coordinator.Checkout(context.Background(), cart, sessions, nil, "")

	require.NoError(t, err)
	require.Len(t, ledger.checkoutCalls, 1)
	assert.Equal(t, pos.DefaultPaymentMethod, ledger.checkoutCalls[0].PaymentMethod)
}

func TestCheckoutEmptyCart(t *testing.T) {
	ledger := &stubLedger{}
	sessions := openSession(t, ledger, uuid.New())
	coordinator := pos.NewCheckoutCoordinator(ledger)

	_, err := coordinator.Checkout(context.Background(), pos.NewCart(), sessions, nil, "cash")

	assert.ErrorIs(t, err, pos.ErrEmptyCart)
	assert.Empty(t, ledger.checkoutCalls)
}

func TestCheckoutClosedSessionLeavesCartIntact(t *testing.T) {
	ledger := &stubLedger{}
	sessions := pos.NewSessionManager(ledger, uuid.New())
	coordinator := pos.NewCheckoutCoordinator(ledger)

	cart := pos.NewCart()
	cart.AddLine(testProduct("Coffee", "10000"), 2)

	_, err := coordinator.Checkout(context.Background(), cart, sessions, nil, "cash")

	assert.ErrorIs(t, err, pos.ErrSessionClosed)
	assert.Empty(t, ledger.checkoutCalls, "nothing may reach the ledger without a session")
	require.Len(t, cart.Lines(), 1)
	assert.Equal(t, 2, cart.Lines()[0].Quantity)
}

func TestCheckoutLedgerRejectionLeavesCartIntact(t *testing.T) {
	boom := errors.New("insufficient stock for Coffee")
	ledger := &stubLedger{
		checkoutFn: func(ctx context.Context, req pos.CheckoutRequest) (*pos.InvoiceDetail, error) {
			return nil, boom
		},
	}
	sessions := openSession(t, ledger, uuid.New())
	coordinator := pos.NewCheckoutCoordinator(ledger)

	cart := pos.NewCart()
	cart.AddLine(testProduct("Coffee", "10000"), 2)

	_, err := coordinator.Checkout(context.Background(), cart, sessions, nil, "cash")

	assert.ErrorIs(t, err, boom)
	require.Len(t, cart.Lines(), 1, "a rejected checkout must keep the cart for retry")
}

func TestCheckoutPassesCustomer(t *testing.T) {
	ledger := &stubLedger{}
	sessions := openSession(t, ledger, uuid.New())
	coordinator := pos.NewCheckoutCoordinator(ledger)

	cart := pos.NewCart()
	cart.AddLine(testProduct("Coffee", "10000"), 1)
	customerID := uuid.New()

	_, err := coordinator.Checkout(context.Background(), cart, sessions, &customerID, "cash")

	require.NoError(t, err)
	require.Len(t, ledger.checkoutCalls, 1)
	require.NotNil(t, ledger.checkoutCalls[0].CustomerID)
	assert.Equal(t, customerID, *ledger.checkoutCalls[0].CustomerID)
}

func TestTerminalCheckoutClearsCartOnSuccess(t *testing.T) {
	ledger := &stubLedger{}
	terminal := pos.NewTerminal(ledger, uuid.New())
	_, err := terminal.OpenSession(context.Background(), uuid.New(), dec("50000"), "")
	require.NoError(t, err)

	terminal.AddToCart(testProduct("Coffee", "10000"), 2)

	detail, err := terminal.Checkout(context.Background(), nil, "cash")

	require.NoError(t, err)
	assert.True(t, detail.TotalAmount.Equal(dec("20000")))
	assert.Empty(t, terminal.CartState().Lines)
}

func TestTerminalCheckoutKeepsCartOnFailure(t *testing.T) {
	boom := errors.New("insufficient stock")
	ledger := &stubLedger{
		checkoutFn: func(ctx context.Context, req pos.CheckoutRequest) (*pos.InvoiceDetail, error) {
			return nil, boom
		},
	}
	terminal := pos.NewTerminal(ledger, uuid.New())
	_, err := terminal.OpenSession(context.Background(), uuid.New(), dec("50000"), "")
	require.NoError(t, err)

	terminal.AddToCart(testProduct("Coffee", "10000"), 2)

	_, err = terminal.Checkout(context.Background(), nil, "cash")

	assert.ErrorIs(t, err, boom)
	assert.Len(t, terminal.CartState().Lines, 1)
}

func TestRegistryReturnsSameTerminalPerOperator(t *testing.T) {
	registry := pos.NewRegistry(&stubLedger{})
	alice := uuid.New()
	bob := uuid.New()

	first := registry.Terminal(alice)
	second := registry.Terminal(alice)
	other := registry.Terminal(bob)

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.Equal(t, alice, first.UserID())
}
