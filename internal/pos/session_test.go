package pos_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendanova/pos-api/internal/pos"
)

func TestSessionOpen(t *testing.T) {
	ledger := &stubLedger{}
	manager := pos.NewSessionManager(ledger, uuid.New())
	storeID := uuid.New()

	snapshot, err := manager.Open(context.Background(), storeID, dec("50000"), "morning shift")

	require.NoError(t, err)
	assert.Equal(t, storeID, snapshot.StoreID)
	assert.True(t, snapshot.OpeningAmount.Equal(dec("50000")))
	assert.NotNil(t, manager.Current())
	assert.NoError(t, manager.RequireOpen())
}

func TestSessionOpenRejectedWhenAlreadyOpen(t *testing.T) {
	ledger := &stubLedger{}
	manager := pos.NewSessionManager(ledger, uuid.New())
	_, err := manager.Open(context.Background(), uuid.New(), dec("100"), "")
	require.NoError(t, err)

	_, err = manager.Open(context.Background(), uuid.New(), dec("100"), "")

	var state *pos.InvalidStateError
	require.ErrorAs(t, err, &state)
}

func TestSessionOpenValidation(t *testing.T) {
	ledger := &stubLedger{}
	manager := pos.NewSessionManager(ledger, uuid.New())

	_, err := manager.Open(context.Background(), uuid.Nil, dec("100"), "")
	var verr *pos.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "store_id", verr.Field)

	_, err = manager.Open(context.Background(), uuid.New(), dec("-1"), "")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "opening_amount", verr.Field)

	assert.ErrorIs(t, manager.RequireOpen(), pos.ErrSessionClosed)
}

func TestSessionOpenLedgerRejection(t *testing.T) {
	boom := errors.New("a session is already open for this user")
	ledger := &stubLedger{
		openSessionFn: func(ctx context.Context, req pos.OpenSessionRequest) (*pos.SessionSnapshot, error) {
			return nil, boom
		},
	}
	manager := pos.NewSessionManager(ledger, uuid.New())

	_, err := manager.Open(context.Background(), uuid.New(), dec("100"), "")

	assert.ErrorIs(t, err, boom)
	assert.Nil(t, manager.Current(), "a rejected open must leave the terminal closed")
}

func TestSessionClose(t *testing.T) {
	userID := uuid.New()
	var closed pos.CloseSessionRequest
	ledger := &stubLedger{
		closeSessionFn: func(ctx context.Context, req pos.CloseSessionRequest) (*pos.SessionCloseResult, error) {
			closed = req
			return &pos.SessionCloseResult{
				SessionID:     req.SessionID,
				ClosedAt:      time.Now().UTC(),
				ClosingAmount: req.ClosingAmount,
				TotalSales:    dec("21000"),
			}, nil
		},
	}
	manager := pos.NewSessionManager(ledger, userID)
	snapshot, err := manager.Open(context.Background(), uuid.New(), dec("50000"), "")
	require.NoError(t, err)

	result, err := manager.Close(context.Background(), dec("71000"))

	require.NoError(t, err)
	assert.Equal(t, snapshot.ID, closed.SessionID)
	assert.Equal(t, userID, closed.UserID)
	assert.True(t, result.TotalSales.Equal(dec("21000")))
	assert.Nil(t, manager.Current())
	assert.ErrorIs(t, manager.RequireOpen(), pos.ErrSessionClosed)
}

func TestSessionCloseWhenAlreadyClosed(t *testing.T) {
	manager := pos.NewSessionManager(&stubLedger{}, uuid.New())

	_, err := manager.Close(context.Background(), decimal.Zero)

	var state *pos.InvalidStateError
	require.ErrorAs(t, err, &state)
}

func TestSessionCloseNegativeAmount(t *testing.T) {
	manager := pos.NewSessionManager(&stubLedger{}, uuid.New())
	_, err := manager.Open(context.Background(), uuid.New(), dec("100"), "")
	require.NoError(t, err)

	_, err = manager.Close(context.Background(), dec("-5"))

	var verr *pos.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "closing_amount", verr.Field)
	assert.NotNil(t, manager.Current(), "validation failure must not close the session")
}

func TestSessionCloseLedgerFailureKeepsSession(t *testing.T) {
	boom := errors.New("ledger unavailable")
	ledger := &stubLedger{
		closeSessionFn: func(ctx context.Context, req pos.CloseSessionRequest) (*pos.SessionCloseResult, error) {
			return nil, boom
		},
	}
	manager := pos.NewSessionManager(ledger, uuid.New())
	_, err := manager.Open(context.Background(), uuid.New(), dec("100"), "")
	require.NoError(t, err)

	_, err = manager.Close(context.Background(), dec("100"))

	assert.ErrorIs(t, err, boom)
	assert.NotNil(t, manager.Current(), "a failed close leaves the session open for retry")
}

func TestSessionRefreshPicksUpExistingSession(t *testing.T) {
	userID := uuid.New()
	existing := &pos.SessionSnapshot{
		ID:            uuid.New(),
		StoreID:       uuid.New(),
		StoreName:     "Main Store",
		OpenedAt:      time.Now().UTC().Add(-2 * time.Hour),
		OpeningAmount: dec("50000"),
		TotalSales:    dec("8000"),
	}
	ledger := &stubLedger{
		currentSessionFn: func(ctx context.Context, id uuid.UUID) (*pos.SessionSnapshot, error) {
			require.Equal(t, userID, id)
			return existing, nil
		},
	}
	manager := pos.NewSessionManager(ledger, userID)

	snapshot, err := manager.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, existing.ID, snapshot.ID)
	assert.NoError(t, manager.RequireOpen())
}

func TestSessionRefreshClearsStaleSession(t *testing.T) {
	ledger := &stubLedger{}
	manager := pos.NewSessionManager(ledger, uuid.New())
	_, err := manager.Open(context.Background(), uuid.New(), dec("100"), "")
	require.NoError(t, err)

	// The ledger now reports no open session for this operator
	snapshot, err := manager.Refresh(context.Background())

	require.NoError(t, err)
	assert.Nil(t, snapshot)
	assert.ErrorIs(t, manager.RequireOpen(), pos.ErrSessionClosed)
}
