package pos

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionManager owns the terminal's view of the register session and
// gates every transactional operation. The in-memory snapshot is an
// optimistic copy: Open and Close go through the ledger, and Refresh
// re-syncs after a restart.
type SessionManager struct {
	ledger Ledger
	userID uuid.UUID
	tokens requestTokens

	current *SessionSnapshot
}

// NewSessionManager creates a session manager for an operator
func NewSessionManager(ledger Ledger, userID uuid.UUID) *SessionManager {
	return &SessionManager{ledger: ledger, userID: userID}
}

// Current returns the open session snapshot, or nil when closed
func (m *SessionManager) Current() *SessionSnapshot {
	return m.current
}

// RequireOpen fails with ErrSessionClosed when no session is open.
// Callers that are about to issue a ledger request must call this
// immediately before doing so, not only at the start of the action.
func (m *SessionManager) RequireOpen() error {
	if m.current == nil {
		return ErrSessionClosed
	}
	return nil
}

// Refresh re-syncs the snapshot from the ledger. A session opened in a
// previous process, or closed elsewhere, is picked up here.
func (m *SessionManager) Refresh(ctx context.Context) (*SessionSnapshot, error) {
	token := m.tokens.next()
	snapshot, err := m.ledger.CurrentSession(ctx, m.userID)
	if err != nil {
		return nil, err
	}
	if m.tokens.isCurrent(token) {
		m.current = snapshot
	}
	return m.current, nil
}

// Open opens a register session for a store. It fails with an
// InvalidStateError when a session is already open and with a
// ValidationError on missing store or negative opening amount. The
// ledger's echo carries the canonical opening timestamp.
func (m *SessionManager) Open(ctx context.Context, storeID uuid.UUID, openingAmount decimal.Decimal, notes string) (*SessionSnapshot, error) {
	if m.current != nil {
		return nil, &InvalidStateError{Reason: "a register session is already open; close it before opening a new one"}
	}
	if storeID == uuid.Nil {
		return nil, NewValidationError("store_id", "a store must be selected to open the register")
	}
	if openingAmount.IsNegative() {
		return nil, NewValidationError("opening_amount", "must be a non-negative amount")
	}

	token := m.tokens.next()
	snapshot, err := m.ledger.OpenSession(ctx, OpenSessionRequest{
		UserID:        m.userID,
		StoreID:       storeID,
		OpeningAmount: openingAmount,
		Notes:         notes,
	})
	if err != nil {
		return nil, err
	}
	if m.tokens.isCurrent(token) {
		m.current = snapshot
	}
	return snapshot, nil
}

// Close closes the open session. The in-memory session is discarded on
// success; a closed session is not reopenable.
func (m *SessionManager) Close(ctx context.Context, closingAmount decimal.Decimal) (*SessionCloseResult, error) {
	if m.current == nil {
		return nil, &InvalidStateError{Reason: "the register session is already closed"}
	}
	if closingAmount.IsNegative() {
		return nil, NewValidationError("closing_amount", "must be a non-negative amount")
	}

	token := m.tokens.next()
	result, err := m.ledger.CloseSession(ctx, CloseSessionRequest{
		SessionID:     m.current.ID,
		UserID:        m.userID,
		ClosingAmount: closingAmount,
	})
	if err != nil {
		return nil, err
	}
	if m.tokens.isCurrent(token) {
		m.current = nil
	}
	return result, nil
}
