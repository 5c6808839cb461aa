package pos

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Structural precondition and gating failures. These never reach the
// ledger; the operator can always retry after fixing the input.
var (
	ErrEmptyCart     = errors.New("cart has no lines")
	ErrEmptyInvoice  = errors.New("invoice must retain at least one line")
	ErrSessionClosed = errors.New("no open register session")
	ErrInvoiceVoid   = errors.New("invoice is void and cannot be modified")
	ErrNotFound      = errors.New("not found")
	ErrNotEditing    = errors.New("no invoice is being edited")
)

// ValidationError reports malformed local input. No request is sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// InvalidStateError reports an operation not permitted in the current
// session or editor state.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	return e.Reason
}

// StockWarning is advisory and recoverable: the requested quantity
// exceeds the stock figure the terminal holds. The ledger remains the
// authority; call sites may warn or block.
type StockWarning struct {
	ProductID uuid.UUID
	Requested int
	Available int
}

func (e *StockWarning) Error() string {
	return fmt.Sprintf("requested %d units of %s but only %d on hand", e.Requested, e.ProductID, e.Available)
}
