package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tiendanova/pos-api/internal/pos"
	"github.com/tiendanova/pos-api/internal/presentation/http/dto/request"
	"github.com/tiendanova/pos-api/internal/presentation/http/dto/response"
)

// SessionHandler handles register session endpoints. Each operator acts
// through their own terminal from the registry.
type SessionHandler struct {
	terminals *pos.Registry
}

// NewSessionHandler creates a session handler
func NewSessionHandler(terminals *pos.Registry) *SessionHandler {
	return &SessionHandler{terminals: terminals}
}

// Open opens a register session for a store
func (h *SessionHandler) Open(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req request.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "A store and opening amount are required")
		return
	}

	terminal := h.terminals.Terminal(*userID)
	snapshot, err := terminal.OpenSession(c.Request.Context(), req.StoreID, req.OpeningAmount, req.Notes)
	if err != nil {
		RespondError(c, err)
		return
	}

	response.Created(c, "Register session opened", snapshot)
}

// Close closes the open register session
func (h *SessionHandler) Close(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req request.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "A closing amount is required")
		return
	}

	terminal := h.terminals.Terminal(*userID)
	result, err := terminal.CloseSession(c.Request.Context(), req.ClosingAmount)
	if err != nil {
		RespondError(c, err)
		return
	}

	response.OK(c, "Register session closed", result)
}

// Current returns the operator's session, re-synced from the ledger so
// a session opened before a restart is picked up
func (h *SessionHandler) Current(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	terminal := h.terminals.Terminal(*userID)
	snapshot, err := terminal.RefreshSession(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	if snapshot == nil {
		response.OK(c, "No open register session", nil)
		return
	}

	response.OK(c, "Current session retrieved", snapshot)
}
