package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tiendanova/pos-api/internal/pos"
	"github.com/tiendanova/pos-api/internal/presentation/http/dto/response"
)

// ReportHandler handles the closing report endpoint
type ReportHandler struct {
	terminals *pos.Registry
}

// NewReportHandler creates a report handler
func NewReportHandler(terminals *pos.Registry) *ReportHandler {
	return &ReportHandler{terminals: terminals}
}

// Closing builds the end-of-day reconciliation report. The day defaults
// to today; a store_id narrows the report to one store.
func (h *ReportHandler) Closing(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	day := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	var storeID *uuid.UUID
	if raw := c.Query("store_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid store id")
			return
		}
		storeID = &parsed
	}

	report, err := h.terminals.Terminal(*userID).ClosingReport(c.Request.Context(), day, storeID)
	if err != nil {
		RespondError(c, err)
		return
	}

	response.OK(c, "Closing report generated", report)
}
