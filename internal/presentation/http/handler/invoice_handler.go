package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tiendanova/pos-api/internal/application/ledger"
	"github.com/tiendanova/pos-api/internal/domain/enum"
	"github.com/tiendanova/pos-api/internal/domain/repository"
	"github.com/tiendanova/pos-api/internal/pos"
	"github.com/tiendanova/pos-api/internal/presentation/http/dto/request"
	"github.com/tiendanova/pos-api/internal/presentation/http/dto/response"
	"github.com/tiendanova/pos-api/pkg/pagination"
)

// InvoiceHandler handles invoice viewing, editing and voiding. Line
// edits act on the operator's terminal-side working copy; only Save
// reaches the ledger.
type InvoiceHandler struct {
	terminals *pos.Registry
	ledger    *ledger.Service
}

// NewInvoiceHandler creates an invoice handler
func NewInvoiceHandler(terminals *pos.Registry, ledger *ledger.Service) *InvoiceHandler {
	return &InvoiceHandler{terminals: terminals, ledger: ledger}
}

func (h *InvoiceHandler) invoiceID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice id")
		return uuid.Nil, false
	}
	return id, true
}

// Open loads an invoice into the operator's editor
func (h *InvoiceHandler) Open(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.invoiceID(c)
	if !ok {
		return
	}

	detail, err := h.terminals.Terminal(*userID).OpenInvoice(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}

	response.OK(c, "Invoice loaded", detail)
}

// EditorState returns the working copy of the invoice under edit
func (h *InvoiceHandler) EditorState(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	response.OK(c, "Editor state retrieved", h.terminals.Terminal(*userID).EditorState())
}

// AddLine adds a product line to the working copy
func (h *InvoiceHandler) AddLine(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req request.AddInvoiceLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "A product is required")
		return
	}

	product, err := h.ledger.GetCartProduct(c.Request.Context(), req.ProductID, nil)
	if err != nil {
		if err == pos.ErrNotFound {
			response.NotFound(c, "Product not found")
			return
		}
		RespondError(c, err)
		return
	}

	state, err := h.terminals.Terminal(*userID).EditInvoice(func(e *pos.InvoiceEditor) error {
		return e.AddLine(*product)
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	response.OK(c, "Line added", state)
}

// RemoveLine removes a line from the working copy
func (h *InvoiceHandler) RemoveLine(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req request.RemoveInvoiceLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "A line index is required")
		return
	}

	state, err := h.terminals.Terminal(*userID).EditInvoice(func(e *pos.InvoiceEditor) error {
		return e.RemoveLine(req.Index)
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	response.OK(c, "Line removed", state)
}

// SetQuantity replaces a line's quantity in the working copy
func (h *InvoiceHandler) SetQuantity(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req request.SetInvoiceQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "A line index and quantity are required")
		return
	}

	state, err := h.terminals.Terminal(*userID).EditInvoice(func(e *pos.InvoiceEditor) error {
		return e.SetQuantity(req.Index, req.Quantity)
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	response.OK(c, "Quantity updated", state)
}

// SetUnitPrice overrides a line's unit price in the working copy
func (h *InvoiceHandler) SetUnitPrice(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req request.SetInvoiceUnitPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "A line index and unit price are required")
		return
	}

	state, err := h.terminals.Terminal(*userID).EditInvoice(func(e *pos.InvoiceEditor) error {
		return e.SetUnitPrice(req.Index, req.UnitPrice)
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	response.OK(c, "Unit price updated", state)
}

// SetDiscount sets a line's per-unit discount in the working copy
func (h *InvoiceHandler) SetDiscount(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req request.SetInvoiceDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "A line index and discount are required")
		return
	}

	state, err := h.terminals.Terminal(*userID).EditInvoice(func(e *pos.InvoiceEditor) error {
		return e.SetDiscount(req.Index, req.Discount)
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	response.OK(c, "Discount updated", state)
}

// SetPaymentMethod changes the payment method recorded on save
func (h *InvoiceHandler) SetPaymentMethod(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req request.SetInvoicePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "A payment method is required")
		return
	}

	state, err := h.terminals.Terminal(*userID).EditInvoice(func(e *pos.InvoiceEditor) error {
		return e.SetPaymentMethod(req.PaymentMethod)
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	response.OK(c, "Payment method updated", state)
}

// Save persists the working copy as a replace-style update
func (h *InvoiceHandler) Save(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	detail, err := h.terminals.Terminal(*userID).SaveInvoice(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}

	response.OK(c, "Invoice updated", detail)
}

// Void annuls the loaded invoice
func (h *InvoiceHandler) Void(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	detail, err := h.terminals.Terminal(*userID).VoidInvoice(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}

	response.OK(c, "Invoice voided", detail)
}

// AuditLog returns the loaded invoice's change history
func (h *InvoiceHandler) AuditLog(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	entries, err := h.terminals.Terminal(*userID).InvoiceAuditLog(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}

	response.OK(c, "Audit log retrieved", entries)
}

// Recent returns today's non-void invoices for the sale screen
func (h *InvoiceHandler) Recent(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var storeID *uuid.UUID
	if session := h.terminals.Terminal(*userID).CurrentSession(); session != nil {
		storeID = &session.StoreID
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	summaries, err := h.ledger.RecentInvoices(c.Request.Context(), storeID, limit)
	if err != nil {
		RespondError(c, err)
		return
	}

	response.OK(c, "Recent invoices retrieved", summaries)
}

// List returns invoices matching the filters, paginated
func (h *InvoiceHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	params := &repository.InvoiceFilterParams{
		Pagination: bindPagination(c),
		Search:     c.Query("search"),
	}

	switch c.Query("status") {
	case "paid":
		status := enum.InvoiceStatusPaid
		params.Status = &status
	case "void":
		status := enum.InvoiceStatusVoid
		params.Status = &status
	}

	if raw := c.Query("store_id"); raw != "" {
		storeID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid store id")
			return
		}
		params.StoreID = &storeID
	}
	if raw := c.Query("start_date"); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
			return
		}
		params.StartDate = &start
	}
	if raw := c.Query("end_date"); raw != "" {
		end, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(c, "Invalid end date, expected YYYY-MM-DD")
			return
		}
		end = end.Add(24 * time.Hour)
		params.EndDate = &end
	}

	summaries, total, err := h.ledger.ListInvoices(c.Request.Context(), params)
	if err != nil {
		RespondError(c, err)
		return
	}

	meta := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	response.SuccessWithPagination(c, 200, "Invoices retrieved", pagination.NewPaginatedResult(summaries, meta))
}

// ExportCSV streams the day's invoices as a CSV download
func (h *InvoiceHandler) ExportCSV(c *gin.Context) {
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
	start := day.Truncate(24 * time.Hour)
	end := start.Add(24 * time.Hour)

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="invoices-`+start.Format("2006-01-02")+`.csv"`)

	err := h.ledger.ExportInvoicesCSV(c.Request.Context(), c.Writer, &repository.InvoiceFilterParams{
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		RespondError(c, err)
	}
}
