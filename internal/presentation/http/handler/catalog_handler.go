package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tiendanova/pos-api/internal/application/ledger"
	"github.com/tiendanova/pos-api/internal/application/service"
	"github.com/tiendanova/pos-api/internal/domain/entity"
	"github.com/tiendanova/pos-api/internal/pos"
	"github.com/tiendanova/pos-api/internal/presentation/http/dto/request"
	"github.com/tiendanova/pos-api/internal/presentation/http/dto/response"
	"github.com/tiendanova/pos-api/pkg/pagination"
)

// CatalogHandler handles stores, products and customers
type CatalogHandler struct {
	catalog   *service.CatalogService
	ledger    *ledger.Service
	terminals *pos.Registry
}

// NewCatalogHandler creates a catalog handler
func NewCatalogHandler(catalog *service.CatalogService, ledger *ledger.Service, terminals *pos.Registry) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, ledger: ledger, terminals: terminals}
}

func bindPagination(c *gin.Context) *pagination.PaginationParams {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()
	return params
}

// ListStores returns every store
func (h *CatalogHandler) ListStores(c *gin.Context) {
	stores, err := h.catalog.ListStores(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}

	response.OK(c, "Stores retrieved", stores)
}

// ListProducts returns products matching the search, paginated
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	params := bindPagination(c)
	search := c.Query("search")

	products, total, err := h.catalog.ListProducts(c.Request.Context(), search, params)
	if err != nil {
		RespondError(c, err)
		return
	}

	meta := pagination.NewPagination(params.Page, params.PerPage, total)
	response.SuccessWithPagination(c, 200, "Products retrieved", pagination.NewPaginatedResult(products, meta))
}

// SearchProducts matches products for the sale screen. Stock figures
// come from the operator's session store when one is open.
func (h *CatalogHandler) SearchProducts(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	session := h.terminals.Terminal(*userID).CurrentSession()
	if session == nil {
		RespondError(c, pos.ErrSessionClosed)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	products, err := h.ledger.SearchProducts(c.Request.Context(), session.StoreID, c.Query("q"), limit)
	if err != nil {
		RespondError(c, err)
		return
	}

	response.OK(c, "Products retrieved", products)
}

// ListCustomers returns customers matching the search, paginated
func (h *CatalogHandler) ListCustomers(c *gin.Context) {
	params := bindPagination(c)
	search := c.Query("search")

	customers, total, err := h.catalog.ListCustomers(c.Request.Context(), search, params)
	if err != nil {
		RespondError(c, err)
		return
	}

	meta := pagination.NewPagination(params.Page, params.PerPage, total)
	response.SuccessWithPagination(c, 200, "Customers retrieved", pagination.NewPaginatedResult(customers, meta))
}

// CreateCustomer registers a customer for named invoices
func (h *CatalogHandler) CreateCustomer(c *gin.Context) {
	var req request.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "A customer name is required")
		return
	}

	customer := &entity.Customer{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Document: req.Document,
	}
	if err := h.catalog.CreateCustomer(c.Request.Context(), customer); err != nil {
		RespondError(c, err)
		return
	}

	response.Created(c, "Customer created", customer)
}
