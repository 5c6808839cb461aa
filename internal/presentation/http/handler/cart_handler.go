package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tiendanova/pos-api/internal/application/ledger"
	"github.com/tiendanova/pos-api/internal/pos"
	"github.com/tiendanova/pos-api/internal/presentation/http/dto/request"
	"github.com/tiendanova/pos-api/internal/presentation/http/dto/response"
)

// CartHandler handles the in-progress cart and checkout endpoints
type CartHandler struct {
	terminals *pos.Registry
	ledger    *ledger.Service
}

// NewCartHandler creates a cart handler
func NewCartHandler(terminals *pos.Registry, ledger *ledger.Service) *CartHandler {
	return &CartHandler{terminals: terminals, ledger: ledger}
}

// State returns the current cart snapshot
func (h *CartHandler) State(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	response.OK(c, "Cart retrieved", h.terminals.Terminal(*userID).CartState())
}

// AddLine adds a product to the cart. The stock figure attached to the
// line is advisory; the ledger re-validates at checkout.
func (h *CartHandler) AddLine(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req request.AddCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "A product is required")
		return
	}

	terminal := h.terminals.Terminal(*userID)

	var storeID *uuid.UUID
	if session := terminal.CurrentSession(); session != nil {
		storeID = &session.StoreID
	}
	product, err := h.ledger.GetCartProduct(c.Request.Context(), req.ProductID, storeID)
	if err != nil {
		if err == pos.ErrNotFound {
			response.NotFound(c, "Product not found")
			return
		}
		RespondError(c, err)
		return
	}

	state := terminal.AddToCart(*product, req.Quantity)
	response.OK(c, "Product added to cart", state)
}

// RemoveLine removes a product's line from the cart
func (h *CartHandler) RemoveLine(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		response.BadRequest(c, "Invalid product id")
		return
	}

	state := h.terminals.Terminal(*userID).RemoveFromCart(productID)
	response.OK(c, "Product removed from cart", state)
}

// SetQuantity replaces a cart line's quantity
func (h *CartHandler) SetQuantity(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req request.SetCartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "A product and quantity are required")
		return
	}

	state, err := h.terminals.Terminal(*userID).SetCartQuantity(req.ProductID, req.Quantity)
	if err != nil {
		RespondError(c, err)
		return
	}

	response.OK(c, "Quantity updated", state)
}

// SetDiscount sets a cart line's per-unit discount
func (h *CartHandler) SetDiscount(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req request.SetCartDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "A product and discount are required")
		return
	}

	state, err := h.terminals.Terminal(*userID).SetCartDiscount(req.ProductID, req.Discount)
	if err != nil {
		RespondError(c, err)
		return
	}

	response.OK(c, "Discount updated", state)
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	state := h.terminals.Terminal(*userID).ClearCart()
	response.OK(c, "Cart cleared", state)
}

// Checkout submits the cart as a sale
func (h *CartHandler) Checkout(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid checkout payload")
		return
	}

	detail, err := h.terminals.Terminal(*userID).Checkout(c.Request.Context(), req.CustomerID, req.PaymentMethod)
	if err != nil {
		RespondError(c, err)
		return
	}

	response.Created(c, "Sale completed", detail)
}
