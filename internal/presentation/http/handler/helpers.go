package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tiendanova/pos-api/internal/pos"
	"github.com/tiendanova/pos-api/internal/presentation/http/dto/response"
	"github.com/tiendanova/pos-api/pkg/apperror"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUsername extracts the username from the Gin context
func GetUsername(c *gin.Context) string {
	username, exists := c.Get("username")
	if !exists {
		return ""
	}
	return username.(string)
}

// RespondError maps domain errors onto HTTP responses. Terminal-side
// gating errors become client errors; everything unrecognized falls
// through as an internal error.
func RespondError(c *gin.Context, err error) {
	var validation *pos.ValidationError
	var invalidState *pos.InvalidStateError
	var stock *pos.StockWarning

	switch {
	case apperror.IsAppError(err):
		response.Error(c, err)
	case errors.Is(err, pos.ErrNotFound):
		response.NotFound(c, "Invoice not found")
	case errors.Is(err, pos.ErrSessionClosed):
		response.ErrorWithCode(c, http.StatusConflict, "No open register session")
	case errors.Is(err, pos.ErrInvoiceVoid):
		response.ErrorWithCode(c, http.StatusConflict, "The invoice is void and cannot be modified")
	case errors.Is(err, pos.ErrNotEditing):
		response.ErrorWithCode(c, http.StatusConflict, "No invoice is loaded for editing")
	case errors.Is(err, pos.ErrEmptyCart):
		response.BadRequest(c, "The cart is empty")
	case errors.Is(err, pos.ErrEmptyInvoice):
		response.BadRequest(c, "An invoice must keep at least one line")
	case errors.As(err, &validation):
		response.ErrorWithCode(c, http.StatusUnprocessableEntity, validation.Error())
	case errors.As(err, &invalidState):
		response.ErrorWithCode(c, http.StatusConflict, invalidState.Error())
	case errors.As(err, &stock):
		response.ErrorWithCode(c, http.StatusConflict, stock.Error())
	default:
		response.Error(c, err)
	}
}
