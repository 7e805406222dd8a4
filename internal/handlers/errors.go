package handlers

import (
	"errors"
	"net/http"

	"storefront-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type errorMapping struct {
	err    error
	status int
	title  string
}

var serviceErrors = []errorMapping{
	{services.ErrSessionRequired, http.StatusUnauthorized, "Session required"},
	{services.ErrEmptyCart, http.StatusUnprocessableEntity, "Cart is empty"},
	{services.ErrShippingNotSelected, http.StatusUnprocessableEntity, "Shipping not selected"},
	{services.ErrPaymentNotSelected, http.StatusUnprocessableEntity, "Payment not selected"},
	{services.ErrInvalidSelection, http.StatusUnprocessableEntity, "Invalid selection"},
	{services.ErrInvalidQuantity, http.StatusBadRequest, "Invalid quantity"},
	{services.ErrUnpricedItem, http.StatusUnprocessableEntity, "Invalid cart item"},
	{services.ErrInvalidProductID, http.StatusBadRequest, "Invalid product ID"},
	{services.ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{services.ErrProductUnavailable, http.StatusConflict, "Product unavailable"},
	{services.ErrVariantUnavailable, http.StatusConflict, "Variant unavailable"},
	{services.ErrInvalidProduct, http.StatusBadRequest, "Invalid product"},
	{services.ErrInvalidOrderID, http.StatusBadRequest, "Invalid order ID"},
	{services.ErrOrderNotFound, http.StatusNotFound, "Order not found"},
	{services.ErrNotifyFailed, http.StatusBadGateway, "Order could not be submitted"},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{services.ErrInvalidToken, http.StatusUnauthorized, "Invalid token"},
	{services.ErrInvalidAdminID, http.StatusBadRequest, "Invalid admin ID"},
	{services.ErrAdminNotFound, http.StatusNotFound, "Admin not found"},
	{services.ErrAdminExists, http.StatusConflict, "Admin already exists"},
	{services.ErrCannotDeleteSelf, http.StatusForbidden, "Cannot delete self"},
}

// respondError maps service errors to HTTP statuses. Anything unrecognised is
// a 500 and its text is not exposed to the client.
func respondError(c *gin.Context, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			c.JSON(m.status, ErrorResponse{
				Error:   m.title,
				Message: err.Error(),
			})
			return
		}
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "Internal server error",
		Message: "Something went wrong",
	})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Invalid request",
		Message: err.Error(),
	})
}
