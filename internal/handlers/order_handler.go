package handlers

import (
	"net/http"
	"strconv"

	"storefront-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	checkoutService CheckoutServiceInterface
}

func NewOrderHandler(checkoutService CheckoutServiceInterface) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
	}
}

// @Summary List submitted orders
// @Tags orders
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} services.OrderListResponse
// @Router /api/v1/admin/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	orders, err := h.checkoutService.ListOrders(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// @Summary Get order by ID
// @Tags orders
// @Security BearerAuth
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.Order
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/admin/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.checkoutService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	orders := router.Group("/admin/orders", authMiddleware.AuthRequired(), authMiddleware.AdminRequired())
	{
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
	}
}
