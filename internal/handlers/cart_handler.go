package handlers

import (
	"net/http"

	"storefront-backend/internal/middleware"
	"storefront-backend/internal/models"
	"storefront-backend/internal/services"
	"storefront-backend/pkg/money"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	cartService     CartServiceInterface
	checkoutService CheckoutServiceInterface
}

func NewCartHandler(cartService CartServiceInterface, checkoutService CheckoutServiceInterface) *CartHandler {
	return &CartHandler{
		cartService:     cartService,
		checkoutService: checkoutService,
	}
}

// RegisterRoutes registers the routes for cart management
func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/checkout-options", h.GetCheckoutOptions)

	// All cart routes require a guest session
	cart := router.Group("/cart", authMiddleware.SessionRequired())
	{
		cart.GET("", h.GetCart)
		cart.DELETE("", h.ClearCart)
		cart.POST("/items", h.AddToCart)
		// Replace the whole item list
		cart.PUT("/items", h.LoadCart)
		cart.PUT("/items/:item_id", h.UpdateCartItem)
		cart.DELETE("/items/:item_id", h.RemoveFromCart)
		cart.PUT("/shipping", h.SetShipping)
		cart.PUT("/payment", h.SetPayment)
		cart.GET("/summary", h.GetSummary)
		cart.POST("/checkout", h.Checkout)
	}
}

// presentCart rounds every amount to cents for display.
func presentCart(resp *services.CartResponse) *services.CartResponse {
	cart := resp.Cart
	cart.TotalPrice = money.Round(cart.TotalPrice)
	return &services.CartResponse{
		Cart:      cart,
		Breakdown: money.RoundBreakdown(resp.Breakdown),
	}
}

// GetCart godoc
// @Summary Get the session's cart
// @Tags cart
// @Produce json
// @Success 200 {object} services.CartResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.cartService.GetCart(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, presentCart(cart))
}

// AddToCart godoc
// @Summary Add a product variant to the cart
// @Tags cart
// @Accept json
// @Produce json
// @Param request body services.AddToCartRequest true "Add to cart request"
// @Success 200 {object} services.CartResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/cart/items [post]
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req services.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cart, err := h.cartService.AddToCart(c.Request.Context(), middleware.GetSessionID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, presentCart(cart))
}

// LoadCart godoc
// @Summary Replace the cart's item list
// @Tags cart
// @Accept json
// @Produce json
// @Param request body services.LoadCartRequest true "Items"
// @Success 200 {object} services.CartResponse
// @Router /api/v1/cart/items [put]
func (h *CartHandler) LoadCart(c *gin.Context) {
	var req services.LoadCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cart, err := h.cartService.LoadCart(c.Request.Context(), middleware.GetSessionID(c), req.Items)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, presentCart(cart))
}

// UpdateCartItem godoc
// @Summary Set a line quantity; zero or less removes the line
// @Tags cart
// @Accept json
// @Produce json
// @Param item_id path string true "Line item ID"
// @Param request body services.UpdateCartItemRequest true "Quantity"
// @Success 200 {object} services.CartResponse
// @Router /api/v1/cart/items/{item_id} [put]
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req services.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cart, err := h.cartService.UpdateCartItem(c.Request.Context(), middleware.GetSessionID(c), c.Param("item_id"), *req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, presentCart(cart))
}

// RemoveFromCart godoc
// @Summary Remove a line from the cart
// @Tags cart
// @Produce json
// @Param item_id path string true "Line item ID"
// @Success 200 {object} services.CartResponse
// @Router /api/v1/cart/items/{item_id} [delete]
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	cart, err := h.cartService.RemoveFromCart(c.Request.Context(), middleware.GetSessionID(c), c.Param("item_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, presentCart(cart))
}

// ClearCart godoc
// @Summary Empty the cart
// @Tags cart
// @Success 200 {object} map[string]string
// @Router /api/v1/cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.ClearCart(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully"})
}

// SetShipping godoc
// @Summary Select carrier and speed
// @Tags cart
// @Accept json
// @Produce json
// @Param request body services.SetShippingRequest true "Shipping selection"
// @Success 200 {object} services.CartResponse
// @Router /api/v1/cart/shipping [put]
func (h *CartHandler) SetShipping(c *gin.Context) {
	var req services.SetShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cart, err := h.cartService.SetShipping(c.Request.Context(), middleware.GetSessionID(c), req.Carrier, req.Speed)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, presentCart(cart))
}

// SetPayment godoc
// @Summary Select a payment method
// @Tags cart
// @Accept json
// @Produce json
// @Param request body services.SetPaymentRequest true "Payment selection"
// @Success 200 {object} services.CartResponse
// @Router /api/v1/cart/payment [put]
func (h *CartHandler) SetPayment(c *gin.Context) {
	var req services.SetPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cart, err := h.cartService.SetPayment(c.Request.Context(), middleware.GetSessionID(c), req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, presentCart(cart))
}

// GetSummary godoc
// @Summary Get the cost breakdown
// @Tags cart
// @Produce json
// @Success 200 {object} models.CostBreakdown
// @Router /api/v1/cart/summary [get]
func (h *CartHandler) GetSummary(c *gin.Context) {
	breakdown, err := h.cartService.GetCostBreakdown(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, money.RoundBreakdown(*breakdown))
}

// Checkout godoc
// @Summary Submit the cart as an order
// @Tags cart
// @Accept json
// @Produce json
// @Param request body services.CheckoutRequest true "Customer details"
// @Success 201 {object} services.CheckoutResponse
// @Failure 422 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/cart/checkout [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.checkoutService.Checkout(c.Request.Context(), middleware.GetSessionID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, services.CheckoutResponse{
		OrderID:   resp.OrderID,
		Status:    resp.Status,
		Breakdown: money.RoundBreakdown(resp.Breakdown),
	})
}

type checkoutOptions struct {
	Carriers       map[models.ShippingCarrier][]models.ShippingSpeed `json:"carriers"`
	PaymentMethods []models.PaymentMethod                            `json:"payment_methods"`
}

// GetCheckoutOptions godoc
// @Summary List carriers, their speeds and payment methods
// @Tags cart
// @Produce json
// @Router /api/v1/checkout-options [get]
func (h *CartHandler) GetCheckoutOptions(c *gin.Context) {
	c.JSON(http.StatusOK, checkoutOptions{
		Carriers:       models.CarrierSpeeds,
		PaymentMethods: models.PaymentMethods,
	})
}
