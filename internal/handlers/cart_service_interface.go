package handlers

import (
	"context"

	"storefront-backend/internal/models"
	"storefront-backend/internal/services"
)

// CartServiceInterface defines the contract for cart service
type CartServiceInterface interface {
	GetCart(ctx context.Context, sessionID string) (*services.CartResponse, error)
	AddToCart(ctx context.Context, sessionID string, req *services.AddToCartRequest) (*services.CartResponse, error)
	UpdateCartItem(ctx context.Context, sessionID, itemID string, quantity int) (*services.CartResponse, error)
	RemoveFromCart(ctx context.Context, sessionID, itemID string) (*services.CartResponse, error)
	ClearCart(ctx context.Context, sessionID string) error
	LoadCart(ctx context.Context, sessionID string, items []models.LineItem) (*services.CartResponse, error)
	SetShipping(ctx context.Context, sessionID string, carrier models.ShippingCarrier, speed models.ShippingSpeed) (*services.CartResponse, error)
	SetPayment(ctx context.Context, sessionID string, method models.PaymentMethod) (*services.CartResponse, error)
	GetCostBreakdown(ctx context.Context, sessionID string) (*models.CostBreakdown, error)
}

// CheckoutServiceInterface defines the contract for checkout and order lookup
type CheckoutServiceInterface interface {
	Checkout(ctx context.Context, sessionID string, req *services.CheckoutRequest) (*services.CheckoutResponse, error)
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	ListOrders(ctx context.Context, limit, offset int) (*services.OrderListResponse, error)
}
