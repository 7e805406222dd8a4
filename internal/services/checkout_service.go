package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-backend/internal/models"
	"storefront-backend/internal/repositories"
	"storefront-backend/pkg/messaging"
	"storefront-backend/pkg/money"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderNotifier hands a submitted order to the fulfilment side.
type OrderNotifier interface {
	NotifyOrderSubmitted(ctx context.Context, event *messaging.OrderSubmittedEvent) error
}

type CheckoutService struct {
	sessions  *CartSessions
	orderRepo repositories.OrderRepository
	notifier  OrderNotifier
	logger    *zap.Logger
	now       func() time.Time
}

func NewCheckoutService(
	sessions *CartSessions,
	orderRepo repositories.OrderRepository,
	notifier OrderNotifier,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		sessions:  sessions,
		orderRepo: orderRepo,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

type CheckoutRequest struct {
	CustomerName string `json:"customer_name" binding:"required"`
	Email        string `json:"email" binding:"omitempty,email"`
	Phone        string `json:"phone"`
	Address      string `json:"address" binding:"required"`
	Notes        string `json:"notes"`
}

type CheckoutResponse struct {
	OrderID   string               `json:"order_id"`
	Status    string               `json:"status"`
	Breakdown models.CostBreakdown `json:"breakdown"`
}

type OrderListResponse struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// ValidateSelections is the checkout gate. Carrier, speed and payment method
// must be present, and must be values the store actually offers.
func ValidateSelections(state models.CartState) error {
	if len(state.Items) == 0 {
		return ErrEmptyCart
	}
	if state.ShippingCarrier == "" || state.ShippingSpeed == "" {
		return ErrShippingNotSelected
	}
	if state.PaymentMethod == "" {
		return ErrPaymentNotSelected
	}
	if !models.IsValidCarrier(state.ShippingCarrier) {
		return fmt.Errorf("%w: unknown carrier %q", ErrInvalidSelection, state.ShippingCarrier)
	}
	if !models.IsValidSpeed(state.ShippingCarrier, state.ShippingSpeed) {
		return fmt.Errorf("%w: carrier %q does not offer %q", ErrInvalidSelection, state.ShippingCarrier, state.ShippingSpeed)
	}
	if !models.IsValidPaymentMethod(state.PaymentMethod) {
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidSelection, state.PaymentMethod)
	}
	return nil
}

func validateLinePrices(items []models.LineItem) error {
	for _, item := range items {
		if item.UnitPrice <= 0 {
			return fmt.Errorf("%w: %q", ErrUnpricedItem, item.ID)
		}
	}
	return nil
}

// Checkout prices the session's cart on the server, records the order, hands
// it off to the notifier and takes the ordered lines out of the cart. The cart
// is kept when the hand-off fails so the customer can retry. Checkouts of one
// session run one at a time.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string, req *CheckoutRequest) (*CheckoutResponse, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	store := s.sessions.Get(ctx, sessionID)
	store.checkoutMu.Lock()
	defer store.checkoutMu.Unlock()

	state, breakdown := store.SnapshotWithBreakdown()

	if err := ValidateSelections(state); err != nil {
		return nil, err
	}
	if err := validateLinePrices(state.Items); err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:                  uuid.New(),
		SessionID:           sessionID,
		CustomerName:        strings.TrimSpace(req.CustomerName),
		CustomerEmail:       strings.TrimSpace(req.Email),
		CustomerPhone:       strings.TrimSpace(req.Phone),
		ShippingAddress:     strings.TrimSpace(req.Address),
		Notes:               req.Notes,
		ShippingCarrier:     string(state.ShippingCarrier),
		ShippingSpeed:       string(state.ShippingSpeed),
		PaymentMethod:       string(state.PaymentMethod),
		Items:               models.LineItems(state.Items),
		Subtotal:            breakdown.Subtotal,
		VolumeDiscount:      breakdown.VolumeDiscount,
		ShippingDiscount:    breakdown.ShippingDiscount,
		ShippingUpgradeCost: breakdown.ShippingUpgradeCost,
		PaymentUpcharge:     breakdown.PaymentUpcharge,
		Total:               breakdown.Total,
		QPFlowerCount:       breakdown.QPFlowerCount,
		Status:              models.OrderStatusSubmitted,
		CreatedAt:           s.now(),
		UpdatedAt:           s.now(),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	event := buildOrderSubmittedEvent(order)
	if err := s.notifier.NotifyOrderSubmitted(ctx, event); err != nil {
		s.logger.Error("order notification failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
		if statusErr := s.orderRepo.UpdateStatus(ctx, order.ID, models.OrderStatusNotificationFailed); statusErr != nil {
			s.logger.Error("failed to mark order", zap.String("order_id", order.ID.String()), zap.Error(statusErr))
		}
		return nil, fmt.Errorf("%w: %v", ErrNotifyFailed, err)
	}

	store.RemoveOrdered(ctx, state.Items)

	s.logger.Info("order submitted",
		zap.String("order_id", order.ID.String()),
		zap.String("session_id", sessionID),
		zap.Float64("total", money.Round(breakdown.Total)),
		zap.String("payment_method", order.PaymentMethod))

	return &CheckoutResponse{
		OrderID:   order.ID.String(),
		Status:    order.Status,
		Breakdown: breakdown,
	}, nil
}

func buildOrderSubmittedEvent(order *models.Order) *messaging.OrderSubmittedEvent {
	cost := money.RoundBreakdown(order.Breakdown())

	items := make([]messaging.OrderEventItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, messaging.OrderEventItem{
			ID:        item.ID,
			Name:      item.Name,
			Category:  item.Category,
			UnitType:  string(item.UnitType),
			UnitPrice: money.Round(item.UnitPrice),
			Quantity:  item.Quantity,
		})
	}

	return &messaging.OrderSubmittedEvent{
		Type:        messaging.OrderSubmittedEventType,
		OrderID:     order.ID.String(),
		SubmittedAt: order.CreatedAt,
		Customer: messaging.OrderCustomer{
			Name:    order.CustomerName,
			Email:   order.CustomerEmail,
			Phone:   order.CustomerPhone,
			Address: order.ShippingAddress,
			Notes:   order.Notes,
		},
		Shipping: messaging.OrderShipping{
			Carrier: order.ShippingCarrier,
			Speed:   order.ShippingSpeed,
		},
		PaymentMethod: order.PaymentMethod,
		Cost: messaging.OrderCost{
			Subtotal:            cost.Subtotal,
			VolumeDiscount:      cost.VolumeDiscount,
			ShippingDiscount:    cost.ShippingDiscount,
			ShippingUpgradeCost: cost.ShippingUpgradeCost,
			PaymentUpcharge:     cost.PaymentUpcharge,
			Total:               cost.Total,
			QPFlowerCount:       cost.QPFlowerCount,
		},
		Items: items,
	}
}

func (s *CheckoutService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, ErrInvalidOrderID
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *CheckoutService) ListOrders(ctx context.Context, limit, offset int) (*OrderListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	orders, total, err := s.orderRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}

	return &OrderListResponse{
		Orders: orders,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}
