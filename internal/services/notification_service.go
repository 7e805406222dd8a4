package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"storefront-backend/pkg/messaging"
	"storefront-backend/pkg/money"

	"go.uber.org/zap"
)

// MessageSink delivers a formatted order message to the shop's staff.
type MessageSink interface {
	Deliver(ctx context.Context, orderID, text string) error
}

// LogSink writes order messages to the structured log.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Deliver(ctx context.Context, orderID, text string) error {
	s.logger.Info("new order", zap.String("order_id", orderID), zap.String("message", text))
	return nil
}

// OrderNotificationService consumes order_submitted events and turns them
// into staff messages.
type OrderNotificationService struct {
	sink   MessageSink
	logger *zap.Logger
}

func NewOrderNotificationService(sink MessageSink, logger *zap.Logger) *OrderNotificationService {
	return &OrderNotificationService{sink: sink, logger: logger}
}

// HandleMessage is the kafka consumer callback.
func (s *OrderNotificationService) HandleMessage(ctx context.Context, data []byte) error {
	var event messaging.OrderSubmittedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("decode order event: %w", err)
	}
	if event.Type != messaging.OrderSubmittedEventType {
		s.logger.Debug("ignoring event", zap.String("type", event.Type))
		return nil
	}
	if event.OrderID == "" {
		return fmt.Errorf("order event without order id")
	}

	return s.sink.Deliver(ctx, event.OrderID, FormatOrderMessage(&event))
}

// FormatOrderMessage renders an order as plain text for staff.
func FormatOrderMessage(event *messaging.OrderSubmittedEvent) string {
	var b strings.Builder

	fmt.Fprintf(&b, "New order %s\n", event.OrderID)
	if !event.SubmittedAt.IsZero() {
		fmt.Fprintf(&b, "Submitted: %s\n", event.SubmittedAt.UTC().Format("2006-01-02 15:04 MST"))
	}

	b.WriteString("\nCustomer\n")
	fmt.Fprintf(&b, "Name: %s\n", event.Customer.Name)
	if event.Customer.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", event.Customer.Email)
	}
	if event.Customer.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", event.Customer.Phone)
	}
	fmt.Fprintf(&b, "Address: %s\n", event.Customer.Address)
	if event.Customer.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", event.Customer.Notes)
	}

	b.WriteString("\nItems\n")
	for _, item := range event.Items {
		fmt.Fprintf(&b, "- %s x%d @ $%s = $%s\n",
			item.Name,
			item.Quantity,
			money.Format(item.UnitPrice),
			money.Format(item.UnitPrice*float64(item.Quantity)))
	}

	fmt.Fprintf(&b, "\nShipping: %s %s\n", strings.ToUpper(event.Shipping.Carrier), event.Shipping.Speed)
	fmt.Fprintf(&b, "Payment: %s\n", event.PaymentMethod)

	cost := event.Cost
	b.WriteString("\nCost\n")
	fmt.Fprintf(&b, "Subtotal: $%s\n", money.Format(cost.Subtotal))
	if cost.VolumeDiscount > 0 {
		fmt.Fprintf(&b, "Volume discount: -$%s\n", money.Format(cost.VolumeDiscount))
	}
	if cost.ShippingDiscount > 0 {
		fmt.Fprintf(&b, "Shipping discount (%d QP): -$%s\n", cost.QPFlowerCount, money.Format(cost.ShippingDiscount))
	}
	if cost.ShippingUpgradeCost > 0 {
		fmt.Fprintf(&b, "Shipping upgrade: +$%s\n", money.Format(cost.ShippingUpgradeCost))
	}
	if cost.PaymentUpcharge > 0 {
		fmt.Fprintf(&b, "Processing fee: +$%s\n", money.Format(cost.PaymentUpcharge))
	}
	fmt.Fprintf(&b, "Total: $%s", money.Format(cost.Total))

	return b.String()
}
