package messaging

import (
	"context"
	"time"
)

const OrderSubmittedEventType = "order_submitted"

// OrderSubmittedEvent is the checkout hand-off payload. Amounts are already
// rounded to cents.
type OrderSubmittedEvent struct {
	Type          string           `json:"type"`
	OrderID       string           `json:"order_id"`
	SubmittedAt   time.Time        `json:"submitted_at"`
	Customer      OrderCustomer    `json:"customer"`
	Shipping      OrderShipping    `json:"shipping"`
	PaymentMethod string           `json:"payment_method"`
	Cost          OrderCost        `json:"cost"`
	Items         []OrderEventItem `json:"items"`
}

type OrderCustomer struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address"`
	Notes   string `json:"notes,omitempty"`
}

type OrderShipping struct {
	Carrier string `json:"carrier"`
	Speed   string `json:"speed"`
}

type OrderCost struct {
	Subtotal            float64 `json:"subtotal"`
	VolumeDiscount      float64 `json:"volume_discount"`
	ShippingDiscount    float64 `json:"shipping_discount"`
	ShippingUpgradeCost float64 `json:"shipping_upgrade_cost"`
	PaymentUpcharge     float64 `json:"payment_upcharge"`
	Total               float64 `json:"total"`
	QPFlowerCount       int     `json:"qp_flower_count"`
}

type OrderEventItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	UnitType  string  `json:"unit_type"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// KafkaOrderNotifier publishes submitted orders to a topic keyed by order id.
type KafkaOrderNotifier struct {
	producer *KafkaProducer
	topic    string
}

func NewKafkaOrderNotifier(producer *KafkaProducer, topic string) *KafkaOrderNotifier {
	return &KafkaOrderNotifier{producer: producer, topic: topic}
}

func (n *KafkaOrderNotifier) NotifyOrderSubmitted(ctx context.Context, event *OrderSubmittedEvent) error {
	return n.producer.SendMessage(ctx, n.topic, event.OrderID, event)
}
