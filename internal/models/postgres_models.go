package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// LineItems is stored as a jsonb array on orders.
type LineItems []LineItem

func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]LineItem{})
	}
	return json.Marshal(l)
}

func (l *LineItems) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, l)
}

const (
	OrderStatusSubmitted          = "submitted"
	OrderStatusNotificationFailed = "notification_failed"
)

// Order model - PostgreSQL. One row per checkout submission.
type Order struct {
	ID                  uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SessionID           string    `gorm:"index;not null" json:"session_id"`
	CustomerName        string    `gorm:"not null" json:"customer_name"`
	CustomerEmail       string    `json:"customer_email"`
	CustomerPhone       string    `json:"customer_phone"`
	ShippingAddress     string    `gorm:"not null" json:"shipping_address"`
	Notes               string    `json:"notes"`
	ShippingCarrier     string    `gorm:"not null" json:"shipping_carrier"`
	ShippingSpeed       string    `gorm:"not null" json:"shipping_speed"`
	PaymentMethod       string    `gorm:"not null" json:"payment_method"`
	Items               LineItems `gorm:"type:jsonb" json:"items"`
	Subtotal            float64   `json:"subtotal"`
	VolumeDiscount      float64   `json:"volume_discount"`
	ShippingDiscount    float64   `json:"shipping_discount"`
	ShippingUpgradeCost float64   `json:"shipping_upgrade_cost"`
	PaymentUpcharge     float64   `json:"payment_upcharge"`
	Total               float64   `json:"total"`
	QPFlowerCount       int       `json:"qp_flower_count"`
	Status              string    `gorm:"default:submitted" json:"status"` // submitted, notification_failed
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Breakdown returns the cost figures stored on the order.
func (o *Order) Breakdown() CostBreakdown {
	return CostBreakdown{
		Subtotal:            o.Subtotal,
		VolumeDiscount:      o.VolumeDiscount,
		ShippingDiscount:    o.ShippingDiscount,
		ShippingUpgradeCost: o.ShippingUpgradeCost,
		PaymentUpcharge:     o.PaymentUpcharge,
		Total:               o.Total,
		QPFlowerCount:       o.QPFlowerCount,
	}
}

// AdminUser model - PostgreSQL
type AdminUser struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
