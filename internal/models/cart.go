package models

import "strings"

// UnitType is the pricing unit of a line item. Discount and shipping rules
// key off this value together with the item category.
type UnitType string

const (
	UnitQP    UnitType = "qp"    // quarter pound
	UnitPound UnitType = "pound" // full pound
	UnitPiece UnitType = "piece"
)

const (
	CategoryFlower = "flower"
	CategoryVape   = "vape"
)

type ShippingCarrier string

const (
	CarrierUPS  ShippingCarrier = "ups"
	CarrierUSPS ShippingCarrier = "usps"
)

type ShippingSpeed string

const (
	SpeedGround    ShippingSpeed = "ground"
	SpeedTwoDay    ShippingSpeed = "2-day"
	SpeedOvernight ShippingSpeed = "overnight"
	SpeedPriority  ShippingSpeed = "priority"
	SpeedExpress   ShippingSpeed = "express"
)

type PaymentMethod string

const (
	PaymentBTC        PaymentMethod = "BTC"
	PaymentUSDT       PaymentMethod = "USDT"
	PaymentETH        PaymentMethod = "ETH"
	PaymentCashApp    PaymentMethod = "CashApp"
	PaymentZelle      PaymentMethod = "Zelle"
	PaymentCashInMail PaymentMethod = "Cash in Mail"
)

// CarrierSpeeds lists the speeds each carrier offers. The first entry is the
// carrier's free default tier.
var CarrierSpeeds = map[ShippingCarrier][]ShippingSpeed{
	CarrierUPS:  {SpeedGround, SpeedTwoDay, SpeedOvernight},
	CarrierUSPS: {SpeedPriority, SpeedExpress},
}

var PaymentMethods = []PaymentMethod{
	PaymentBTC,
	PaymentUSDT,
	PaymentETH,
	PaymentCashApp,
	PaymentZelle,
	PaymentCashInMail,
}

// IsValidCarrier reports whether c is a known carrier.
func IsValidCarrier(c ShippingCarrier) bool {
	_, ok := CarrierSpeeds[c]
	return ok
}

// IsValidSpeed reports whether the carrier offers the given speed.
func IsValidSpeed(c ShippingCarrier, s ShippingSpeed) bool {
	for _, speed := range CarrierSpeeds[c] {
		if speed == s {
			return true
		}
	}
	return false
}

func IsValidPaymentMethod(m PaymentMethod) bool {
	for _, method := range PaymentMethods {
		if method == m {
			return true
		}
	}
	return false
}

// LineItem is one product variant in the cart. UnitPrice is already the
// effective price (sale or QP) at the time the item was added.
type LineItem struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	UnitPrice float64  `json:"unitPrice"`
	Quantity  int      `json:"quantity"`
	IsQP      bool     `json:"isQP"`
	UnitType  UnitType `json:"unitType,omitempty"`
	Unit      string   `json:"unit,omitempty"`
	Image     string   `json:"image,omitempty"`
	OnSale    bool     `json:"onSale,omitempty"`
}

// LineTotal is UnitPrice * Quantity.
func (i LineItem) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// NormalizeLineItem fills in UnitType when the payload did not carry one.
// The second return value is true when the unit type had to be derived from
// the display name, which relies on catalog naming ("QP", "Pound").
func NormalizeLineItem(item LineItem) (LineItem, bool) {
	if item.IsQP {
		item.UnitType = UnitQP
		return item, false
	}
	switch item.UnitType {
	case UnitQP:
		item.IsQP = true
		return item, false
	case UnitPound, UnitPiece:
		return item, false
	}

	switch {
	case strings.Contains(item.Name, "QP"):
		item.UnitType = UnitQP
		item.IsQP = true
	case strings.Contains(item.Name, "Pound"):
		item.UnitType = UnitPound
	default:
		item.UnitType = UnitPiece
	}
	return item, true
}

// CartState is the aggregate held by a cart store. TotalItems and TotalPrice
// are derived from Items and recomputed on every item mutation.
type CartState struct {
	Items           []LineItem      `json:"items"`
	TotalItems      int             `json:"totalItems"`
	TotalPrice      float64         `json:"totalPrice"`
	ShippingCarrier ShippingCarrier `json:"shippingCarrier,omitempty"`
	ShippingSpeed   ShippingSpeed   `json:"shippingSpeed,omitempty"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod,omitempty"`
}

// CostBreakdown is the pricing calculator output for one cart snapshot.
type CostBreakdown struct {
	Subtotal            float64 `json:"subtotal"`
	VolumeDiscount      float64 `json:"volumeDiscount"`
	ShippingDiscount    float64 `json:"shippingDiscount"`
	ShippingUpgradeCost float64 `json:"shippingUpgradeCost"`
	PaymentUpcharge     float64 `json:"paymentUpcharge"`
	Total               float64 `json:"total"`
	QPFlowerCount       int     `json:"qpFlowerCount"`
}
