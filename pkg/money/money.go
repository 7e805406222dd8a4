// Package money holds presentation helpers for monetary figures. Pricing code
// works on unrounded float64 values; rounding happens only when a figure is
// shown to a customer or handed to another system.
package money

import (
	"github.com/shopspring/decimal"

	"storefront-backend/internal/models"
)

// Round rounds v half away from zero to cents.
func Round(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Format renders v with exactly two decimals, e.g. "2266.00".
func Format(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// RoundBreakdown returns a copy of b with every amount rounded to cents.
func RoundBreakdown(b models.CostBreakdown) models.CostBreakdown {
	return models.CostBreakdown{
		Subtotal:            Round(b.Subtotal),
		VolumeDiscount:      Round(b.VolumeDiscount),
		ShippingDiscount:    Round(b.ShippingDiscount),
		ShippingUpgradeCost: Round(b.ShippingUpgradeCost),
		PaymentUpcharge:     Round(b.PaymentUpcharge),
		Total:               Round(b.Total),
		QPFlowerCount:       b.QPFlowerCount,
	}
}
