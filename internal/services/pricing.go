package services

import "storefront-backend/internal/models"

// volumeTier is one row of the pound-flower discount table.
type volumeTier struct {
	MinUnits     int
	PerUnitPrice float64
}

// Descending by MinUnits; the first matching tier applies.
var poundFlowerVolumeTiers = []volumeTier{
	{MinUnits: 7, PerUnitPrice: 100},
	{MinUnits: 4, PerUnitPrice: 75},
	{MinUnits: 1, PerUnitPrice: 50},
}

const (
	// Every QP unit's listed price includes this shipping charge.
	qpBundledShippingFee = 100.0
	// One shipping fee is owed per block of this many QP units.
	qpUnitsPerShippingBlock = 4

	twoDayVapeRate        = 0.50
	twoDayFlowerRate      = 50.0
	overnightVapeRate     = 1.00
	overnightFlowerRate   = 100.0
	processingFeeFraction = 0.03
)

// Payment methods that carry a processing fee.
var upchargedPaymentMethods = map[models.PaymentMethod]bool{
	models.PaymentCashApp: true,
	models.PaymentZelle:   true,
}

type categoryCounts struct {
	QPFlower    int
	PoundFlower int
	Vape        int
}

func countCategories(items []models.LineItem) categoryCounts {
	var counts categoryCounts
	for _, item := range items {
		// items that bypassed the store may still lack a unit type
		item, _ = models.NormalizeLineItem(item)
		switch item.Category {
		case models.CategoryFlower:
			switch item.UnitType {
			case models.UnitQP:
				counts.QPFlower += item.Quantity
			case models.UnitPound:
				counts.PoundFlower += item.Quantity
			}
		case models.CategoryVape:
			counts.Vape += item.Quantity
		}
	}
	return counts
}

// Subtotal is the sum of UnitPrice * Quantity. CartStore uses the same
// function for TotalPrice so the two figures cannot drift apart.
func Subtotal(items []models.LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}

// VolumeDiscount returns the pound-flower volume discount for the given count.
func VolumeDiscount(poundFlowerCount int) float64 {
	if poundFlowerCount <= 0 {
		return 0
	}
	for _, tier := range poundFlowerVolumeTiers {
		if poundFlowerCount >= tier.MinUnits {
			return tier.PerUnitPrice * float64(poundFlowerCount)
		}
	}
	return 0
}

// ShippingDiscount refunds the bundled QP shipping fees beyond one fee per
// block of four units.
func ShippingDiscount(qpFlowerCount int) float64 {
	if qpFlowerCount <= 0 {
		return 0
	}
	blocks := (qpFlowerCount + qpUnitsPerShippingBlock - 1) / qpUnitsPerShippingBlock
	return float64(qpFlowerCount)*qpBundledShippingFee - float64(blocks)*qpBundledShippingFee
}

// ShippingUpgradeCost is the surcharge for paid shipping speeds. It is zero
// unless both carrier and speed are set.
func ShippingUpgradeCost(carrier models.ShippingCarrier, speed models.ShippingSpeed, counts categoryCounts) float64 {
	if carrier == "" || speed == "" {
		return 0
	}
	flowerUnits := float64(counts.QPFlower + counts.PoundFlower)
	vapeUnits := float64(counts.Vape)

	switch speed {
	case models.SpeedTwoDay:
		return vapeUnits*twoDayVapeRate + flowerUnits*twoDayFlowerRate
	case models.SpeedOvernight:
		return vapeUnits*overnightVapeRate + flowerUnits*overnightFlowerRate
	default:
		return 0
	}
}

// PaymentUpcharge is the processing fee on the post-discount price.
func PaymentUpcharge(method models.PaymentMethod, priceAfterDiscounts float64) float64 {
	if !upchargedPaymentMethods[method] {
		return 0
	}
	return priceAfterDiscounts * processingFeeFraction
}

// CalculateCostBreakdown derives the full cost breakdown for a cart snapshot.
// It has no side effects and is defined for every state, including an empty
// cart and unrecognised shipping or payment values. Nothing is rounded here.
func CalculateCostBreakdown(state models.CartState) models.CostBreakdown {
	counts := countCategories(state.Items)

	subtotal := Subtotal(state.Items)
	volumeDiscount := VolumeDiscount(counts.PoundFlower)
	shippingDiscount := ShippingDiscount(counts.QPFlower)
	upgradeCost := ShippingUpgradeCost(state.ShippingCarrier, state.ShippingSpeed, counts)

	b := models.CostBreakdown{
		Subtotal:            subtotal,
		VolumeDiscount:      volumeDiscount,
		ShippingDiscount:    shippingDiscount,
		ShippingUpgradeCost: upgradeCost,
		QPFlowerCount:       counts.QPFlower,
	}
	base := PriceAfterDiscounts(b)
	b.PaymentUpcharge = PaymentUpcharge(state.PaymentMethod, base)
	b.Total = base + b.PaymentUpcharge
	return b
}

// PriceAfterDiscounts is the base the payment upcharge is computed on.
func PriceAfterDiscounts(b models.CostBreakdown) float64 {
	return b.Subtotal - b.VolumeDiscount - b.ShippingDiscount + b.ShippingUpgradeCost
}
