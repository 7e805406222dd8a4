package services

import (
	"testing"

	"storefront-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

const moneyDelta = 1e-9

func qpFlower(id string, price float64, qty int) models.LineItem {
	return models.LineItem{ID: id, Name: "Flower QP " + id, Category: models.CategoryFlower, UnitPrice: price, Quantity: qty, IsQP: true, UnitType: models.UnitQP}
}

func poundFlower(id string, price float64, qty int) models.LineItem {
	return models.LineItem{ID: id, Name: "Pound Flower " + id, Category: models.CategoryFlower, UnitPrice: price, Quantity: qty, UnitType: models.UnitPound}
}

func vape(id string, price float64, qty int) models.LineItem {
	return models.LineItem{ID: id, Name: "Vape " + id, Category: models.CategoryVape, UnitPrice: price, Quantity: qty, UnitType: models.UnitPiece}
}

func TestVolumeDiscount(t *testing.T) {
	cases := []struct {
		count    int
		expected float64
	}{
		{0, 0},
		{1, 50},
		{3, 150},
		{4, 300},
		{6, 450},
		{7, 700},
		{10, 1000},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, VolumeDiscount(tc.count), "pound flower count %d", tc.count)
	}
}

func TestVolumeDiscount_OnlyPoundFlower(t *testing.T) {
	state := models.CartState{Items: []models.LineItem{
		qpFlower("a", 400, 7),
		vape("b", 30, 10),
	}}

	assert.Zero(t, CalculateCostBreakdown(state).VolumeDiscount)
}

func TestShippingDiscount(t *testing.T) {
	cases := []struct {
		count    int
		expected float64
	}{
		{0, 0},
		{1, 0},
		{4, 300},
		{5, 300},
		{8, 600},
		{9, 600},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, ShippingDiscount(tc.count), "qp flower count %d", tc.count)
	}
}

func TestShippingUpgradeCost(t *testing.T) {
	counts := categoryCounts{QPFlower: 2, PoundFlower: 1, Vape: 4}

	tests := []struct {
		name     string
		carrier  models.ShippingCarrier
		speed    models.ShippingSpeed
		expected float64
	}{
		{"two day", models.CarrierUPS, models.SpeedTwoDay, 4*0.5 + 3*50},
		{"overnight", models.CarrierUPS, models.SpeedOvernight, 4*1 + 3*100},
		{"ground is free", models.CarrierUPS, models.SpeedGround, 0},
		{"priority is free", models.CarrierUSPS, models.SpeedPriority, 0},
		{"no carrier", "", models.SpeedOvernight, 0},
		{"no speed", models.CarrierUPS, "", 0},
		{"unknown speed", models.CarrierUPS, "teleport", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ShippingUpgradeCost(tt.carrier, tt.speed, counts), moneyDelta)
		})
	}
}

func TestPaymentUpchargeGating(t *testing.T) {
	items := []models.LineItem{vape("v", 45.5, 3), poundFlower("p", 900, 2)}

	methods := []models.PaymentMethod{
		models.PaymentBTC, models.PaymentUSDT, models.PaymentETH,
		models.PaymentCashApp, models.PaymentZelle, models.PaymentCashInMail,
		"", "Venmo",
	}
	for _, method := range methods {
		state := models.CartState{
			Items:           items,
			ShippingCarrier: models.CarrierUPS,
			ShippingSpeed:   models.SpeedTwoDay,
			PaymentMethod:   method,
		}
		b := CalculateCostBreakdown(state)
		base := PriceAfterDiscounts(b)

		if method == models.PaymentCashApp || method == models.PaymentZelle {
			assert.Greater(t, b.Total, base, "method %q", method)
			assert.InDelta(t, base*0.03, b.PaymentUpcharge, moneyDelta)
		} else {
			assert.Equal(t, base, b.Total, "method %q", method)
			assert.Zero(t, b.PaymentUpcharge)
		}
	}
}

func TestCalculateCostBreakdown_EmptyCart(t *testing.T) {
	b := CalculateCostBreakdown(models.CartState{})

	assert.Equal(t, models.CostBreakdown{}, b)

	b = CalculateCostBreakdown(models.CartState{
		ShippingCarrier: models.CarrierUPS,
		ShippingSpeed:   models.SpeedOvernight,
		PaymentMethod:   models.PaymentZelle,
	})
	assert.Equal(t, models.CostBreakdown{}, b)
}

func TestCalculateCostBreakdown_QPOvernightCashApp(t *testing.T) {
	state := models.CartState{
		Items: []models.LineItem{
			{ID: "a", Name: "Flower QP A", Category: models.CategoryFlower, UnitPrice: 400, Quantity: 5, IsQP: true},
		},
		ShippingCarrier: models.CarrierUPS,
		ShippingSpeed:   models.SpeedOvernight,
		PaymentMethod:   models.PaymentCashApp,
	}

	b := CalculateCostBreakdown(state)

	assert.Equal(t, 5, b.QPFlowerCount)
	assert.InDelta(t, 2000, b.Subtotal, moneyDelta)
	assert.InDelta(t, 0, b.VolumeDiscount, moneyDelta)
	assert.InDelta(t, 300, b.ShippingDiscount, moneyDelta)
	assert.InDelta(t, 500, b.ShippingUpgradeCost, moneyDelta)
	assert.InDelta(t, 2200, PriceAfterDiscounts(b), moneyDelta)
	assert.InDelta(t, 66, b.PaymentUpcharge, moneyDelta)
	assert.InDelta(t, 2266, b.Total, moneyDelta)
}

func TestCalculateCostBreakdown_PoundFlowerNoSelections(t *testing.T) {
	state := models.CartState{
		Items: []models.LineItem{
			{ID: "b", Name: "Pound Flower B", Category: models.CategoryFlower, UnitPrice: 1000, Quantity: 7},
		},
	}

	b := CalculateCostBreakdown(state)

	assert.Equal(t, 0, b.QPFlowerCount)
	assert.InDelta(t, 7000, b.Subtotal, moneyDelta)
	assert.InDelta(t, 700, b.VolumeDiscount, moneyDelta)
	assert.Zero(t, b.ShippingDiscount)
	assert.Zero(t, b.ShippingUpgradeCost)
	assert.Zero(t, b.PaymentUpcharge)
	assert.InDelta(t, 6300, b.Total, moneyDelta)
}

func TestCalculateCostBreakdown_UnitTypeWinsOverName(t *testing.T) {
	// explicit unit types are authoritative; the name is display text only
	state := models.CartState{Items: []models.LineItem{
		{ID: "x", Name: "Big Pound Bag", Category: models.CategoryFlower, UnitPrice: 100, Quantity: 4, UnitType: models.UnitPiece},
		{ID: "y", Name: "House Blend", Category: models.CategoryFlower, UnitPrice: 300, Quantity: 4, UnitType: models.UnitQP},
	}}

	b := CalculateCostBreakdown(state)

	assert.Zero(t, b.VolumeDiscount)
	assert.Equal(t, 4, b.QPFlowerCount)
	assert.InDelta(t, 300, b.ShippingDiscount, moneyDelta)
}

func TestCalculateCostBreakdown_SubtotalMatchesStoreTotal(t *testing.T) {
	items := []models.LineItem{qpFlower("a", 333.33, 3), vape("b", 19.99, 7), poundFlower("c", 1234.5, 2)}

	b := CalculateCostBreakdown(models.CartState{Items: items})

	assert.Equal(t, Subtotal(items), b.Subtotal)
}

func TestCalculateCostBreakdown_DoesNotMutateInput(t *testing.T) {
	items := []models.LineItem{{ID: "a", Name: "Flower QP A", Category: models.CategoryFlower, UnitPrice: 400, Quantity: 5, IsQP: true}}
	state := models.CartState{Items: items}

	first := CalculateCostBreakdown(state)
	second := CalculateCostBreakdown(state)

	assert.Equal(t, first, second)
	assert.Empty(t, items[0].UnitType)
}
