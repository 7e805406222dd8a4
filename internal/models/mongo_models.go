package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product model - MongoDB (catalog data)
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"` // flower, vape, edible, ...
	Unit        string             `bson:"unit" json:"unit"`         // pound, piece, cart, ...
	Price       float64            `bson:"price" json:"price"`
	SaleEnabled bool               `bson:"sale_enabled" json:"sale_enabled"`
	SalePrice   float64            `bson:"sale_price,omitempty" json:"sale_price"`
	QPPrice     *float64           `bson:"qp_price,omitempty" json:"qp_price"` // set when a quarter-pound variant is sold
	ImageUrls   []string           `bson:"image_urls" json:"image_urls"`
	IsAvailable bool               `bson:"is_available" json:"is_available"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsOnSale reports whether the sale price is active and below the list price.
func (p *Product) IsOnSale() bool {
	return p.SaleEnabled && p.SalePrice > 0 && p.SalePrice < p.Price
}

// EffectivePrice is the per-unit price a buyer pays for the standard variant.
func (p *Product) EffectivePrice() float64 {
	if p.IsOnSale() {
		return p.SalePrice
	}
	return p.Price
}

// HasQPVariant reports whether the product can be bought by the quarter pound.
func (p *Product) HasQPVariant() bool {
	return p.QPPrice != nil && *p.QPPrice > 0
}

func (p *Product) FirstImage() string {
	if len(p.ImageUrls) == 0 {
		return ""
	}
	return p.ImageUrls[0]
}
