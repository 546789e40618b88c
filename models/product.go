package models

import "time"

// Variant is one purchasable denomination of a product (e.g. a $25 card).
type Variant struct {
	VariantID    string  `json:"variantId" bson:"variantId"`
	DisplayValue string  `json:"displayValue" bson:"displayValue"` // e.g. "$25", "3 months"
	Currency     string  `json:"currency" bson:"currency"`
	Price        float64 `json:"price" bson:"price"`
}

// Product is a digital good sold through the storefront.
type Product struct {
	ProductID   string    `json:"productId" bson:"productid"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Category    string    `json:"category" bson:"category"` // e.g. "giftcard", "subscription", "game"
	ImageURL    string    `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	Active      bool      `json:"active" bson:"active"`
	Variants    []Variant `json:"variants" bson:"variants"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// FindVariant returns the variant with the given id, if the product has one.
func (p Product) FindVariant(variantID string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.VariantID == variantID {
			return v, true
		}
	}
	return Variant{}, false
}
