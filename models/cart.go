package models

import "time"

// ProductSnapshot is the catalog data copied into a cart line at add-time.
// It is deliberately never re-synced with the catalog afterwards.
type ProductSnapshot struct {
	ProductID   string `json:"productId" bson:"productId"`
	Name        string `json:"name" bson:"name"`
	Description string `json:"description" bson:"description"`
	ImageURL    string `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	Category    string `json:"category" bson:"category"`
}

// LineItem is one cart row: a chosen variant, a quantity, and optional
// gift-recipient details.
type LineItem struct {
	ID             string          `json:"id" bson:"id"`
	Product        ProductSnapshot `json:"product" bson:"product"`
	VariantID      string          `json:"variantId" bson:"variantId"`
	UnitAmount     float64         `json:"unitAmount" bson:"unitAmount"`
	Currency       string          `json:"currency" bson:"currency"`
	Quantity       int             `json:"quantity" bson:"quantity"`
	RecipientEmail string          `json:"recipientEmail,omitempty" bson:"recipientEmail,omitempty"`
	RecipientName  string          `json:"recipientName,omitempty" bson:"recipientName,omitempty"`
	Message        string          `json:"message,omitempty" bson:"message,omitempty"`
	AddedAt        time.Time       `json:"addedAt" bson:"addedAt"`
}

// Cart is the per-user cart document. TotalItems and TotalAmount are derived
// from Items and recomputed on every mutation and on load; the stored values
// are never trusted.
type Cart struct {
	UserID      string     `json:"userId" bson:"userId"`
	Items       []LineItem `json:"items" bson:"items"`
	TotalItems  int        `json:"totalItems" bson:"totalItems"`
	TotalAmount float64    `json:"totalAmount" bson:"totalAmount"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
}
