package models

import "time"

// Activation code statuses
const (
	CodeAvailable = "available"
	CodeSold      = "sold"
	CodeRevoked   = "revoked"
)

// ActivationCode is one unit of sellable stock: a redeemable code bound to a
// product variant. Allocation flips status available -> sold and stamps the
// order id.
type ActivationCode struct {
	CodeID    string    `json:"codeId" bson:"codeId"`
	ProductID string    `json:"productId" bson:"productId"`
	VariantID string    `json:"variantId" bson:"variantId"`
	Code      string    `json:"code" bson:"code"`
	Status    string    `json:"status" bson:"status"`
	OrderID   string    `json:"orderId,omitempty" bson:"orderId,omitempty"`
	AddedAt   time.Time `json:"addedAt" bson:"addedAt"`
	SoldAt    time.Time `json:"soldAt,omitempty" bson:"soldAt,omitempty"`
}
