package models

import "time"

// Order statuses
const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderCancelled = "cancelled"
	OrderRefunded  = "refunded"
)

// OrderItem is a line of a finalized order, copied from the cart snapshot at
// checkout time. Codes is filled when payment succeeds.
type OrderItem struct {
	ProductID      string   `json:"productId" bson:"productId"`
	ProductName    string   `json:"productName" bson:"productName"`
	VariantID      string   `json:"variantId" bson:"variantId"`
	UnitAmount     float64  `json:"unitAmount" bson:"unitAmount"`
	Currency       string   `json:"currency" bson:"currency"`
	Quantity       int      `json:"quantity" bson:"quantity"`
	RecipientEmail string   `json:"recipientEmail,omitempty" bson:"recipientEmail,omitempty"`
	RecipientName  string   `json:"recipientName,omitempty" bson:"recipientName,omitempty"`
	Message        string   `json:"message,omitempty" bson:"message,omitempty"`
	Codes          []string `json:"codes,omitempty" bson:"codes,omitempty"`
}

// Order represents a finalized order.
type Order struct {
	OrderID     string      `json:"orderId" bson:"orderId"`
	UserID      string      `json:"userId" bson:"userId"`
	Items       []OrderItem `json:"items" bson:"items"`
	TotalItems  int         `json:"totalItems" bson:"totalItems"`
	Subtotal    float64     `json:"subtotal" bson:"subtotal"`
	CouponCode  string      `json:"couponCode,omitempty" bson:"couponCode,omitempty"`
	Discount    float64     `json:"discount" bson:"discount"`
	Total       float64     `json:"total" bson:"total"`
	Status      string      `json:"status" bson:"status"`
	CreatedAt   time.Time   `json:"createdAt" bson:"createdAt"`
	PaidAt      time.Time   `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	RefundedAt  time.Time   `json:"refundedAt,omitempty" bson:"refundedAt,omitempty"`
	RefundedBy  string      `json:"refundedBy,omitempty" bson:"refundedBy,omitempty"`
	CancelledAt time.Time   `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`
}

// PaymentSession is the short-lived handle between checkout and the payment
// callbacks. Stored in Redis with a TTL.
type PaymentSession struct {
	SessionID string    `json:"sessionId"`
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}
