package orders

import (
	"errors"
	"strconv"
	"time"

	"orvia/models"
	"orvia/utils"
)

var ErrEmptyCart = errors.New("cart is empty")

// BuildOrder turns an immutable cart snapshot into a pending order. Totals
// are recomputed from the lines, never taken from the snapshot's derived
// fields. The discount is clamped so the total never goes negative.
func BuildOrder(userID string, snapshot models.Cart, couponCode string, discount float64) (models.Order, error) {
	if len(snapshot.Items) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	items := make([]models.OrderItem, 0, len(snapshot.Items))
	totalItems := 0
	subtotal := 0.0
	for _, line := range snapshot.Items {
		items = append(items, models.OrderItem{
			ProductID:      line.Product.ProductID,
			ProductName:    line.Product.Name,
			VariantID:      line.VariantID,
			UnitAmount:     line.UnitAmount,
			Currency:       line.Currency,
			Quantity:       line.Quantity,
			RecipientEmail: line.RecipientEmail,
			RecipientName:  line.RecipientName,
			Message:        line.Message,
		})
		totalItems += line.Quantity
		subtotal += line.UnitAmount * float64(line.Quantity)
	}

	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}

	return models.Order{
		OrderID:    newOrderID(),
		UserID:     userID,
		Items:      items,
		TotalItems: totalItems,
		Subtotal:   subtotal,
		CouponCode: couponCode,
		Discount:   discount,
		Total:      subtotal - discount,
		Status:     models.OrderPending,
		CreatedAt:  time.Now(),
	}, nil
}

func newOrderID() string {
	return "ORD" + strconv.FormatInt(time.Now().UnixNano()%1e6, 10) + utils.GenerateRandomDigitString(4)
}
