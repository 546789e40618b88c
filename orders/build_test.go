package orders

import (
	"strings"
	"testing"

	"orvia/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotWith(lines ...models.LineItem) models.Cart {
	return models.Cart{UserID: "u1", Items: lines}
}

func line(product, variant string, unit float64, qty int) models.LineItem {
	return models.LineItem{
		ID:         product + ":" + variant,
		Product:    models.ProductSnapshot{ProductID: product, Name: "Gift Card"},
		VariantID:  variant,
		UnitAmount: unit,
		Currency:   "USD",
		Quantity:   qty,
	}
}

func TestBuildOrderRecomputesTotals(t *testing.T) {
	snapshot := snapshotWith(
		line("p1", "v10", 10, 3),
		line("p1", "v25", 25, 1),
	)
	// Stored derived fields are garbage on purpose; they must be ignored.
	snapshot.TotalItems = 99
	snapshot.TotalAmount = 9999

	order, err := BuildOrder("u1", snapshot, "", 0)
	require.NoError(t, err)

	assert.Equal(t, 4, order.TotalItems)
	assert.Equal(t, 55.0, order.Subtotal)
	assert.Equal(t, 55.0, order.Total)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Len(t, order.Items, 2)
	assert.True(t, strings.HasPrefix(order.OrderID, "ORD"))
}

func TestBuildOrderCopiesRecipientDetails(t *testing.T) {
	gift := line("p1", "v10", 10, 1)
	gift.RecipientEmail = "friend@example.com"
	gift.RecipientName = "Sam"
	gift.Message = "Happy birthday"

	order, err := BuildOrder("u1", snapshotWith(gift), "", 0)
	require.NoError(t, err)

	assert.Equal(t, "friend@example.com", order.Items[0].RecipientEmail)
	assert.Equal(t, "Sam", order.Items[0].RecipientName)
	assert.Equal(t, "Happy birthday", order.Items[0].Message)
}

func TestBuildOrderAppliesDiscount(t *testing.T) {
	order, err := BuildOrder("u1", snapshotWith(line("p1", "v25", 25, 2)), "save5", 5)
	require.NoError(t, err)

	assert.Equal(t, "save5", order.CouponCode)
	assert.Equal(t, 50.0, order.Subtotal)
	assert.Equal(t, 5.0, order.Discount)
	assert.Equal(t, 45.0, order.Total)
}

func TestBuildOrderClampsDiscount(t *testing.T) {
	order, err := BuildOrder("u1", snapshotWith(line("p1", "v10", 10, 1)), "bigsave", 500)
	require.NoError(t, err)
	assert.Equal(t, 10.0, order.Discount)
	assert.Equal(t, 0.0, order.Total)

	order, err = BuildOrder("u1", snapshotWith(line("p1", "v10", 10, 1)), "odd", -3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, order.Discount)
	assert.Equal(t, 10.0, order.Total)
}

func TestBuildOrderEmptyCart(t *testing.T) {
	_, err := BuildOrder("u1", models.Cart{UserID: "u1"}, "", 0)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPendingOrderFilterGuardsStatus(t *testing.T) {
	filter := pendingOrderFilter("ORD123456")

	assert.Equal(t, "ORD123456", filter["orderId"])
	// both settlement paths must refuse an order that already left pending
	assert.Equal(t, models.OrderPending, filter["status"])
}

func TestVoucherPayloadRoundTrip(t *testing.T) {
	payload := VoucherPayload("ORD123456", "ABCD-EFGH-WXYZ")
	assert.True(t, VerifyVoucherPayload(payload))

	assert.False(t, VerifyVoucherPayload(payload+"x"))
	assert.False(t, VerifyVoucherPayload("not|signed"))
	assert.False(t, VerifyVoucherPayload(""))
}
