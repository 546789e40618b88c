package cart

import (
	"context"
	"testing"

	"orvia/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingNotifier captures notices instead of touching Redis.
type recordingNotifier struct {
	notices []models.Notice
}

func (n *recordingNotifier) Notify(_ context.Context, userID, kind, message string) {
	n.notices = append(n.notices, models.Notice{UserID: userID, Kind: kind, Message: message})
}

func giftCard() models.Product {
	return models.Product{
		ProductID: "P1",
		Name:      "Steam Gift Card",
		Category:  "giftcard",
		Active:    true,
		Variants: []models.Variant{
			{VariantID: "10", DisplayValue: "$10", Currency: "USD", Price: 10},
			{VariantID: "25", DisplayValue: "$25", Currency: "USD", Price: 25},
		},
	}
}

func newTestFacade() (*Facade, *Store, *recordingNotifier) {
	store, _ := newTestStore()
	notifier := &recordingNotifier{}
	return NewFacade(store, notifier, "u1"), store, notifier
}

func TestAddToCartResolvesVariantAndNotifies(t *testing.T) {
	facade, store, notifier := newTestFacade()
	ctx := context.Background()

	require.NoError(t, facade.AddToCart(ctx, giftCard(), "25", 2))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "P1", items[0].Product.ProductID)
	assert.Equal(t, "25", items[0].VariantID)
	assert.Equal(t, 25.0, items[0].UnitAmount)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 50.0, store.TotalAmount())

	require.Len(t, notifier.notices, 1)
	assert.Equal(t, models.NoticeSuccess, notifier.notices[0].Kind)
	assert.Contains(t, notifier.notices[0].Message, "Steam Gift Card")
	assert.Contains(t, notifier.notices[0].Message, "$25")
}

func TestAddToCartUnknownVariantAbortsWithNotice(t *testing.T) {
	facade, store, notifier := newTestFacade()
	ctx := context.Background()

	err := facade.AddToCart(ctx, giftCard(), "999", 1)

	assert.ErrorIs(t, err, ErrInvalidSelection)
	assert.Empty(t, store.Items())
	require.Len(t, notifier.notices, 1)
	assert.Equal(t, models.NoticeWarning, notifier.notices[0].Kind)
}

func TestAddToCartDefaultsQuantityToOne(t *testing.T) {
	facade, store, _ := newTestFacade()
	ctx := context.Background()

	require.NoError(t, facade.AddToCart(ctx, giftCard(), "10", 0))
	assert.Equal(t, 1, store.TotalItems())
}

func TestRemoveFromCartAlwaysNotifies(t *testing.T) {
	facade, _, notifier := newTestFacade()
	ctx := context.Background()

	// removal of a line that never existed still notifies
	facade.RemoveFromCart(ctx, "missing")
	require.Len(t, notifier.notices, 1)
	assert.Equal(t, models.NoticeInfo, notifier.notices[0].Kind)
}

func TestDecreaseQuantityAtOneRemovesWithNotice(t *testing.T) {
	facade, store, notifier := newTestFacade()
	ctx := context.Background()

	require.NoError(t, facade.AddToCart(ctx, giftCard(), "10", 1))
	itemID := store.Items()[0].ID
	notifier.notices = nil

	facade.DecreaseQuantity(ctx, itemID)

	assert.Empty(t, store.Items())
	require.Len(t, notifier.notices, 1)
	assert.Equal(t, models.NoticeInfo, notifier.notices[0].Kind)
}

func TestIncreaseAndDecreaseQuantity(t *testing.T) {
	facade, store, _ := newTestFacade()
	ctx := context.Background()

	require.NoError(t, facade.AddToCart(ctx, giftCard(), "10", 2))
	itemID := store.Items()[0].ID

	facade.IncreaseQuantity(ctx, itemID)
	assert.Equal(t, 3, store.Items()[0].Quantity)

	facade.DecreaseQuantity(ctx, itemID)
	assert.Equal(t, 2, store.Items()[0].Quantity)

	// unknown ids are ignored
	facade.IncreaseQuantity(ctx, "missing")
	facade.DecreaseQuantity(ctx, "missing")
	assert.Equal(t, 2, store.TotalItems())
}

func TestDecreasePathMatchesUpdateQuantityZero(t *testing.T) {
	ctx := context.Background()

	// build two carts with the same single line
	facadeA, sA, _ := newTestFacade()
	require.NoError(t, facadeA.AddToCart(ctx, giftCard(), "10", 1))
	idA := sA.Items()[0].ID

	sB, _ := newTestStore()
	sB.AddItem(ctx, candidate("P1", "10", 10, 1))
	idB := sB.Items()[0].ID

	facadeA.DecreaseQuantity(ctx, idA)
	sB.UpdateQuantity(ctx, idB, 0)

	assert.Equal(t, sB.Items(), sA.Items())
	assert.Equal(t, sB.TotalItems(), sA.TotalItems())
	assert.Equal(t, sB.TotalAmount(), sA.TotalAmount())
}
