package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"orvia/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memPersister records every committed snapshot.
type memPersister struct {
	saves int
	last  models.Cart
}

func (m *memPersister) Save(_ context.Context, cart models.Cart) error {
	m.saves++
	m.last = cart
	return nil
}

type failingPersister struct{}

func (failingPersister) Save(context.Context, models.Cart) error {
	return errors.New("storage unavailable")
}

func newTestStore() (*Store, *memPersister) {
	p := &memPersister{}
	return NewStore(models.Cart{UserID: "u1"}, p), p
}

func candidate(productID, variantID string, price float64, qty int) models.LineItem {
	return models.LineItem{
		Product: models.ProductSnapshot{
			ProductID: productID,
			Name:      "Steam Gift Card",
			Category:  "giftcard",
		},
		VariantID:  variantID,
		UnitAmount: price,
		Currency:   "USD",
		Quantity:   qty,
	}
}

func TestAddItemMergesByProductAndVariant(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	first := store.AddItem(ctx, candidate("P1", "10", 5, 1))
	second := store.AddItem(ctx, candidate("P1", "10", 5, 2))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 3, store.TotalItems())
	assert.Equal(t, 15.0, store.TotalAmount())
}

func TestAddItemKeepsFirstSnapshotOnMerge(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	store.AddItem(ctx, candidate("P1", "10", 5, 1))

	// same merge key, different price snapshot: the existing entry wins
	stale := candidate("P1", "10", 9, 1)
	stale.Product.Name = "Renamed"
	store.AddItem(ctx, stale)

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5.0, items[0].UnitAmount)
	assert.Equal(t, "Steam Gift Card", items[0].Product.Name)
	assert.Equal(t, 10.0, store.TotalAmount())
}

func TestAddItemDistinctVariantsStaySeparate(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	store.AddItem(ctx, candidate("P1", "10", 5, 1))
	store.AddItem(ctx, candidate("P1", "20", 10, 1))
	store.AddItem(ctx, candidate("P2", "10", 7, 2))

	assert.Len(t, store.Items(), 3)
	assert.Equal(t, 4, store.TotalItems())
	assert.Equal(t, 29.0, store.TotalAmount())
}

func TestRemoveItem(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	item := store.AddItem(ctx, candidate("P1", "10", 5, 2))

	assert.True(t, store.RemoveItem(ctx, item.ID))
	assert.Empty(t, store.Items())
	assert.Equal(t, 0, store.TotalItems())
	assert.Equal(t, 0.0, store.TotalAmount())

	// unknown id is a silent no-op
	assert.False(t, store.RemoveItem(ctx, "missing"))
}

func TestUpdateQuantityZeroAndNegativeRemove(t *testing.T) {
	for _, quantity := range []int{0, -3} {
		store, _ := newTestStore()
		ctx := context.Background()

		item := store.AddItem(ctx, candidate("P1", "10", 5, 2))
		store.UpdateQuantity(ctx, item.ID, quantity)

		assert.Empty(t, store.Items())
		assert.Equal(t, 0, store.TotalItems())
	}
}

func TestUpdateQuantityReplaces(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	item := store.AddItem(ctx, candidate("P1", "10", 5, 2))
	store.UpdateQuantity(ctx, item.ID, 7)

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)
	assert.Equal(t, 35.0, store.TotalAmount())

	// unknown id is a no-op
	store.UpdateQuantity(ctx, "missing", 4)
	assert.Equal(t, 7, store.TotalItems())
}

func TestUpdateRecipientTouchesOnlyRecipientFields(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	item := store.AddItem(ctx, candidate("P1", "10", 5, 2))

	email := "x@y.com"
	message := "happy birthday"
	store.UpdateRecipient(ctx, item.ID, RecipientPatch{Email: &email, Message: &message})

	got := store.Items()[0]
	assert.Equal(t, "x@y.com", got.RecipientEmail)
	assert.Equal(t, "happy birthday", got.Message)
	assert.Equal(t, "", got.RecipientName)
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, item.Quantity, got.Quantity)
	assert.Equal(t, item.UnitAmount, got.UnitAmount)
	assert.Equal(t, item.VariantID, got.VariantID)

	// partial patch leaves the rest alone
	name := "Sam"
	store.UpdateRecipient(ctx, item.ID, RecipientPatch{Name: &name})
	got = store.Items()[0]
	assert.Equal(t, "x@y.com", got.RecipientEmail)
	assert.Equal(t, "Sam", got.RecipientName)

	// unknown id: no change, no panic
	store.UpdateRecipient(ctx, "missing", RecipientPatch{Email: &email})
}

func TestClearIsIdempotent(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	store.AddItem(ctx, candidate("P1", "10", 5, 1))
	store.AddItem(ctx, candidate("P1", "20", 10, 1))

	store.Clear(ctx)
	first := store.Snapshot()
	store.Clear(ctx)
	second := store.Snapshot()

	assert.Empty(t, first.Items)
	assert.Equal(t, 0, first.TotalItems)
	assert.Equal(t, 0.0, first.TotalAmount)
	assert.Equal(t, first.Items, second.Items)
	assert.Equal(t, first.TotalItems, second.TotalItems)
	assert.Equal(t, first.TotalAmount, second.TotalAmount)
}

func TestEveryMutationPersistsWriteThrough(t *testing.T) {
	store, p := newTestStore()
	ctx := context.Background()

	item := store.AddItem(ctx, candidate("P1", "10", 5, 1))
	assert.Equal(t, 1, p.saves)
	assert.Equal(t, store.Snapshot().TotalAmount, p.last.TotalAmount)

	store.UpdateQuantity(ctx, item.ID, 3)
	assert.Equal(t, 2, p.saves)
	assert.Equal(t, 3, p.last.TotalItems)

	store.RemoveItem(ctx, item.ID)
	assert.Equal(t, 3, p.saves)
	assert.Empty(t, p.last.Items)
}

func TestPersistFailureKeepsMemoryAuthoritative(t *testing.T) {
	store := NewStore(models.Cart{UserID: "u1"}, failingPersister{})
	ctx := context.Background()

	store.AddItem(ctx, candidate("P1", "10", 5, 2))

	assert.Len(t, store.Items(), 1)
	assert.Equal(t, 2, store.TotalItems())
	assert.Equal(t, 10.0, store.TotalAmount())
}

func TestSnapshotRoundTripRecomputesTotals(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	store.AddItem(ctx, candidate("P1", "10", 5, 3))
	store.AddItem(ctx, candidate("P2", "20", 2.5, 2))
	snap := store.Snapshot()

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var restored models.Cart
	require.NoError(t, json.Unmarshal(data, &restored))

	// simulate stale derived fields from an interrupted write
	restored.TotalItems = 999
	restored.TotalAmount = -1

	rehydrated := NewStore(restored, &memPersister{})
	got := rehydrated.Items()
	require.Len(t, got, 2)
	for i, want := range snap.Items {
		assert.Equal(t, want.ID, got[i].ID)
		assert.Equal(t, want.VariantID, got[i].VariantID)
		assert.Equal(t, want.UnitAmount, got[i].UnitAmount)
		assert.Equal(t, want.Quantity, got[i].Quantity)
		assert.True(t, want.AddedAt.Equal(got[i].AddedAt))
	}
	assert.Equal(t, 5, rehydrated.TotalItems())
	assert.Equal(t, 20.0, rehydrated.TotalAmount())
}

func TestLoadTolerantOfUnknownFields(t *testing.T) {
	raw := []byte(`{"userId":"u1","items":[{"id":"a","product":{"productId":"P1"},"variantId":"10","unitAmount":5,"quantity":2,"someFutureField":"x"}],"totalItems":0,"totalAmount":0,"legacy":true}`)

	var cart models.Cart
	require.NoError(t, json.Unmarshal(raw, &cart))

	store := NewStore(cart, &memPersister{})
	assert.Equal(t, 2, store.TotalItems())
	assert.Equal(t, 10.0, store.TotalAmount())
}
