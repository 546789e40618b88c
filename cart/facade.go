package cart

import (
	"context"
	"errors"
	"fmt"

	"orvia/models"
	"orvia/notify"
)

// ErrInvalidSelection means the requested variant does not exist on the
// product, typically a stale storefront page referencing a removed
// denomination. The user gets a notice; no state is mutated.
var ErrInvalidSelection = errors.New("invalid variant selection")

// Facade is the only interface storefront handlers use to mutate a cart.
// It validates against the catalog and emits user notices; the Store owns
// the state transitions.
type Facade struct {
	store    *Store
	notifier notify.Notifier
	userID   string
}

func NewFacade(store *Store, notifier notify.Notifier, userID string) *Facade {
	return &Facade{store: store, notifier: notifier, userID: userID}
}

// AddToCart resolves the variant, builds the line-item candidate from the
// product snapshot, and delegates the merge to the store.
func (f *Facade) AddToCart(ctx context.Context, product models.Product, variantID string, quantity int) error {
	variant, ok := product.FindVariant(variantID)
	if !ok {
		f.notifier.Notify(ctx, f.userID, models.NoticeWarning, "That option is no longer available")
		return ErrInvalidSelection
	}

	if quantity < 1 {
		quantity = 1
	}

	f.store.AddItem(ctx, models.LineItem{
		Product: models.ProductSnapshot{
			ProductID:   product.ProductID,
			Name:        product.Name,
			Description: product.Description,
			ImageURL:    product.ImageURL,
			Category:    product.Category,
		},
		VariantID:  variant.VariantID,
		UnitAmount: variant.Price,
		Currency:   variant.Currency,
		Quantity:   quantity,
	})

	f.notifier.Notify(ctx, f.userID, models.NoticeSuccess,
		fmt.Sprintf("%s (%s %s) added to cart", product.Name, variant.DisplayValue, variant.Currency))
	return nil
}

// RemoveFromCart deletes the line and always notifies, even when the id was
// already gone. The caller cannot tell the difference and should not.
func (f *Facade) RemoveFromCart(ctx context.Context, id string) {
	f.store.RemoveItem(ctx, id)
	f.notifier.Notify(ctx, f.userID, models.NoticeInfo, "Item removed from cart")
}

func (f *Facade) IncreaseQuantity(ctx context.Context, id string) {
	quantity, ok := f.store.Quantity(id)
	if !ok {
		return
	}
	f.store.UpdateQuantity(ctx, id, quantity+1)
}

// DecreaseQuantity steps the quantity down by one. At quantity 1 it routes
// through RemoveFromCart so the removal notice fires.
func (f *Facade) DecreaseQuantity(ctx context.Context, id string) {
	quantity, ok := f.store.Quantity(id)
	if !ok {
		return
	}
	if quantity <= 1 {
		f.RemoveFromCart(ctx, id)
		return
	}
	f.store.UpdateQuantity(ctx, id, quantity-1)
}

func (f *Facade) UpdateRecipient(ctx context.Context, id string, patch RecipientPatch) {
	f.store.UpdateRecipient(ctx, id, patch)
}

func (f *Facade) Clear(ctx context.Context) {
	f.store.Clear(ctx)
}

func (f *Facade) Snapshot() models.Cart {
	return f.store.Snapshot()
}
