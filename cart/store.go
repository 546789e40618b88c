package cart

import (
	"context"
	"fmt"
	"log"
	"time"

	"orvia/models"
)

// Persister commits a cart snapshot after every mutation. The Mongo
// implementation lives in persist.go; tests inject an in-memory fake.
type Persister interface {
	Save(ctx context.Context, cart models.Cart) error
}

// Store is the sole owner of one user's cart state. Every mutator is a
// single synchronous transition: mutate, recompute totals, persist, return.
// A failed persist is logged and dropped; the in-memory state stays
// authoritative for the session.
type Store struct {
	cart    models.Cart
	persist Persister
}

func NewStore(cart models.Cart, p Persister) *Store {
	// never trust stored derived fields
	recomputeTotals(&cart)
	return &Store{cart: cart, persist: p}
}

// RecipientPatch carries the recipient fields to shallow-merge onto a line
// item. Nil means "leave unchanged".
type RecipientPatch struct {
	Email   *string `json:"recipientEmail,omitempty"`
	Name    *string `json:"recipientName,omitempty"`
	Message *string `json:"message,omitempty"`
}

// AddItem merges the candidate into an existing line with the same
// (productId, variantId) pair, or appends it with a fresh id. On merge only
// the quantity is added: the existing item's product and price snapshot win.
func (s *Store) AddItem(ctx context.Context, candidate models.LineItem) models.LineItem {
	for i, item := range s.cart.Items {
		if item.Product.ProductID == candidate.Product.ProductID && item.VariantID == candidate.VariantID {
			s.cart.Items[i].Quantity += candidate.Quantity
			s.commit(ctx)
			return s.cart.Items[i]
		}
	}

	now := time.Now()
	candidate.ID = lineID(candidate.Product.ProductID, candidate.VariantID, now)
	candidate.AddedAt = now
	s.cart.Items = append(s.cart.Items, candidate)
	s.commit(ctx)
	return candidate
}

// RemoveItem deletes the line with the given id. Unknown ids are a no-op,
// not an error.
func (s *Store) RemoveItem(ctx context.Context, id string) bool {
	for i, item := range s.cart.Items {
		if item.ID == id {
			s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)
			s.commit(ctx)
			return true
		}
	}
	return false
}

// UpdateQuantity sets the quantity of the line with the given id. A quantity
// of zero or less removes the line. Unknown ids are a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(ctx, id)
		return
	}
	for i, item := range s.cart.Items {
		if item.ID == id {
			s.cart.Items[i].Quantity = quantity
			s.commit(ctx)
			return
		}
	}
}

// UpdateRecipient shallow-merges recipient fields onto the line with the
// given id. Quantity, price, and merge identity are untouched.
func (s *Store) UpdateRecipient(ctx context.Context, id string, patch RecipientPatch) {
	for i, item := range s.cart.Items {
		if item.ID == id {
			if patch.Email != nil {
				s.cart.Items[i].RecipientEmail = *patch.Email
			}
			if patch.Name != nil {
				s.cart.Items[i].RecipientName = *patch.Name
			}
			if patch.Message != nil {
				s.cart.Items[i].Message = *patch.Message
			}
			s.commit(ctx)
			return
		}
	}
}

// Clear resets the cart to empty.
func (s *Store) Clear(ctx context.Context) {
	s.cart.Items = nil
	s.commit(ctx)
}

// Quantity reports the current quantity of a line, if it exists.
func (s *Store) Quantity(id string) (int, bool) {
	for _, item := range s.cart.Items {
		if item.ID == id {
			return item.Quantity, true
		}
	}
	return 0, false
}

// Items returns a copy of the line items.
func (s *Store) Items() []models.LineItem {
	items := make([]models.LineItem, len(s.cart.Items))
	copy(items, s.cart.Items)
	return items
}

func (s *Store) TotalItems() int {
	return s.cart.TotalItems
}

func (s *Store) TotalAmount() float64 {
	return s.cart.TotalAmount
}

// Snapshot returns the cart as an immutable value, e.g. for checkout.
func (s *Store) Snapshot() models.Cart {
	snap := s.cart
	snap.Items = s.Items()
	return snap
}

func (s *Store) commit(ctx context.Context) {
	recomputeTotals(&s.cart)
	s.cart.UpdatedAt = time.Now()
	if err := s.persist.Save(ctx, s.Snapshot()); err != nil {
		log.Printf("cart: persist failed for user %s: %v", s.cart.UserID, err)
	}
}

func recomputeTotals(c *models.Cart) {
	totalItems := 0
	totalAmount := 0.0
	for _, item := range c.Items {
		totalItems += item.Quantity
		totalAmount += item.UnitAmount * float64(item.Quantity)
	}
	c.TotalItems = totalItems
	c.TotalAmount = totalAmount
}

func lineID(productID, variantID string, at time.Time) string {
	return fmt.Sprintf("%s:%s:%d", productID, variantID, at.UnixNano())
}
