package cart

import (
	"context"
	"fmt"

	"orvia/db"
	"orvia/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoPersister writes the whole cart document through on every commit.
// One document per user, keyed by userId.
type mongoPersister struct {
	col *mongo.Collection
}

func NewMongoPersister() Persister {
	return &mongoPersister{col: db.CartCollection}
}

func (p *mongoPersister) Save(ctx context.Context, cart models.Cart) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := p.col.ReplaceOne(ctx, bson.M{"userId": cart.UserID}, cart, opts); err != nil {
		return fmt.Errorf("cart upsert: %w", err)
	}
	return nil
}

// LoadCart rehydrates the persisted cart for a user. A missing document means
// an empty cart, not an error. Unknown stored fields are ignored by the bson
// decoder, and derived totals are recomputed by NewStore, so stale or
// partially written documents cannot poison the session.
func LoadCart(ctx context.Context, userID string) (models.Cart, error) {
	var cart models.Cart
	err := db.CartCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return models.Cart{UserID: userID}, nil
	}
	if err != nil {
		return models.Cart{}, fmt.Errorf("cart load: %w", err)
	}
	cart.UserID = userID
	return cart, nil
}

// LoadStore is the common entry point for handlers: rehydrate, wrap, go.
func LoadStore(ctx context.Context, userID string) (*Store, error) {
	cart, err := LoadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewStore(cart, NewMongoPersister()), nil
}
