package stock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"orvia/db"
	"orvia/models"
	"orvia/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrInsufficientStock is returned when a variant cannot cover the requested
// quantity.
var ErrInsufficientStock = fmt.Errorf("insufficient stock")

// AddCodes inserts a batch of activation codes for a variant. Returns the
// number inserted.
func AddCodes(ctx context.Context, productID, variantID string, codes []string) (int, error) {
	docs := make([]interface{}, 0, len(codes))
	now := time.Now()
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		docs = append(docs, models.ActivationCode{
			CodeID:    utils.GetUUID(),
			ProductID: productID,
			VariantID: variantID,
			Code:      code,
			Status:    models.CodeAvailable,
			AddedAt:   now,
		})
	}
	if len(docs) == 0 {
		return 0, nil
	}

	res, err := db.CodesCollection.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("insert codes: %w", err)
	}
	return len(res.InsertedIDs), nil
}

// Available counts sellable codes for one variant.
func Available(ctx context.Context, productID, variantID string) (int, error) {
	n, err := db.CodesCollection.CountDocuments(ctx, bson.M{
		"productId": productID,
		"variantId": variantID,
		"status":    models.CodeAvailable,
	})
	if err != nil {
		return 0, fmt.Errorf("count codes: %w", err)
	}
	return int(n), nil
}

// CheckAvailability verifies every order line can be covered before a
// pending order is created.
func CheckAvailability(ctx context.Context, items []models.OrderItem) error {
	for _, item := range items {
		available, err := Available(ctx, item.ProductID, item.VariantID)
		if err != nil {
			return err
		}
		if available < item.Quantity {
			return fmt.Errorf("%w: %s/%s has %d of %d",
				ErrInsufficientStock, item.ProductID, item.VariantID, available, item.Quantity)
		}
	}
	return nil
}

// Allocate flips codes available -> sold one at a time, with the status
// guard in the filter so concurrent checkouts cannot oversell. Returns the
// allocated code strings.
func Allocate(ctx context.Context, orderID, productID, variantID string, quantity int) ([]string, error) {
	codes := make([]string, 0, quantity)
	for i := 0; i < quantity; i++ {
		filter := bson.M{
			"productId": productID,
			"variantId": variantID,
			"status":    models.CodeAvailable,
		}
		update := bson.M{"$set": bson.M{
			"status":  models.CodeSold,
			"orderId": orderID,
			"soldAt":  time.Now(),
		}}

		var code models.ActivationCode
		err := db.CodesCollection.FindOneAndUpdate(ctx, filter, update).Decode(&code)
		if err == mongo.ErrNoDocuments {
			return codes, fmt.Errorf("%w: %s/%s ran out mid-allocation", ErrInsufficientStock, productID, variantID)
		}
		if err != nil {
			return codes, fmt.Errorf("allocate code: %w", err)
		}
		codes = append(codes, code.Code)
	}
	return codes, nil
}

// RecentCodes returns masked samples of the newest available codes for one
// variant, for the back-office stock view.
func RecentCodes(ctx context.Context, productID, variantID string, limit int) ([]string, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "addedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := db.CodesCollection.Find(ctx, bson.M{
		"productId": productID,
		"variantId": variantID,
		"status":    models.CodeAvailable,
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("list codes: %w", err)
	}
	defer cursor.Close(ctx)

	var recent []models.ActivationCode
	if err := cursor.All(ctx, &recent); err != nil {
		return nil, fmt.Errorf("read codes: %w", err)
	}

	masked := make([]string, 0, len(recent))
	for _, c := range recent {
		masked = append(masked, MaskCode(c.Code))
	}
	return masked, nil
}

// RevokeCodes marks one allocation batch as revoked. Used to roll back a
// confirm that lost a settlement race; revoking by order id alone would also
// hit the batch the winning confirm just sold.
func RevokeCodes(ctx context.Context, orderID string, codes []string) (int, error) {
	if len(codes) == 0 {
		return 0, nil
	}
	res, err := db.CodesCollection.UpdateMany(ctx,
		bson.M{"orderId": orderID, "code": bson.M{"$in": codes}, "status": models.CodeSold},
		bson.M{"$set": bson.M{"status": models.CodeRevoked}},
	)
	if err != nil {
		return 0, fmt.Errorf("revoke codes: %w", err)
	}
	return int(res.ModifiedCount), nil
}

// Revoke marks every code sold to an order as revoked. Used on refund; the
// codes do not return to the sellable pool.
func Revoke(ctx context.Context, orderID string) (int, error) {
	res, err := db.CodesCollection.UpdateMany(ctx,
		bson.M{"orderId": orderID, "status": models.CodeSold},
		bson.M{"$set": bson.M{"status": models.CodeRevoked}},
	)
	if err != nil {
		return 0, fmt.Errorf("revoke codes: %w", err)
	}
	return int(res.ModifiedCount), nil
}

// MaskCode hides all but the last four characters for admin listings.
func MaskCode(code string) string {
	if len(code) <= 4 {
		return strings.Repeat("*", len(code))
	}
	return strings.Repeat("*", len(code)-4) + code[len(code)-4:]
}
