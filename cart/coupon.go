package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"orvia/db"
	"orvia/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

type Coupon struct {
	Code      string    `bson:"code" json:"code"`
	Discount  float64   `bson:"discount" json:"discount"` // % value e.g. 10 means 10%
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
	Active    bool      `bson:"active" json:"active"`
}

type CouponResponse struct {
	Valid    bool    `json:"valid"`
	Discount float64 `json:"discount"` // absolute amount, not %
	Message  string  `json:"message"`
}

// LookupCoupon fetches an applicable coupon by code. Inactive and expired
// coupons are rejected here so checkout and the validate endpoint agree.
func LookupCoupon(ctx context.Context, code string) (Coupon, string) {
	code = strings.TrimSpace(strings.ToLower(code))
	if code == "" {
		return Coupon{}, "No coupon provided"
	}

	var coupon Coupon
	if err := db.CouponCollection.FindOne(ctx, bson.M{"code": code}).Decode(&coupon); err != nil {
		return Coupon{}, "Coupon not found"
	}
	if !coupon.Active {
		return Coupon{}, "Coupon inactive"
	}
	if time.Now().After(coupon.ExpiresAt) {
		return Coupon{}, "Coupon expired"
	}
	return coupon, ""
}

// DiscountFor converts the coupon's flat percentage into an absolute amount.
func DiscountFor(coupon Coupon, subtotal float64) float64 {
	if subtotal <= 0 {
		return 0
	}
	return (subtotal * coupon.Discount) / 100
}

// ValidateCouponHandler checks a coupon against the caller's current cart
// subtotal and reports the absolute discount.
func ValidateCouponHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	coupon, reason := LookupCoupon(ctx, req.Code)
	if reason != "" {
		utils.RespondWithJSON(w, http.StatusOK, CouponResponse{Valid: false, Message: reason})
		return
	}

	store, err := LoadStore(ctx, userID)
	if err != nil {
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, CouponResponse{
		Valid:    true,
		Discount: DiscountFor(coupon, store.TotalAmount()),
		Message:  "Coupon applied successfully",
	})
}
