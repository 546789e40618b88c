package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"orvia/cart"
	"orvia/db"
	"orvia/notify"
	"orvia/pay"
	"orvia/stock"
	"orvia/utils"

	"github.com/julienschmidt/httprouter"
)

// OrderService handles checkout, payment callbacks, and order reads.
type OrderService struct {
	notifier notify.Notifier
}

func NewOrderService(notifier notify.Notifier) *OrderService {
	return &OrderService{notifier: notifier}
}

// Checkout freezes the cart into a pending order and opens a payment
// session. The cart itself is not touched here; it is cleared by the
// payment callbacks.
func (s *OrderService) Checkout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		CouponCode string `json:"couponCode"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	store, err := cart.LoadStore(ctx, userID)
	if err != nil {
		log.Println("Checkout cart load error:", err)
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}
	snapshot := store.Snapshot()

	couponCode := ""
	discount := 0.0
	if req.CouponCode != "" {
		coupon, reason := cart.LookupCoupon(ctx, req.CouponCode)
		if reason != "" {
			utils.RespondWithError(w, http.StatusBadRequest, reason)
			return
		}
		couponCode = coupon.Code
		discount = cart.DiscountFor(coupon, snapshot.TotalAmount)
	}

	order, err := BuildOrder(userID, snapshot, couponCode, discount)
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			utils.RespondWithError(w, http.StatusBadRequest, "Cart is empty")
			return
		}
		http.Error(w, "Failed to build order", http.StatusInternalServerError)
		return
	}

	if err := stock.CheckAvailability(ctx, order.Items); err != nil {
		if errors.Is(err, stock.ErrInsufficientStock) {
			log.Println("Checkout stock check:", err)
			utils.RespondWithError(w, http.StatusConflict, "Some items are out of stock")
			return
		}
		http.Error(w, "Stock check failed", http.StatusInternalServerError)
		return
	}

	if _, err := db.OrderCollection.InsertOne(ctx, order); err != nil {
		log.Println("Checkout InsertOne error:", err)
		http.Error(w, "Order creation failed", http.StatusInternalServerError)
		return
	}

	session, err := pay.CreateSession(ctx, order)
	if err != nil {
		log.Println("Checkout session error:", err)
		http.Error(w, "Failed to open payment session", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"order":   order,
		"session": session,
	})
}
