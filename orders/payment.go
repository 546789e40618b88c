package orders

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"orvia/cart"
	"orvia/db"
	"orvia/models"
	"orvia/pay"
	"orvia/stock"
	"orvia/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// ConfirmPayment finalizes a paid order: allocate activation codes, mark the
// order paid, clear the cart, notify the buyer. Wrapped in pay.Idempotent so
// gateway retries replay the original response.
func (s *OrderService) ConfirmPayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	session, err := pay.GetSession(ctx, ps.ByName("sessionid"))
	if err != nil || session.UserID != userID {
		http.Error(w, "Payment session not found", http.StatusNotFound)
		return
	}

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderId": session.OrderID}).Decode(&order); err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if order.Status != models.OrderPending {
		// callback replay after the session already settled
		utils.RespondWithJSON(w, http.StatusOK, order)
		return
	}

	// allocate a code per unit; the status guard prevents overselling
	var allocated []string
	for i, item := range order.Items {
		codes, err := stock.Allocate(ctx, order.OrderID, item.ProductID, item.VariantID, item.Quantity)
		allocated = append(allocated, codes...)
		if err != nil {
			log.Println("ConfirmPayment allocation error:", err)
			// roll back only this request's batch
			if _, rerr := stock.RevokeCodes(ctx, order.OrderID, allocated); rerr != nil {
				log.Println("ConfirmPayment revoke error:", rerr)
			}
			utils.RespondWithError(w, http.StatusConflict, "Stock ran out during payment")
			return
		}
		order.Items[i].Codes = codes
	}

	now := time.Now()
	order.Status = models.OrderPaid
	order.PaidAt = now
	res, err := db.OrderCollection.UpdateOne(ctx,
		pendingOrderFilter(order.OrderID),
		bson.M{"$set": bson.M{"status": models.OrderPaid, "paidAt": now, "items": order.Items}},
	)
	if err != nil {
		log.Println("ConfirmPayment UpdateOne error:", err)
		http.Error(w, "Failed to update order", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		// a concurrent confirm or cancel settled the order first; hand this
		// batch back and return whatever state won
		if _, rerr := stock.RevokeCodes(ctx, order.OrderID, allocated); rerr != nil {
			log.Println("ConfirmPayment revoke error:", rerr)
		}
		var settled models.Order
		if err := db.OrderCollection.FindOne(ctx, bson.M{"orderId": order.OrderID}).Decode(&settled); err != nil {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, settled)
		return
	}

	s.settleSession(ctx, session, userID)
	s.notifier.Notify(ctx, userID, models.NoticeSuccess,
		fmt.Sprintf("Payment received, order %s is ready", order.OrderID))

	utils.RespondWithJSON(w, http.StatusOK, order)
}

// CancelPayment voids the session and the pending order. The cart is cleared
// here too; the cart does not know why it was cleared.
func (s *OrderService) CancelPayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	session, err := pay.GetSession(ctx, ps.ByName("sessionid"))
	if err != nil || session.UserID != userID {
		http.Error(w, "Payment session not found", http.StatusNotFound)
		return
	}

	now := time.Now()
	if _, err := db.OrderCollection.UpdateOne(ctx,
		pendingOrderFilter(session.OrderID),
		bson.M{"$set": bson.M{"status": models.OrderCancelled, "cancelledAt": now}},
	); err != nil {
		log.Println("CancelPayment UpdateOne error:", err)
		http.Error(w, "Failed to cancel order", http.StatusInternalServerError)
		return
	}

	s.settleSession(ctx, session, userID)
	s.notifier.Notify(ctx, userID, models.NoticeInfo, "Checkout cancelled")

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "cancelled"})
}

// pendingOrderFilter matches an order only while it is still pending, so
// concurrent settlement attempts cannot both flip its status.
func pendingOrderFilter(orderID string) bson.M {
	return bson.M{"orderId": orderID, "status": models.OrderPending}
}

// settleSession closes the payment session and clears the user's cart. The
// cart is only ever cleared from here after a checkout outcome.
func (s *OrderService) settleSession(ctx context.Context, session models.PaymentSession, userID string) {
	pay.CloseSession(ctx, session.SessionID)

	store, err := cart.LoadStore(ctx, userID)
	if err != nil {
		log.Println("settleSession cart load error:", err)
		return
	}
	store.Clear(ctx)
}
