package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"orvia/db"
	"orvia/models"
	"orvia/notify"
	"orvia/stock"
	"orvia/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AdminService carries the notifier so refunds can tell the buyer.
type AdminService struct {
	notifier notify.Notifier
}

func NewAdminService(notifier notify.Notifier) *AdminService {
	return &AdminService{notifier: notifier}
}

// ListOrders returns all orders for the back-office, optional ?status= and
// ?userId= filters, newest first.
func (s *AdminService) ListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if userID := r.URL.Query().Get("userId"); userID != "" {
		filter["userId"] = userID
	}

	limit, skip := utils.ParsePagination(r, 50, 200)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))

	cursor, err := db.OrderCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("admin ListOrders Find error:", err)
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		log.Println("admin ListOrders cursor.All error:", err)
		http.Error(w, "Error reading order data", http.StatusInternalServerError)
		return
	}

	if len(orders) == 0 {
		orders = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// RefundOrder marks a paid order refunded and revokes its activation codes.
func (s *AdminService) RefundOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	adminID := utils.GetUserIDFromRequest(r)
	orderID := ps.ByName("orderid")

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order); err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if order.Status != models.OrderPaid {
		utils.RespondWithError(w, http.StatusConflict, "Only paid orders can be refunded")
		return
	}

	revoked, err := stock.Revoke(ctx, orderID)
	if err != nil {
		log.Println("RefundOrder revoke error:", err)
		http.Error(w, "Failed to revoke codes", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	if _, err := db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderId": orderID, "status": models.OrderPaid},
		bson.M{"$set": bson.M{"status": models.OrderRefunded, "refundedAt": now, "refundedBy": adminID}},
	); err != nil {
		log.Println("RefundOrder UpdateOne error:", err)
		http.Error(w, "Failed to update order", http.StatusInternalServerError)
		return
	}

	s.notifier.Notify(ctx, order.UserID, models.NoticeInfo,
		fmt.Sprintf("Order %s has been refunded", orderID))

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"status":       "refunded",
		"codesRevoked": revoked,
	})
}

// CreateCoupon adds a percentage coupon.
func (s *AdminService) CreateCoupon(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var coupon struct {
		Code      string    `json:"code"`
		Discount  float64   `json:"discount"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&coupon); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if coupon.Code == "" || coupon.Discount <= 0 || coupon.Discount > 100 {
		http.Error(w, "Code and a discount between 0 and 100 are required", http.StatusBadRequest)
		return
	}

	doc := bson.M{
		"code":      strings.ToLower(strings.TrimSpace(coupon.Code)),
		"discount":  coupon.Discount,
		"expiresAt": coupon.ExpiresAt,
		"active":    true,
	}
	if _, err := db.CouponCollection.InsertOne(ctx, doc); err != nil {
		log.Println("CreateCoupon InsertOne error:", err)
		http.Error(w, "Failed to create coupon", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, doc)
}
