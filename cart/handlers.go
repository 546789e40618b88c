package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"orvia/db"
	"orvia/models"
	"orvia/notify"
	"orvia/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// CartService wires the facade to HTTP. One instance per process; the
// per-user store is rehydrated per request.
type CartService struct {
	notifier notify.Notifier
}

func NewCartService(notifier notify.Notifier) *CartService {
	return &CartService{notifier: notifier}
}

func (s *CartService) facadeFor(ctx context.Context, userID string) (*Facade, error) {
	store, err := LoadStore(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewFacade(store, s.notifier, userID), nil
}

// GetCart returns the user's cart with totals.
func (s *CartService) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	store, err := LoadStore(ctx, userID)
	if err != nil {
		log.Println("GetCart load error:", err)
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, store.Snapshot())
}

// AddToCart resolves the product, then merges the selection into the cart.
func (s *CartService) AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		ProductID string `json:"productId"`
		VariantID string `json:"variantId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("AddToCart decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if req.ProductID == "" || req.VariantID == "" {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": req.ProductID, "active": true}).Decode(&product); err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	facade, err := s.facadeFor(ctx, userID)
	if err != nil {
		log.Println("AddToCart load error:", err)
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}

	if err := facade.AddToCart(ctx, product, req.VariantID, req.Quantity); err != nil {
		if errors.Is(err, ErrInvalidSelection) {
			utils.RespondWithError(w, http.StatusUnprocessableEntity, "Selected option is no longer available")
			return
		}
		http.Error(w, "Failed to add to cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, facade.Snapshot())
}

// RemoveItem deletes one line item.
func (s *CartService) RemoveItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	facade, err := s.facadeFor(ctx, userID)
	if err != nil {
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}

	facade.RemoveFromCart(ctx, ps.ByName("itemid"))
	utils.RespondWithJSON(w, http.StatusOK, facade.Snapshot())
}

// IncreaseQuantity bumps a line's quantity by one.
func (s *CartService) IncreaseQuantity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.stepQuantity(w, r, ps.ByName("itemid"), +1)
}

// DecreaseQuantity steps a line's quantity down by one; at one the line is
// removed.
func (s *CartService) DecreaseQuantity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.stepQuantity(w, r, ps.ByName("itemid"), -1)
}

func (s *CartService) stepQuantity(w http.ResponseWriter, r *http.Request, itemID string, delta int) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	facade, err := s.facadeFor(ctx, userID)
	if err != nil {
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}

	if delta > 0 {
		facade.IncreaseQuantity(ctx, itemID)
	} else {
		facade.DecreaseQuantity(ctx, itemID)
	}
	utils.RespondWithJSON(w, http.StatusOK, facade.Snapshot())
}

// UpdateRecipient patches gift-recipient fields on one line item.
func (s *CartService) UpdateRecipient(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var patch RecipientPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	facade, err := s.facadeFor(ctx, userID)
	if err != nil {
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}

	facade.UpdateRecipient(ctx, ps.ByName("itemid"), patch)
	utils.RespondWithJSON(w, http.StatusOK, facade.Snapshot())
}

// ClearCart empties the cart. Used by the storefront's own "clear" button;
// checkout flows clear through the store directly.
func (s *CartService) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	facade, err := s.facadeFor(ctx, userID)
	if err != nil {
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}

	facade.Clear(ctx)
	utils.RespondWithJSON(w, http.StatusOK, facade.Snapshot())
}
