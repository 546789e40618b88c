package admin

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"orvia/db"
	"orvia/models"
	"orvia/stock"
	"orvia/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// UploadCodes bulk-loads activation codes for one variant.
func UploadCodes(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	productID := ps.ByName("productid")
	variantID := ps.ByName("variantid")

	var req struct {
		Codes []string `json:"codes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if len(req.Codes) == 0 {
		http.Error(w, "No codes provided", http.StatusBadRequest)
		return
	}

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&product); err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if _, ok := product.FindVariant(variantID); !ok {
		http.Error(w, "Variant not found", http.StatusNotFound)
		return
	}

	inserted, err := stock.AddCodes(ctx, productID, variantID, req.Codes)
	if err != nil {
		log.Println("UploadCodes error:", err)
		http.Error(w, "Failed to store codes", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]int{"inserted": inserted})
}

// GetStock reports per-variant availability for one product, with masked
// samples of the most recently added codes.
func GetStock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("productid")

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&product); err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	type variantStock struct {
		VariantID    string   `json:"variantId"`
		DisplayValue string   `json:"displayValue"`
		Available    int      `json:"available"`
		RecentCodes  []string `json:"recentCodes,omitempty"`
	}

	report := make([]variantStock, 0, len(product.Variants))
	for _, v := range product.Variants {
		available, err := stock.Available(ctx, productID, v.VariantID)
		if err != nil {
			log.Println("GetStock count error:", err)
			http.Error(w, "Failed to count stock", http.StatusInternalServerError)
			return
		}
		recent, err := stock.RecentCodes(ctx, productID, v.VariantID, 3)
		if err != nil {
			log.Println("GetStock recent codes error:", err)
			http.Error(w, "Failed to list stock", http.StatusInternalServerError)
			return
		}
		report = append(report, variantStock{
			VariantID:    v.VariantID,
			DisplayValue: v.DisplayValue,
			Available:    available,
			RecentCodes:  recent,
		})
	}

	utils.RespondWithJSON(w, http.StatusOK, report)
}
