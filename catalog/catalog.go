package catalog

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"orvia/db"
	"orvia/models"
	"orvia/rdx"
	"orvia/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const productCacheTTL = 5 * time.Minute

// GetProducts lists active products, optional ?category= filter.
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"active": true}
	if cat := r.URL.Query().Get("category"); cat != "" {
		filter["category"] = cat
	}

	cursor, err := db.ProductCollection.Find(ctx, filter)
	if err != nil {
		log.Println("GetProducts Find error:", err)
		http.Error(w, "Could not retrieve products", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		log.Println("GetProducts cursor.All error:", err)
		http.Error(w, "Error reading product data", http.StatusInternalServerError)
		return
	}

	if len(products) == 0 {
		products = []models.Product{}
	}

	utils.RespondWithJSON(w, http.StatusOK, products)
}

// GetProduct returns one product with its variants, read through the Redis
// cache.
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("productid")

	if cached, err := rdx.RdxGet(cacheKey(productID)); err == nil && cached != "" {
		var product models.Product
		if err := json.Unmarshal([]byte(cached), &product); err == nil {
			utils.RespondWithJSON(w, http.StatusOK, product)
			return
		}
	}

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID, "active": true}).Decode(&product); err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	if data, err := json.Marshal(product); err == nil {
		if err := rdx.RdxSetTTL(cacheKey(productID), string(data), productCacheTTL); err != nil {
			log.Println("GetProduct cache set error:", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, product)
}

func cacheKey(productID string) string {
	return "product:" + productID
}

// InvalidateCache drops the cached copy after an admin write.
func InvalidateCache(productID string) {
	if err := rdx.RdxDel(cacheKey(productID)); err != nil {
		log.Println("product cache invalidate error:", err)
	}
}
