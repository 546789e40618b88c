package admin

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"orvia/catalog"
	"orvia/db"
	"orvia/models"
	"orvia/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// CreateProduct inserts a new product with its variants.
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if product.Name == "" || len(product.Variants) == 0 {
		http.Error(w, "Name and at least one variant are required", http.StatusBadRequest)
		return
	}
	for i, v := range product.Variants {
		if v.Price <= 0 || v.Currency == "" {
			http.Error(w, "Every variant needs a positive price and a currency", http.StatusBadRequest)
			return
		}
		if v.VariantID == "" {
			product.Variants[i].VariantID = utils.GetUUID()
		}
	}

	product.ProductID = "p" + utils.GenerateRandomString(12)
	product.Active = true
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	if _, err := db.ProductCollection.InsertOne(ctx, product); err != nil {
		log.Println("CreateProduct InsertOne error:", err)
		http.Error(w, "Failed to create product", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct replaces mutable product fields, variants included.
func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("productid")

	var patch struct {
		Name        *string          `json:"name"`
		Description *string          `json:"description"`
		Category    *string          `json:"category"`
		Active      *bool            `json:"active"`
		Variants    []models.Variant `json:"variants"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Active != nil {
		set["active"] = *patch.Active
	}
	if patch.Variants != nil {
		for i, v := range patch.Variants {
			if v.VariantID == "" {
				patch.Variants[i].VariantID = utils.GetUUID()
			}
		}
		set["variants"] = patch.Variants
	}

	res, err := db.ProductCollection.UpdateOne(ctx, bson.M{"productid": productID}, bson.M{"$set": set})
	if err != nil {
		log.Println("UpdateProduct UpdateOne error:", err)
		http.Error(w, "Failed to update product", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	catalog.InvalidateCache(productID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteProduct deactivates a product instead of removing it; paid orders
// keep referencing its snapshot.
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("productid")

	res, err := db.ProductCollection.UpdateOne(ctx,
		bson.M{"productid": productID},
		bson.M{"$set": bson.M{"active": false, "updatedAt": time.Now()}},
	)
	if err != nil {
		log.Println("DeleteProduct UpdateOne error:", err)
		http.Error(w, "Failed to delete product", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	catalog.InvalidateCache(productID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UploadProductImage accepts a multipart image, stores it plus a thumbnail,
// and points the product at the new image.
func UploadProductImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	productID := ps.ByName("productid")

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		http.Error(w, "Image file is required", http.StatusBadRequest)
		return
	}

	imageURL, err := catalog.SaveProductImage(files[0], productID)
	if err != nil {
		log.Println("UploadProductImage save error:", err)
		http.Error(w, "Failed to store image", http.StatusInternalServerError)
		return
	}

	res, err := db.ProductCollection.UpdateOne(ctx,
		bson.M{"productid": productID},
		bson.M{"$set": bson.M{"imageUrl": imageURL, "updatedAt": time.Now()}},
	)
	if err != nil || res.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	catalog.InvalidateCache(productID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"imageUrl": imageURL})
}
