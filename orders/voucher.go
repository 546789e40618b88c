package orders

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"orvia/db"
	"orvia/globals"
	"orvia/models"
	"orvia/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

// VoucherPayload returns the signed redemption payload embedded in each QR:
// orderID|code|signature.
func VoucherPayload(orderID, code string) string {
	data := fmt.Sprintf("%s|%s", orderID, code)

	h := hmac.New(sha256.New, globals.VoucherSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))

	return fmt.Sprintf("%s|%s", data, sig)
}

// VerifyVoucherPayload checks the signature of a scanned payload.
func VerifyVoucherPayload(payload string) bool {
	i := lastPipe(payload)
	if i < 0 {
		return false
	}
	data, sig := payload[:i], payload[i+1:]

	h := hmac.New(sha256.New, globals.VoucherSecret)
	h.Write([]byte(data))
	want := base64.StdEncoding.EncodeToString(h.Sum(nil))

	return hmac.Equal([]byte(want), []byte(sig))
}

func lastPipe(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '|' {
			return i
		}
	}
	return -1
}

// PrintVoucher renders a PDF gift voucher for a paid order: one section per
// line item with the recipient details and a signed QR per activation code.
func (s *OrderService) PrintVoucher(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{
		"orderId": ps.ByName("orderid"),
		"userId":  userID,
	}).Decode(&order)
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if order.Status != models.OrderPaid {
		http.Error(w, "Voucher available for paid orders only", http.StatusConflict)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Gift Voucher")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Order: %s", order.OrderID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s", order.PaidAt.Format("2006-01-02")))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	qrIndex := 0

	for _, item := range order.Items {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 10, fmt.Sprintf("%s (%.2f %s)", item.ProductName, item.UnitAmount, item.Currency))
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 12)
		if item.RecipientName != "" {
			pdf.Cell(0, 8, fmt.Sprintf("For: %s", item.RecipientName))
			pdf.Ln(6)
		}
		if item.Message != "" {
			pdf.Cell(0, 8, item.Message)
			pdf.Ln(6)
		}

		for _, code := range item.Codes {
			qrPNG, err := qrcode.Encode(VoucherPayload(order.OrderID, code), qrcode.Medium, 256)
			if err != nil {
				http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
				return
			}

			y := pdf.GetY()
			pdf.Cell(0, 8, fmt.Sprintf("Code: %s", code))

			qrName := fmt.Sprintf("qr%d", qrIndex)
			qrIndex++
			pdf.RegisterImageOptionsReader(qrName, imageOpts, bytes.NewReader(qrPNG))
			pdf.ImageOptions(qrName, 160, y, 30, 30, false, imageOpts, 0, "")
			pdf.Ln(32)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=voucher-"+order.OrderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
