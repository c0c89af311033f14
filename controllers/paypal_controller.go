package controllers

import (
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/digitalsolutionsooh/stripe-checkout-backend/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PayPalIPN receives a legacy instant-payment notification, verifies it by
// echoing it back to the provider, and mirrors the verified purchase into the
// attribution and order-tracking systems.
func (cc *CheckoutController) PayPalIPN(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty notification body"})
		return
	}

	verified, err := cc.PayPal.Verify(c.Request.Context(), body)
	if err != nil {
		cc.Logger.Warn("ipn verification request failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "ipn verification failed"})
		return
	}
	if !verified {
		cc.Logger.Warn("ipn rejected by provider")
		c.JSON(http.StatusBadRequest, gin.H{"error": "ipn not verified"})
		return
	}

	form, err := url.ParseQuery(string(body))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed notification body"})
		return
	}

	txnID := form.Get("txn_id")
	email := form.Get("payer_email")
	name := strings.TrimSpace(form.Get("first_name") + " " + form.Get("last_name"))
	itemID := form.Get("item_number")
	itemName := form.Get("item_name")
	currency := strings.ToLower(form.Get("mc_currency"))

	quantity, err := strconv.ParseInt(form.Get("quantity"), 10, 64)
	if err != nil || quantity <= 0 {
		quantity = 1
	}
	gross, _ := strconv.ParseFloat(form.Get("mc_gross"), 64)
	totalCents := int64(math.Round(gross * 100))

	utm := make(map[string]string)
	for _, key := range []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content"} {
		utm[key] = form.Get(key)
	}

	var products []string
	if itemID != "" {
		products = []string{itemID}
	}
	purchase := &models.AttributionEvent{
		Name:       models.EventPurchase,
		EventID:    txnID,
		EmailHash:  models.HashEmail(email),
		ClientIP:   c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Value:      gross,
		Currency:   currency,
		ProductIDs: products,
		Timestamp:  time.Now(),
	}
	// The legacy provider never sends a follow-up confirmation through this
	// path, so the order stays at waiting_payment.
	order := &models.OrderRecord{
		OrderID:       txnID,
		Platform:      trackerPlatform,
		PaymentMethod: "paypal",
		Status:        models.OrderStatusWaitingPayment,
		CreatedAt:     time.Now().UTC(),
		Customer: models.OrderCustomer{
			Name:  name,
			Email: email,
		},
		Products: []models.OrderProduct{{
			ID:           itemID,
			Name:         itemName,
			PriceInCents: totalCents,
			Quantity:     quantity,
		}},
		TrackingParams: utm,
		Commission:     models.NewCommission(totalCents),
	}
	cc.dispatchConversion(c.Request.Context(), purchase, order)

	metadata := utmParams(utm)
	metadata["origin"] = "paypal"
	if _, err := cc.Stripe.CreateCustomer(email, name, metadata); err != nil {
		cc.Logger.Warn("customer creation from ipn failed",
			zap.String("txn_id", txnID),
			zap.Error(err),
		)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
