package controllers

import (
	"net/http"

	"github.com/digitalsolutionsooh/stripe-checkout-backend/models"
	"github.com/digitalsolutionsooh/stripe-checkout-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateUpsellIntent charges a returning buyer's saved card for an upsell
// without a second checkout. The intent is created with a deterministic
// idempotency key so a double click produces at most one charge.
func (cc *CheckoutController) CreateUpsellIntent(c *gin.Context) {
	var req models.UpsellIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SessionID == "" || req.PriceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sid and price_id are required"})
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	sess, err := cc.Stripe.GetCheckoutSession(req.SessionID, "payment_intent.payment_method", "customer")
	if err != nil {
		cc.Logger.Warn("upsell session lookup failed", zap.String("sid", req.SessionID), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sid"})
		return
	}

	pmID := cc.reusablePaymentMethod(sess.PaymentIntent, sessCustomerID(sess))
	if pmID == "" || sess.Customer == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "no saved payment method; full checkout required"})
		return
	}

	price, err := cc.Stripe.GetPrice(req.PriceID)
	if err != nil {
		cc.Logger.Error("upsell price lookup failed", zap.String("price_id", req.PriceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Carry the parent session's attribution tags onto the new charge and
	// mark it so the webhook path can recognize it.
	metadata := utmParams(sess.Metadata)
	metadata["upsell"] = "true"
	metadata["parent_session"] = req.SessionID
	metadata["price_id"] = req.PriceID

	pi, err := cc.Stripe.CreatePaymentIntent(&services.UpsellIntentInput{
		Amount:          price.UnitAmount * req.Quantity,
		Currency:        string(price.Currency),
		CustomerID:      sess.Customer.ID,
		PaymentMethodID: pmID,
		Metadata:        metadata,
		IdempotencyKey:  services.UpsellIdempotencyKey(req.SessionID, req.PriceID, req.Quantity),
	})
	if err != nil {
		cc.Logger.Error("upsell intent creation failed",
			zap.String("sid", req.SessionID),
			zap.String("price_id", req.PriceID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"client_secret": pi.ClientSecret, "pm_id": pmID})
}
