package controllers

import (
	"net/http"
	"time"

	"github.com/digitalsolutionsooh/stripe-checkout-backend/config"
	"github.com/digitalsolutionsooh/stripe-checkout-backend/models"
	"github.com/digitalsolutionsooh/stripe-checkout-backend/providers"
	"github.com/digitalsolutionsooh/stripe-checkout-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CheckoutController struct {
	Stripe      services.StripeGateway
	Attribution providers.AttributionProvider
	Tracker     providers.OrderTracker
	PayPal      providers.IPNVerifier
	Catalog     *config.Catalog
	Logger      *zap.Logger
}

// CreateCheckoutSession creates a Stripe checkout session for a funnel price
// and fires the InitiateCheckout attribution event.
func (cc *CheckoutController) CreateCheckoutSession(c *gin.Context) {
	var req models.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.PriceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price_id is required"})
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	sess, err := cc.Stripe.CreateCheckoutSession(&req, cc.Catalog.SuccessURLFor(req.PriceID), cc.Catalog.CancelURL)
	if err != nil {
		cc.Logger.Error("checkout session creation failed", zap.String("price_id", req.PriceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items, err := cc.Stripe.ListSessionLineItems(sess.ID)
	if err != nil {
		cc.Logger.Warn("failed to list session line items",
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
	}

	event := &models.AttributionEvent{
		Name:       models.EventInitiateCheckout,
		EventID:    sess.ID,
		EmailHash:  models.HashEmail(req.CustomerEmail),
		ClientIP:   c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Value:      float64(sess.AmountTotal) / 100,
		Currency:   string(sess.Currency),
		ProductIDs: productIDs(items),
		Timestamp:  time.Now(),
	}
	if err := cc.Attribution.SendEvent(c.Request.Context(), event); err != nil {
		cc.Logger.Warn("initiate-checkout attribution failed",
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
	}

	c.JSON(http.StatusOK, gin.H{"checkout_url": sess.URL})
}
