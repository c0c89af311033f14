package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/digitalsolutionsooh/stripe-checkout-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

// StripeWebhook receives and dispatches Stripe webhook events. Once the
// signature verifies, the response is always 200: Stripe retries on non-2xx
// and none of the downstream work is worth a retry storm.
func (cc *CheckoutController) StripeWebhook(c *gin.Context) {
	event, err := cc.Stripe.ParseWebhook(c.Request)
	if err != nil {
		cc.Logger.Warn("webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook signature"})
		return
	}

	cc.Logger.Info("processing webhook event",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
	)

	switch event.Type {
	case "checkout.session.completed":
		cc.handleSessionCompleted(c.Request.Context(), event)
	case "payment_intent.succeeded":
		cc.handleIntentSucceeded(c.Request.Context(), event)
	default:
		cc.Logger.Info("unhandled webhook event type", zap.String("event_type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (cc *CheckoutController) handleSessionCompleted(ctx context.Context, event stripe.Event) {
	var thin stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &thin); err != nil {
		cc.Logger.Error("failed to unmarshal checkout session", zap.Error(err))
		return
	}

	// The event payload carries no line items; re-fetch expanded.
	sess, err := cc.Stripe.GetCheckoutSession(thin.ID, "line_items", "customer")
	if err != nil {
		cc.Logger.Error("failed to fetch completed session", zap.String("session_id", thin.ID), zap.Error(err))
		return
	}

	var items []*stripe.LineItem
	if sess.LineItems != nil {
		items = sess.LineItems.Data
	}

	name, phone := sessionContact(sess)
	if sess.Customer != nil {
		if _, err := cc.Stripe.UpdateCustomer(sess.Customer.ID, name, phone, utmParams(sess.Metadata)); err != nil {
			cc.Logger.Warn("customer update failed",
				zap.String("customer_id", sess.Customer.ID),
				zap.Error(err),
			)
		}
		cc.createInvoice(sess, items)
	}

	purchase := &models.AttributionEvent{
		Name:       models.EventPurchase,
		EventID:    sess.ID,
		EmailHash:  models.HashEmail(sessionEmail(sess)),
		Value:      float64(sess.AmountTotal) / 100,
		Currency:   string(sess.Currency),
		ProductIDs: productIDs(items),
		Timestamp:  time.Now(),
	}
	order := &models.OrderRecord{
		OrderID:       sess.ID,
		Platform:      trackerPlatform,
		PaymentMethod: "credit_card",
		Status:        models.OrderStatusPaid,
		CreatedAt:     time.Now().UTC(),
		Customer: models.OrderCustomer{
			Name:  name,
			Email: sessionEmail(sess),
			Phone: phone,
		},
		Products:       orderProducts(items),
		TrackingParams: utmParams(sess.Metadata),
		Commission:     models.NewCommission(sess.AmountTotal),
	}
	cc.dispatchConversion(ctx, purchase, order)
}

// createInvoice registers one invoice item per purchased line and issues an
// auto-advancing invoice, branded with the configured template when the
// target product was bought. Invoice failures never block the conversion
// dispatch.
func (cc *CheckoutController) createInvoice(sess *stripe.CheckoutSession, items []*stripe.LineItem) {
	for _, li := range items {
		if err := cc.Stripe.CreateInvoiceItem(sess.Customer.ID, li.AmountSubtotal, string(li.Currency), invoiceDescription); err != nil {
			cc.Logger.Warn("invoice item creation failed",
				zap.String("session_id", sess.ID),
				zap.Error(err),
			)
			return
		}
	}

	template := ""
	if containsProduct(items, cc.Catalog.InvoiceProductID) {
		template = cc.Catalog.InvoiceTemplateID
	}
	if _, err := cc.Stripe.CreateInvoice(sess.Customer.ID, template); err != nil {
		cc.Logger.Warn("invoice creation failed",
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
	}
}

func (cc *CheckoutController) handleIntentSucceeded(ctx context.Context, event stripe.Event) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		cc.Logger.Error("failed to unmarshal payment intent", zap.Error(err))
		return
	}

	// Plain checkout intents are already covered by the session-completed
	// path; only one-click upsell charges are tracked here.
	if pi.Metadata["upsell"] != "true" {
		cc.Logger.Info("ignoring non-upsell payment intent", zap.String("payment_intent_id", pi.ID))
		return
	}

	email, name := cc.resolveIntentContact(&pi)

	var products []string
	if priceID := pi.Metadata["price_id"]; priceID != "" {
		products = []string{priceID}
	}

	purchase := &models.AttributionEvent{
		Name:       models.EventPurchase,
		EventID:    pi.ID,
		EmailHash:  models.HashEmail(email),
		Value:      float64(pi.Amount) / 100,
		Currency:   string(pi.Currency),
		ProductIDs: products,
		Timestamp:  time.Now(),
	}
	order := &models.OrderRecord{
		OrderID:       pi.ID,
		Platform:      trackerPlatform,
		PaymentMethod: "credit_card",
		Status:        models.OrderStatusPaid,
		CreatedAt:     time.Now().UTC(),
		Customer: models.OrderCustomer{
			Name:  name,
			Email: email,
		},
		Products: []models.OrderProduct{{
			ID:           pi.Metadata["price_id"],
			Name:         "upsell",
			PriceInCents: pi.Amount,
			Quantity:     1,
		}},
		TrackingParams: utmParams(pi.Metadata),
		Commission:     models.NewCommission(pi.Amount),
	}
	cc.dispatchConversion(ctx, purchase, order)
}

// resolveIntentContact finds the buyer behind an upsell intent with a
// three-tier fallback: billing details embedded on the latest charge, the
// charge fetched by id, then the customer record.
func (cc *CheckoutController) resolveIntentContact(pi *stripe.PaymentIntent) (email, name string) {
	if pi.LatestCharge != nil && pi.LatestCharge.BillingDetails != nil {
		email = pi.LatestCharge.BillingDetails.Email
		name = pi.LatestCharge.BillingDetails.Name
	}
	if email == "" && pi.LatestCharge != nil && pi.LatestCharge.ID != "" {
		if ch, err := cc.Stripe.GetCharge(pi.LatestCharge.ID); err != nil {
			cc.Logger.Warn("charge lookup failed", zap.String("charge_id", pi.LatestCharge.ID), zap.Error(err))
		} else if ch.BillingDetails != nil {
			email = ch.BillingDetails.Email
			if name == "" {
				name = ch.BillingDetails.Name
			}
		}
	}
	if email == "" && pi.Customer != nil {
		if cust, err := cc.Stripe.GetCustomer(pi.Customer.ID); err != nil {
			cc.Logger.Warn("customer lookup failed", zap.String("customer_id", pi.Customer.ID), zap.Error(err))
		} else {
			email = cust.Email
			if name == "" {
				name = cust.Name
			}
		}
	}
	return email, name
}

// sessionEmail prefers the details collected at checkout over the customer
// record.
func sessionEmail(sess *stripe.CheckoutSession) string {
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		return sess.CustomerDetails.Email
	}
	if sess.Customer != nil {
		return sess.Customer.Email
	}
	return ""
}

func sessionContact(sess *stripe.CheckoutSession) (name, phone string) {
	if sess.CustomerDetails != nil {
		return sess.CustomerDetails.Name, sess.CustomerDetails.Phone
	}
	return "", ""
}
