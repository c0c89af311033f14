package controllers

import (
	"context"
	"strings"

	"github.com/digitalsolutionsooh/stripe-checkout-backend/models"

	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

const (
	invoiceDescription = "Purchase by Digital Solutions"
	trackerPlatform    = "DigitalSolutions"
)

// productIDs extracts the underlying product ids from session line items.
func productIDs(items []*stripe.LineItem) []string {
	var ids []string
	for _, li := range items {
		if li.Price != nil && li.Price.Product != nil {
			ids = append(ids, li.Price.Product.ID)
		}
	}
	return ids
}

// orderProducts snapshots session line items for the tracking API.
func orderProducts(items []*stripe.LineItem) []models.OrderProduct {
	var products []models.OrderProduct
	for _, li := range items {
		p := models.OrderProduct{
			Name:         li.Description,
			PriceInCents: li.AmountSubtotal,
			Quantity:     li.Quantity,
		}
		if li.Price != nil && li.Price.Product != nil {
			p.ID = li.Price.Product.ID
		}
		products = append(products, p)
	}
	return products
}

func containsProduct(items []*stripe.LineItem, productID string) bool {
	if productID == "" {
		return false
	}
	for _, id := range productIDs(items) {
		if id == productID {
			return true
		}
	}
	return false
}

// utmParams filters metadata down to the attribution tags so internal
// markers (upsell flags, parent session ids) never reach the tracker.
func utmParams(metadata map[string]string) map[string]string {
	utm := make(map[string]string)
	for k, v := range metadata {
		if strings.HasPrefix(k, "utm_") {
			utm[k] = v
		}
	}
	return utm
}

func sessCustomerID(sess *stripe.CheckoutSession) string {
	if sess.Customer != nil {
		return sess.Customer.ID
	}
	return ""
}

// reusablePaymentMethod finds a card that can be charged off-session: the
// payment method attached to the session's intent, else the customer's
// default invoice payment method. Returns "" when nothing is reusable.
func (cc *CheckoutController) reusablePaymentMethod(pi *stripe.PaymentIntent, customerID string) string {
	if pi != nil && pi.PaymentMethod != nil {
		return pi.PaymentMethod.ID
	}
	if customerID == "" {
		return ""
	}
	cust, err := cc.Stripe.GetCustomer(customerID)
	if err != nil {
		cc.Logger.Warn("customer lookup for saved card failed",
			zap.String("customer_id", customerID),
			zap.Error(err),
		)
		return ""
	}
	if cust.InvoiceSettings != nil && cust.InvoiceSettings.DefaultPaymentMethod != nil {
		return cust.InvoiceSettings.DefaultPaymentMethod.ID
	}
	return ""
}

// dispatchConversion fires the attribution event and the order record.
// Both are fire-and-forget: failures are logged and never bubble up, so the
// caller's HTTP response is unaffected.
func (cc *CheckoutController) dispatchConversion(ctx context.Context, event *models.AttributionEvent, order *models.OrderRecord) {
	if err := cc.Attribution.SendEvent(ctx, event); err != nil {
		cc.Logger.Error("attribution dispatch failed",
			zap.String("event_name", event.Name),
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
	}
	if err := cc.Tracker.SubmitOrder(ctx, order); err != nil {
		cc.Logger.Error("order tracking dispatch failed",
			zap.String("order_id", order.OrderID),
			zap.Error(err),
		)
	}
}
