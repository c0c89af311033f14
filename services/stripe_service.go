package services

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"

	"github.com/digitalsolutionsooh/stripe-checkout-backend/models"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
	"github.com/stripe/stripe-go/v80/webhook"
)

// UpsellIntentInput carries everything needed to charge a saved card
// off-session for an upsell.
type UpsellIntentInput struct {
	Amount          int64
	Currency        string
	CustomerID      string
	PaymentMethodID string
	Metadata        map[string]string
	IdempotencyKey  string
}

// StripeGateway is the slice of the Stripe API this service uses. Controllers
// depend on the interface so tests can stub the processor.
type StripeGateway interface {
	CreateCheckoutSession(req *models.CreateCheckoutRequest, successURL, cancelURL string) (*stripe.CheckoutSession, error)
	GetCheckoutSession(sessionID string, expand ...string) (*stripe.CheckoutSession, error)
	ListSessionLineItems(sessionID string) ([]*stripe.LineItem, error)
	UpdateCustomer(customerID, name, phone string, metadata map[string]string) (*stripe.Customer, error)
	CreateCustomer(email, name string, metadata map[string]string) (*stripe.Customer, error)
	GetCustomer(customerID string) (*stripe.Customer, error)
	GetCharge(chargeID string) (*stripe.Charge, error)
	GetPrice(priceID string) (*stripe.Price, error)
	CreateInvoiceItem(customerID string, amountCents int64, currency, description string) error
	CreateInvoice(customerID, templateID string) (*stripe.Invoice, error)
	CreatePaymentIntent(in *UpsellIntentInput) (*stripe.PaymentIntent, error)
	ParseWebhook(r *http.Request) (stripe.Event, error)
}

type stripeService struct {
	sc         *client.API
	webhookKey string
}

// NewStripeService builds a gateway around a dedicated Stripe client so the
// API key never lives in package-level state.
func NewStripeService(secretKey, webhookKey string) StripeGateway {
	return &stripeService{
		sc:         client.New(secretKey, nil),
		webhookKey: webhookKey,
	}
}

func (s *stripeService) CreateCheckoutSession(req *models.CreateCheckoutRequest, successURL, cancelURL string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(successURL),
		CancelURL:          stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(req.PriceID),
			Quantity: stripe.Int64(req.Quantity),
		}},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			SetupFutureUsage: stripe.String("off_session"),
			Metadata:         req.UTM(),
		},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	// UTM tags ride on the session itself as well, so the webhook path can
	// recover them without touching the intent.
	for k, v := range req.UTM() {
		params.AddMetadata(k, v)
	}
	return s.sc.CheckoutSessions.New(params)
}

func (s *stripeService) GetCheckoutSession(sessionID string, expand ...string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	for _, e := range expand {
		params.AddExpand(e)
	}
	return s.sc.CheckoutSessions.Get(sessionID, params)
}

func (s *stripeService) ListSessionLineItems(sessionID string) ([]*stripe.LineItem, error) {
	params := &stripe.CheckoutSessionListLineItemsParams{
		Session: stripe.String(sessionID),
	}
	iter := s.sc.CheckoutSessions.ListLineItems(params)
	var items []*stripe.LineItem
	for iter.Next() {
		items = append(items, iter.LineItem())
	}
	return items, iter.Err()
}

func (s *stripeService) UpdateCustomer(customerID, name, phone string, metadata map[string]string) (*stripe.Customer, error) {
	params := &stripe.CustomerParams{}
	if name != "" {
		params.Name = stripe.String(name)
	}
	if phone != "" {
		params.Phone = stripe.String(phone)
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	return s.sc.Customers.Update(customerID, params)
}

func (s *stripeService) CreateCustomer(email, name string, metadata map[string]string) (*stripe.Customer, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	if name != "" {
		params.Name = stripe.String(name)
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	return s.sc.Customers.New(params)
}

func (s *stripeService) GetCustomer(customerID string) (*stripe.Customer, error) {
	return s.sc.Customers.Get(customerID, nil)
}

func (s *stripeService) GetCharge(chargeID string) (*stripe.Charge, error) {
	return s.sc.Charges.Get(chargeID, nil)
}

func (s *stripeService) GetPrice(priceID string) (*stripe.Price, error) {
	return s.sc.Prices.Get(priceID, nil)
}

func (s *stripeService) CreateInvoiceItem(customerID string, amountCents int64, currency, description string) error {
	_, err := s.sc.InvoiceItems.New(&stripe.InvoiceItemParams{
		Customer:    stripe.String(customerID),
		Amount:      stripe.Int64(amountCents),
		Currency:    stripe.String(currency),
		Description: stripe.String(description),
	})
	return err
}

// CreateInvoice creates and finalizes an auto-advancing invoice, applying a
// rendering template when one is given.
func (s *stripeService) CreateInvoice(customerID, templateID string) (*stripe.Invoice, error) {
	params := &stripe.InvoiceParams{
		Customer:    stripe.String(customerID),
		AutoAdvance: stripe.Bool(true),
	}
	if templateID != "" {
		params.Rendering = &stripe.InvoiceRenderingParams{
			Template: stripe.String(templateID),
		}
	}
	inv, err := s.sc.Invoices.New(params)
	if err != nil {
		return nil, err
	}
	return s.sc.Invoices.FinalizeInvoice(inv.ID, &stripe.InvoiceFinalizeInvoiceParams{})
}

func (s *stripeService) CreatePaymentIntent(in *UpsellIntentInput) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(in.Amount),
		Currency:      stripe.String(in.Currency),
		Customer:      stripe.String(in.CustomerID),
		PaymentMethod: stripe.String(in.PaymentMethodID),
		Confirm:       stripe.Bool(true),
		OffSession:    stripe.Bool(true),
	}
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}
	if in.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(in.IdempotencyKey)
	}
	return s.sc.PaymentIntents.New(params)
}

func (s *stripeService) ParseWebhook(r *http.Request) (stripe.Event, error) {
	var event stripe.Event
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return event, err
	}
	r.Body = io.NopCloser(bytes.NewBuffer(payload))
	sigHeader := r.Header.Get("Stripe-Signature")
	return webhook.ConstructEvent(payload, sigHeader, s.webhookKey)
}

// UpsellIdempotencyKey derives a stable key from the upsell parameters so a
// double-submitted request collapses into a single charge at Stripe.
func UpsellIdempotencyKey(sessionID, priceID string, quantity int64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("upsell:%s:%s:%d", sessionID, priceID, quantity)))
	return hex.EncodeToString(sum[:])
}
