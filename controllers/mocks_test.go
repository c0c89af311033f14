package controllers_test

import (
	"context"
	"net/http"

	"github.com/digitalsolutionsooh/stripe-checkout-backend/config"
	"github.com/digitalsolutionsooh/stripe-checkout-backend/controllers"
	"github.com/digitalsolutionsooh/stripe-checkout-backend/models"
	"github.com/digitalsolutionsooh/stripe-checkout-backend/routes"
	"github.com/digitalsolutionsooh/stripe-checkout-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

// ---- concrete mock implementing services.StripeGateway ----

type customerUpsert struct {
	id       string
	email    string
	name     string
	phone    string
	metadata map[string]string
}

type mockGateway struct {
	session     *stripe.CheckoutSession
	sessionErr  error
	fullSession *stripe.CheckoutSession
	getErr      error
	lineItems   []*stripe.LineItem
	listErr     error
	price       *stripe.Price
	priceErr    error
	intent      *stripe.PaymentIntent
	intentErr   error
	customer    *stripe.Customer
	customerErr error
	charge      *stripe.Charge
	chargeErr   error

	invoiceItemErr error
	invoiceErr     error

	event    stripe.Event
	parseErr error

	createdCheckouts []*models.CreateCheckoutRequest
	successURLs      []string
	updatedCustomers []customerUpsert
	createdCustomers []customerUpsert
	invoiceItems     []int64
	invoiceTemplates []string
	intentInputs     []*services.UpsellIntentInput
}

func (m *mockGateway) CreateCheckoutSession(req *models.CreateCheckoutRequest, successURL, cancelURL string) (*stripe.CheckoutSession, error) {
	m.createdCheckouts = append(m.createdCheckouts, req)
	m.successURLs = append(m.successURLs, successURL)
	return m.session, m.sessionErr
}

func (m *mockGateway) GetCheckoutSession(sessionID string, expand ...string) (*stripe.CheckoutSession, error) {
	return m.fullSession, m.getErr
}

func (m *mockGateway) ListSessionLineItems(sessionID string) ([]*stripe.LineItem, error) {
	return m.lineItems, m.listErr
}

func (m *mockGateway) UpdateCustomer(customerID, name, phone string, metadata map[string]string) (*stripe.Customer, error) {
	m.updatedCustomers = append(m.updatedCustomers, customerUpsert{id: customerID, name: name, phone: phone, metadata: metadata})
	return m.customer, nil
}

func (m *mockGateway) CreateCustomer(email, name string, metadata map[string]string) (*stripe.Customer, error) {
	m.createdCustomers = append(m.createdCustomers, customerUpsert{email: email, name: name, metadata: metadata})
	return m.customer, m.customerErr
}

func (m *mockGateway) GetCustomer(customerID string) (*stripe.Customer, error) {
	return m.customer, m.customerErr
}

func (m *mockGateway) GetCharge(chargeID string) (*stripe.Charge, error) {
	return m.charge, m.chargeErr
}

func (m *mockGateway) GetPrice(priceID string) (*stripe.Price, error) {
	return m.price, m.priceErr
}

func (m *mockGateway) CreateInvoiceItem(customerID string, amountCents int64, currency, description string) error {
	if m.invoiceItemErr != nil {
		return m.invoiceItemErr
	}
	m.invoiceItems = append(m.invoiceItems, amountCents)
	return nil
}

func (m *mockGateway) CreateInvoice(customerID, templateID string) (*stripe.Invoice, error) {
	if m.invoiceErr != nil {
		return nil, m.invoiceErr
	}
	m.invoiceTemplates = append(m.invoiceTemplates, templateID)
	return &stripe.Invoice{ID: "in_1"}, nil
}

func (m *mockGateway) CreatePaymentIntent(in *services.UpsellIntentInput) (*stripe.PaymentIntent, error) {
	m.intentInputs = append(m.intentInputs, in)
	return m.intent, m.intentErr
}

func (m *mockGateway) ParseWebhook(r *http.Request) (stripe.Event, error) {
	if m.parseErr != nil {
		return stripe.Event{}, m.parseErr
	}
	return m.event, nil
}

// ---- mock outbound providers ----

type mockAttribution struct {
	events []*models.AttributionEvent
	err    error
}

func (m *mockAttribution) SendEvent(_ context.Context, event *models.AttributionEvent) error {
	m.events = append(m.events, event)
	return m.err
}

type mockTracker struct {
	orders []*models.OrderRecord
	err    error
}

func (m *mockTracker) SubmitOrder(_ context.Context, order *models.OrderRecord) error {
	m.orders = append(m.orders, order)
	return m.err
}

type mockVerifier struct {
	verified bool
	err      error
	bodies   [][]byte
}

func (m *mockVerifier) Verify(_ context.Context, body []byte) (bool, error) {
	m.bodies = append(m.bodies, body)
	return m.verified, m.err
}

// ---- helpers ----

func testCatalog() *config.Catalog {
	return &config.Catalog{
		SuccessURLs: map[string]string{
			"price_X": "https://store.example.com/up1",
		},
		DefaultSuccessURL: "https://store.example.com/thanks",
		CancelURL:         "https://store.example.com/error",
		InvoiceProductID:  "prod_target",
		InvoiceTemplateID: "inrtem_custom",
	}
}

func setupRouter(gw *mockGateway, attr *mockAttribution, tr *mockTracker, v *mockVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cc := &controllers.CheckoutController{
		Stripe:      gw,
		Attribution: attr,
		Tracker:     tr,
		PayPal:      v,
		Catalog:     testCatalog(),
		Logger:      zap.NewNop(),
	}
	routes.RegisterRoutes(r, cc)
	return r
}
