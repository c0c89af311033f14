package config

import (
	"fmt"
	"os"
	"strings"
)

// Catalog maps funnel products to their post-payment behavior. Injected into
// the controller so handlers never carry price/product literals.
type Catalog struct {
	SuccessURLs       map[string]string // price id -> post-payment redirect
	DefaultSuccessURL string
	CancelURL         string
	InvoiceProductID  string // product that gets the branded invoice template
	InvoiceTemplateID string
}

// SuccessURLFor returns the redirect URL configured for a price id,
// falling back to the catalog default.
func (c *Catalog) SuccessURLFor(priceID string) string {
	if url, ok := c.SuccessURLs[priceID]; ok {
		return url
	}
	return c.DefaultSuccessURL
}

type Config struct {
	Port string

	StripeSecretKey     string
	StripeWebhookSecret string

	PixelID          string
	PixelAccessToken string

	TrackerAPIURL string
	TrackerAPIKey string

	PayPalVerifyURL string

	AllowedOrigins     []string
	AllowedOriginRegex string

	Catalog Catalog
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8000"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		PixelID:             os.Getenv("PIXEL_ID"),
		PixelAccessToken:    os.Getenv("PIXEL_ACCESS_TOKEN"),
		TrackerAPIURL:       os.Getenv("TRACKER_API_URL"),
		TrackerAPIKey:       os.Getenv("TRACKER_API_KEY"),
		PayPalVerifyURL:     getEnv("PAYPAL_VERIFY_URL", "https://ipnpb.paypal.com/cgi-bin/webscr"),
		AllowedOrigins:      splitList(getEnv("CORS_ALLOWED_ORIGINS", "https://learnmoredigitalcourse.com")),
		AllowedOriginRegex:  os.Getenv("CORS_ALLOWED_ORIGIN_REGEX"),
		Catalog: Catalog{
			SuccessURLs:       parsePairs(os.Getenv("CHECKOUT_SUCCESS_URLS")),
			DefaultSuccessURL: os.Getenv("CHECKOUT_DEFAULT_SUCCESS_URL"),
			CancelURL:         os.Getenv("CHECKOUT_CANCEL_URL"),
			InvoiceProductID:  os.Getenv("INVOICE_PRODUCT_ID"),
			InvoiceTemplateID: os.Getenv("INVOICE_TEMPLATE_ID"),
		},
	}

	if cfg.StripeSecretKey == "" || cfg.StripeWebhookSecret == "" {
		return nil, fmt.Errorf("missing required environment variables STRIPE_SECRET_KEY / STRIPE_WEBHOOK_SECRET")
	}
	if cfg.Catalog.DefaultSuccessURL == "" || cfg.Catalog.CancelURL == "" {
		return nil, fmt.Errorf("missing required environment variables CHECKOUT_DEFAULT_SUCCESS_URL / CHECKOUT_CANCEL_URL")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parsePairs parses "price_abc=https://site/up1,price_def=https://site/up2"
// into a lookup map. Malformed entries are skipped.
func parsePairs(raw string) map[string]string {
	pairs := make(map[string]string)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 || kv[0] == "" || kv[1] == "" {
			continue
		}
		pairs[kv[0]] = kv[1]
	}
	return pairs
}
