package config_test

import (
	"testing"

	"github.com/digitalsolutionsooh/stripe-checkout-backend/config"

	"github.com/stretchr/testify/assert"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_123")
	t.Setenv("CHECKOUT_DEFAULT_SUCCESS_URL", "https://store.example.com/thanks")
	t.Setenv("CHECKOUT_CANCEL_URL", "https://store.example.com/error")
}

func TestLoadConfig_ParsesCatalog(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CHECKOUT_SUCCESS_URLS", "price_a=https://store.example.com/up1, price_b=https://store.example.com/up2,broken")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://store.example.com, https://other.example.com")

	cfg, err := config.LoadConfig()

	assert.NoError(t, err)
	assert.Equal(t, "https://store.example.com/up1", cfg.Catalog.SuccessURLFor("price_a"))
	assert.Equal(t, "https://store.example.com/up2", cfg.Catalog.SuccessURLFor("price_b"))
	// unknown or malformed entries fall back to the default
	assert.Equal(t, "https://store.example.com/thanks", cfg.Catalog.SuccessURLFor("price_z"))
	assert.Equal(t, []string{"https://store.example.com", "https://other.example.com"}, cfg.AllowedOrigins)
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "")

	cfg, err := config.LoadConfig()

	assert.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "https://ipnpb.paypal.com/cgi-bin/webscr", cfg.PayPalVerifyURL)
}

func TestLoadConfig_MissingStripeKeys(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "")
	t.Setenv("CHECKOUT_DEFAULT_SUCCESS_URL", "https://store.example.com/thanks")
	t.Setenv("CHECKOUT_CANCEL_URL", "https://store.example.com/error")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}
