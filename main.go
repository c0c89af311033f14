package main

import (
	"log"

	"github.com/digitalsolutionsooh/stripe-checkout-backend/config"
	"github.com/digitalsolutionsooh/stripe-checkout-backend/controllers"
	"github.com/digitalsolutionsooh/stripe-checkout-backend/middleware"
	"github.com/digitalsolutionsooh/stripe-checkout-backend/providers"
	"github.com/digitalsolutionsooh/stripe-checkout-backend/routes"
	"github.com/digitalsolutionsooh/stripe-checkout-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[CheckoutService] failed to load config: ", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("[CheckoutService] failed to initialize logger: ", err)
	}
	defer logger.Sync()

	cc := &controllers.CheckoutController{
		Stripe:      services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookSecret),
		Attribution: providers.NewFacebookProvider(cfg.PixelID, cfg.PixelAccessToken),
		Tracker:     providers.NewTrackerProvider(cfg.TrackerAPIURL, cfg.TrackerAPIKey),
		PayPal:      providers.NewPayPalVerifier(cfg.PayPalVerifyURL),
		Catalog:     &cfg.Catalog,
		Logger:      logger,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins, cfg.AllowedOriginRegex))

	routes.RegisterRoutes(r, cc)

	logger.Info("checkout service running", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("[CheckoutService] server failed: ", err)
	}
}
