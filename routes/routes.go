package routes

import (
	"net/http"

	"github.com/digitalsolutionsooh/stripe-checkout-backend/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint once at startup.
func RegisterRoutes(r *gin.Engine, cc *controllers.CheckoutController) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "up"})
	})
	r.POST("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})

	r.POST("/create-checkout-session", cc.CreateCheckoutSession)
	r.POST("/upsell/intent", cc.CreateUpsellIntent)

	// Provider callbacks (authenticated by signature / echo-back, not CORS)
	r.POST("/webhook", cc.StripeWebhook)
	r.POST("/track-paypal", cc.PayPalIPN)
}
