package middleware

import (
	"regexp"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS restricts browser callers to the configured storefront origins. An
// optional pattern admits a whole origin family (the embed-player domains),
// on top of the fixed allow-list.
func CORS(allowedOrigins []string, originPattern string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if originPattern != "" {
		re := regexp.MustCompile(originPattern)
		cfg.AllowOriginFunc = func(origin string) bool {
			return re.MatchString(origin)
		}
	}
	return cors.New(cfg)
}
