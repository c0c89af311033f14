package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/digitalsolutionsooh/stripe-checkout-backend/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(
		[]string{"https://store.example.com"},
		`^https://player[0-9]*\.embed\.example\.com$`,
	))
	r.POST("/create-checkout-session", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func preflight(r http.Handler, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/create-checkout-session", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORS_AllowsListedOrigin(t *testing.T) {
	w := preflight(corsRouter(), "https://store.example.com")
	assert.Equal(t, "https://store.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_AllowsEmbedPlayerFamily(t *testing.T) {
	w := preflight(corsRouter(), "https://player3.embed.example.com")
	assert.Equal(t, "https://player3.embed.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_RejectsUnknownOrigin(t *testing.T) {
	w := preflight(corsRouter(), "https://evil.example.com")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	r := corsRouter()
	req := httptest.NewRequest(http.MethodPost, "/create-checkout-session", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestID_HonorsUpstreamHeader(t *testing.T) {
	r := corsRouter()
	req := httptest.NewRequest(http.MethodPost, "/create-checkout-session", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "upstream-id", w.Header().Get("X-Request-ID"))
}
