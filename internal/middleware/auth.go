package middleware

import (
	"crypto/subtle"
	"net/http"

	"afdian-bridge/internal/response"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth protects the admin surface with the configured key. An empty
// configured key disables the surface entirely.
func APIKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			response.Error(c, http.StatusServiceUnavailable, "admin API disabled")
			c.Abort()
			return
		}

		// Get key from header, falling back to query parameter
		key := c.GetHeader("X-API-Key")
		if key == "" {
			key = c.Query("api_key")
		}

		if key == "" {
			response.Error(c, http.StatusUnauthorized, "missing api key")
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			response.Error(c, http.StatusUnauthorized, "invalid api key")
			c.Abort()
			return
		}

		c.Next()
	}
}
