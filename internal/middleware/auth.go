package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth returns middleware that validates the apiKey query parameter
// against the configured shared secret using constant-time comparison.
// It guards the dispatch endpoint; the rejection body matches the endpoint's
// response shape.
func APIKeyAuth(validKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Query("apiKey")
		if subtle.ConstantTimeCompare([]byte(key), []byte(validKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid API key",
			})
			return
		}
		c.Next()
	}
}
