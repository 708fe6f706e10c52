package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/commerce-api/response"
)

// ValidateAPIKey guards the admin tooling routes. An empty key disables them.
func ValidateAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-KEY")
		if key == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) != 1 {
			response.Fail(c, http.StatusUnauthorized, "Invalid or missing API key")
			c.Abort()
			return
		}
		c.Next()
	}
}
