package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/commerce-api/auth"
	"github.com/junaidrashid-git/commerce-api/models"
	"github.com/junaidrashid-git/commerce-api/response"
)

// UserIDKey holds the authenticated user (or guest) id.
const UserIDKey = "user_id"

// bearer reads the Authorization header, falling back to ?token= for
// browser websocket clients that cannot set headers.
func bearer(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if h == "" {
		return c.Query("token")
	}
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return h
}

// ValidateToken accepts a JWT with or without the Bearer prefix and requires
// its session to still exist.
func ValidateToken(s *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearer(c)
		if tokenString == "" {
			response.Fail(c, http.StatusUnauthorized, "Authorization header is missing")
			c.Abort()
			return
		}

		claims, err := s.Verify(c.Request.Context(), tokenString)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(auth.ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// RequireRole runs after ValidateToken.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := auth.ClaimsFrom(c)
		if claims == nil {
			response.Fail(c, http.StatusUnauthorized, "Authorization header is missing")
			c.Abort()
			return
		}
		if !slices.Contains(roles, claims.Role) {
			response.Fail(c, http.StatusForbidden, "Insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}
