package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/commerce-api/response"
)

// ClaimsKey is where the auth middleware stores the verified *Claims.
const ClaimsKey = "claims"

// ClaimsFrom returns the verified claims, or nil on unauthenticated routes.
func ClaimsFrom(c *gin.Context) *Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}

// RequireClaims writes a 401 when the route was reached without a session.
func RequireClaims(c *gin.Context) (*Claims, bool) {
	claims := ClaimsFrom(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, "Authorization header is missing")
		return nil, false
	}
	return claims, true
}

// POST /api/auth/login
func LoginHandler(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginInput
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		res, err := s.Login(c.Request.Context(), req)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, res, "Login successful")
	}
}

// POST /api/auth/register
func RegisterHandler(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterInput
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		res, err := s.Register(c.Request.Context(), req)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, res, "Registration successful")
	}
}

// POST /api/auth/guest
func GuestHandler(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := s.Guest(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, res)
	}
}

// POST /api/auth/forgot-password
func ForgotPasswordHandler(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.ForgotPassword(c.Request.Context(), req.Email); err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, nil, "If the email exists, a password reset link has been sent")
	}
}

// POST /api/auth/logout
func LogoutHandler(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := RequireClaims(c)
		if !ok {
			return
		}
		if err := s.Logout(c.Request.Context(), claims); err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, nil, "Logged out successfully")
	}
}

// GET /api/auth/me
func MeHandler(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := RequireClaims(c)
		if !ok {
			return
		}
		user, err := s.Me(c.Request.Context(), claims)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, user)
	}
}
