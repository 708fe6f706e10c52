package userControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/commerce-api/auth"
	"github.com/junaidrashid-git/commerce-api/response"
)

// GET /api/users/profile
func GetUser(s *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.RequireClaims(c)
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

// GET /api/admin/users
func GetAllUsers(s *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

		users, err := s.ListUsers(c.Request.Context(), page, limit)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, users)
	}
}

// PUT /api/users/profile
func UpdateUser(s *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.RequireClaims(c)
		if !ok {
			return
		}

		var input auth.ProfileInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		user, err := s.UpdateProfile(c.Request.Context(), claims, input)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, user, "Profile updated successfully")
	}
}
