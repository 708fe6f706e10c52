package adminController

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/commerce-api/response"
	"github.com/junaidrashid-git/commerce-api/services"
)

// GetDashboard returns today's headline numbers for the store dashboard.
// GET /api/analytics/dashboard
func GetDashboard(s *services.Dashboard) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := s.Get(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, stats)
	}
}
