package productcontroller

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/commerce-api/response"
	"github.com/junaidrashid-git/commerce-api/services"
)

// GET /api/categories
func GetAllCategories(s *services.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := s.Categories(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, categories)
	}
}

// GET /api/products/low-stock
func GetLowStock(s *services.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := s.LowStock(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, products)
	}
}
