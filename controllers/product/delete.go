package productcontroller

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/commerce-api/response"
	"github.com/junaidrashid-git/commerce-api/services"
)

// DELETE /api/products/:id
func DeleteProduct(s *services.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.Delete(c.Request.Context(), c.Param("id")); err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, nil, "Product deleted successfully")
	}
}
