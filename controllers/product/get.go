package productcontroller

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/commerce-api/response"
	"github.com/junaidrashid-git/commerce-api/services"
)

// GetProductByID returns a single product.
// URL param: /products/:id
func GetProductByID(s *services.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := s.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, product)
	}
}
