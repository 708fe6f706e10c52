package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/commerce-api/response"
	"github.com/junaidrashid-git/commerce-api/services"
)

// UpdateProduct changes the fields present in the body.
// PUT /api/products/:id
func UpdateProduct(s *services.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch services.ProductPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			response.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		product, err := s.Update(c.Request.Context(), c.Param("id"), patch)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, product, "Product updated successfully")
	}
}

// PATCH /api/products/:id/availability
func ToggleAvailability(s *services.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := s.ToggleAvailability(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		msg := "Product marked unavailable"
		if product.IsAvailable {
			msg = "Product marked available"
		}
		response.Message(c, product, msg)
	}
}
