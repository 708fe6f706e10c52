package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/commerce-api/repository"
	"github.com/junaidrashid-git/commerce-api/response"
	"github.com/junaidrashid-git/commerce-api/services"
	"github.com/shopspring/decimal"
)

// GET /api/products?page=&limit=&category=&search=&inStock=&minPrice=&maxPrice=
func GetProducts(s *services.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := repository.ProductFilter{
			Category: c.Query("category"),
			Search:   c.Query("search"),
		}

		if v := c.Query("inStock"); v != "" {
			inStock, err := strconv.ParseBool(v)
			if err != nil {
				response.Fail(c, http.StatusBadRequest, "Invalid inStock")
				return
			}
			filter.InStock = &inStock
		}
		if v := c.Query("minPrice"); v != "" {
			mp, err := decimal.NewFromString(v)
			if err != nil {
				response.Fail(c, http.StatusBadRequest, "Invalid minPrice")
				return
			}
			filter.MinPrice = &mp
		}
		if v := c.Query("maxPrice"); v != "" {
			mp, err := decimal.NewFromString(v)
			if err != nil {
				response.Fail(c, http.StatusBadRequest, "Invalid maxPrice")
				return
			}
			filter.MaxPrice = &mp
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultProductLimit)))

		products, err := s.List(c.Request.Context(), filter, page, limit)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, products)
	}
}
