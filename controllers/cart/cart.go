package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/commerce-api/auth"
	"github.com/junaidrashid-git/commerce-api/response"
	"github.com/junaidrashid-git/commerce-api/services"
)

type AddItemInput struct {
	ProductID string `json:"productId" binding:"required"`
}

type QuantityInput struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// owner resolves whose cart the request touches. Guests and signed-in users
// both carry a session, so one set of handlers serves both.
func owner(c *gin.Context) (string, bool) {
	claims, ok := auth.RequireClaims(c)
	if !ok {
		return "", false
	}
	return claims.UserID, true
}

// GET /api/cart
func GetCart(s *services.Carts) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := owner(c)
		if !ok {
			return
		}
		cart, err := s.Get(c.Request.Context(), userID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, cart)
	}
}

// POST /api/cart/items
func AddCartItem(s *services.Carts) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := owner(c)
		if !ok {
			return
		}

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}

		cart, err := s.AddItem(c.Request.Context(), userID, input.ProductID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, cart, "Item added to cart")
	}
}

// PUT /api/cart/items/:productId
// A quantity of zero or less removes the line.
func UpdateCartItem(s *services.Carts) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := owner(c)
		if !ok {
			return
		}

		var input QuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}

		cart, err := s.UpdateQuantity(c.Request.Context(), userID, c.Param("productId"), *input.Quantity)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, cart, "Cart updated")
	}
}

// DELETE /api/cart/items/:productId
func DeleteCartItem(s *services.Carts) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := owner(c)
		if !ok {
			return
		}
		cart, err := s.RemoveItem(c.Request.Context(), userID, c.Param("productId"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, cart, "Item removed from cart")
	}
}

// DELETE /api/cart
func ClearCart(s *services.Carts) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := owner(c)
		if !ok {
			return
		}
		cart, err := s.Clear(c.Request.Context(), userID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, cart, "Cart cleared")
	}
}

// GET /api/cart/total
func GetCartTotal(s *services.Carts) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := owner(c)
		if !ok {
			return
		}
		total, err := s.Total(c.Request.Context(), userID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, total)
	}
}

// GET /api/admin/user-cart/:user_id
func GetAdminUserCart(s *services.Carts) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := s.Get(c.Request.Context(), c.Param("user_id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, cart)
	}
}
