package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/junaidrashid-git/commerce-api/controllers/cart"
	userControllers "github.com/junaidrashid-git/commerce-api/controllers/user"
	"github.com/junaidrashid-git/commerce-api/middleware"
)

// SetupUserRoutes registers the profile and cart endpoints. Requires JWT middleware.
func SetupUserRoutes(api *gin.RouterGroup, d Deps) {
	userGroup := api.Group("/users", middleware.ValidateToken(d.Auth))
	{
		userGroup.GET("/profile", userControllers.GetUser(d.Auth))    // GET /api/users/profile
		userGroup.PUT("/profile", userControllers.UpdateUser(d.Auth)) // PUT /api/users/profile
	}

	// ──────────────── Shopping Cart ────────────────
	cartGroup := api.Group("/cart", middleware.ValidateToken(d.Auth))
	{
		cartGroup.GET("", cartControllers.GetCart(d.Carts))                            // GET /api/cart
		cartGroup.GET("/total", cartControllers.GetCartTotal(d.Carts))                 // GET /api/cart/total
		cartGroup.POST("/items", cartControllers.AddCartItem(d.Carts))                 // POST /api/cart/items
		cartGroup.PUT("/items/:productId", cartControllers.UpdateCartItem(d.Carts))    // PUT /api/cart/items/:productId
		cartGroup.DELETE("/items/:productId", cartControllers.DeleteCartItem(d.Carts)) // DELETE /api/cart/items/:productId
		cartGroup.DELETE("", cartControllers.ClearCart(d.Carts))                       // DELETE /api/cart
	}
}
