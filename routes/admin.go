package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/junaidrashid-git/commerce-api/controllers/cart"
	productcontroller "github.com/junaidrashid-git/commerce-api/controllers/product"
	userControllers "github.com/junaidrashid-git/commerce-api/controllers/user"
	"github.com/junaidrashid-git/commerce-api/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-Key middleware.
func SetupAdminRoutes(api *gin.RouterGroup, d Deps) {
	adminGroup := api.Group("/admin", middleware.ValidateAPIKey(d.AdminAPIKey))
	{
		// ─────────── User Management ───────────
		adminGroup.GET("/users", userControllers.GetAllUsers(d.Auth))

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.GET("", productcontroller.GetProducts(d.Catalog))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(d.Catalog))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(d.Catalog))
		}

		adminGroup.GET("/user-cart/:user_id", cartControllers.GetAdminUserCart(d.Carts))
	}
}
