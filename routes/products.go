package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/junaidrashid-git/commerce-api/controllers/admin"
	productcontroller "github.com/junaidrashid-git/commerce-api/controllers/product"
	"github.com/junaidrashid-git/commerce-api/middleware"
	"github.com/junaidrashid-git/commerce-api/models"
)

// SetupProductRoutes registers the catalog and the dashboard analytics.
func SetupProductRoutes(api *gin.RouterGroup, d Deps) {
	staff := []gin.HandlerFunc{
		middleware.ValidateToken(d.Auth),
		middleware.RequireRole(models.RoleAdmin, models.RoleStoreOwner),
	}

	products := api.Group("/products")
	{
		// ──────────────── Browse ────────────────
		products.GET("", productcontroller.GetProducts(d.Catalog))
		products.GET("/low-stock", productcontroller.GetLowStock(d.Catalog))
		products.GET("/:id", productcontroller.GetProductByID(d.Catalog))

		// ──────────────── Manage ────────────────
		manage := products.Group("", staff...)
		manage.POST("", productcontroller.CreateProduct(d.Catalog))
		manage.PUT("/:id", productcontroller.UpdateProduct(d.Catalog))
		manage.PATCH("/:id/availability", productcontroller.ToggleAvailability(d.Catalog))
		manage.DELETE("/:id", productcontroller.DeleteProduct(d.Catalog))
	}

	api.GET("/categories", productcontroller.GetAllCategories(d.Catalog))
	api.GET("/analytics/dashboard", append(staff, adminController.GetDashboard(d.Dashboard))...)
}
