package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/commerce-api/auth"
	"github.com/junaidrashid-git/commerce-api/events"
	"github.com/junaidrashid-git/commerce-api/metrics"
	"github.com/junaidrashid-git/commerce-api/services"
)

// Deps is everything the route groups hand to their controllers.
type Deps struct {
	Auth      *auth.Service
	Catalog   *services.Catalog
	Carts     *services.Carts
	Orders    *services.Orders
	Dashboard *services.Dashboard
	Hub       *events.Hub
	Metrics   *metrics.Metrics

	AdminAPIKey string
}

// SetupRoutes is the single entry-point that wires every route group under /api.
func SetupRoutes(r *gin.Engine, d Deps) {
	if d.Metrics != nil {
		r.GET("/metrics", d.Metrics.Handler())
	}

	api := r.Group("/api")

	// Public auth routes; logout and me need a session
	SetupAuthRoutes(api, d)

	// Catalog browsing is public, edits need a store role
	SetupProductRoutes(api, d)

	// Profile and cart (JWT-protected, guests allowed on the cart)
	SetupUserRoutes(api, d)

	// order routes
	SetupOrderRoutes(api, d)

	// Admin routes (API-Key-protected)
	SetupAdminRoutes(api, d)
}
