package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/junaidrashid-git/commerce-api/controllers/order"
	"github.com/junaidrashid-git/commerce-api/middleware"
	"github.com/junaidrashid-git/commerce-api/models"
)

func SetupOrderRoutes(api *gin.RouterGroup, d Deps) {
	orders := api.Group("/orders", middleware.ValidateToken(d.Auth))
	{
		// websocket endpoint for real-time order updates
		orders.GET("/ws", middleware.RequireRole(models.RoleAdmin, models.RoleStoreOwner, models.RoleDeliveryPartner),
			orderControllers.OrderWebSocketHandler(d.Hub))

		// Checkout the caller's cart
		orders.POST("", orderControllers.PlaceOrderHandler(d.Orders))

		// Guests only see their own orders
		orders.GET("", orderControllers.GetAllOrdersHandler(d.Orders))
		orders.GET("/:id", orderControllers.GetOrderByIDHandler(d.Orders))
		orders.POST("/:id/cancel", orderControllers.CancelOrderHandler(d.Orders))

		// Fulfilment
		orders.PUT("/:id/status", middleware.RequireRole(models.RoleAdmin, models.RoleStoreOwner, models.RoleDeliveryPartner),
			orderControllers.UpdateOrderStatusHandler(d.Orders))
		orders.PUT("/:id/payment", middleware.RequireRole(models.RoleAdmin, models.RoleStoreOwner),
			orderControllers.UpdatePaymentStatusHandler(d.Orders))
		orders.DELETE("/:id", middleware.RequireRole(models.RoleAdmin),
			orderControllers.DeleteOrderHandler(d.Orders))
	}
}
