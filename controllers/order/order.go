package orderControllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/commerce-api/auth"
	"github.com/junaidrashid-git/commerce-api/models"
	"github.com/junaidrashid-git/commerce-api/repository"
	"github.com/junaidrashid-git/commerce-api/response"
	"github.com/junaidrashid-git/commerce-api/services"
)

// -------- Request Structs --------

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" binding:"required"`
}

// -------- Helpers --------

const dateLayout = "2006-01-02"

// parseDate accepts RFC 3339 or a bare date. A bare dateTo covers the whole day.
func parseDate(v string, endOfDay bool) (*time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// visible hides other customers' orders from guest sessions. Account roles
// run the store and see every order.
func visible(claims *auth.Claims, o *models.Order) bool {
	return !claims.IsGuest() || o.CustomerID == claims.UserID
}

// load resolves :id (order id or display code) and applies visibility.
func load(c *gin.Context, s *services.Orders, claims *auth.Claims) (*models.Order, bool) {
	order, err := s.Get(c.Request.Context(), c.Param("id"))
	if err == nil && !visible(claims, order) {
		err = fmt.Errorf("%w: order %s", models.ErrNotFound, c.Param("id"))
	}
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return order, true
}

// -------- Handlers --------

// PlaceOrderHandler checks out the caller's cart.
// POST /api/orders
func PlaceOrderHandler(s *services.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.RequireClaims(c)
		if !ok {
			return
		}

		var req services.CheckoutInput
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		order, err := s.Place(c.Request.Context(), claims.UserID, claims.UserID, req)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, order, "Order placed successfully")
	}
}

// GET /api/orders?status=&search=&dateFrom=&dateTo=&page=&limit=
func GetAllOrdersHandler(s *services.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.RequireClaims(c)
		if !ok {
			return
		}

		filter := repository.OrderFilter{Search: c.Query("search")}
		if v := c.Query("status"); v != "" {
			status, err := models.ParseOrderStatus(v)
			if err != nil {
				response.Error(c, err)
				return
			}
			filter.Status = status
		}
		if v := c.Query("dateFrom"); v != "" {
			t, err := parseDate(v, false)
			if err != nil {
				response.Fail(c, http.StatusBadRequest, "Invalid dateFrom")
				return
			}
			filter.DateFrom = t
		}
		if v := c.Query("dateTo"); v != "" {
			t, err := parseDate(v, true)
			if err != nil {
				response.Fail(c, http.StatusBadRequest, "Invalid dateTo")
				return
			}
			filter.DateTo = t
		}
		if claims.IsGuest() {
			filter.CustomerID = claims.UserID
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultOrderLimit)))

		orders, err := s.List(c.Request.Context(), filter, page, limit)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, orders)
	}
}

// GetOrderByIDHandler resolves either the order id or its ORD- code.
// GET /api/orders/:id
func GetOrderByIDHandler(s *services.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.RequireClaims(c)
		if !ok {
			return
		}
		order, ok := load(c, s, claims)
		if !ok {
			return
		}
		response.OK(c, order)
	}
}

// PUT /api/orders/:id/status
func UpdateOrderStatusHandler(s *services.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		order, err := s.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.Note)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, order, "Order status updated successfully")
	}
}

// CancelOrderHandler lets staff cancel any order and guests cancel their own.
// POST /api/orders/:id/cancel
func CancelOrderHandler(s *services.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.RequireClaims(c)
		if !ok {
			return
		}
		var req CancelOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		order, ok := load(c, s, claims)
		if !ok {
			return
		}
		order, err := s.Cancel(c.Request.Context(), order.ID, req.Reason)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, order, "Order cancelled")
	}
}

// PUT /api/orders/:id/payment
func UpdatePaymentStatusHandler(s *services.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		order, err := s.UpdatePaymentStatus(c.Request.Context(), c.Param("id"), req.PaymentStatus)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, order, "Payment status updated successfully")
	}
}

// DELETE /api/orders/:id
func DeleteOrderHandler(s *services.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.Delete(c.Request.Context(), c.Param("id")); err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, nil, "Order deleted successfully")
	}
}
