package orderControllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/junaidrashid-git/commerce-api/auth"
	"github.com/junaidrashid-git/commerce-api/events"
	"github.com/junaidrashid-git/commerce-api/models"
	"github.com/junaidrashid-git/commerce-api/repository"
	"github.com/junaidrashid-git/commerce-api/services"
	"github.com/junaidrashid-git/commerce-api/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const checkoutBody = `{
	"customerName": "Asha Verma",
	"customerEmail": "asha@example.com",
	"customerPhone": "+919876543210",
	"deliveryAddress": {"street": "12 Residency Road", "city": "Bengaluru", "state": "Karnataka", "zipCode": "560025", "country": "India"},
	"paymentMethod": "upi",
	"notes": "leave at the gate"
}`

type harness struct {
	router *gin.Engine
	carts  *services.Carts
	orders *services.Orders
	hub    *events.Hub
}

// claims are injected from test headers so handlers see a verified session.
func fakeAuth(c *gin.Context) {
	id := c.GetHeader("X-Test-User")
	if id == "" {
		return
	}
	role := models.Role(c.GetHeader("X-Test-Role"))
	if role == "" {
		role = models.RoleGuest
	}
	c.Set(auth.ClaimsKey, &auth.Claims{UserID: id, Role: role})
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	products := repository.NewMemoryProducts(models.Product{
		ID: "p1", SKU: "SKU-1", Name: "Headphones", Category: "Electronics",
		Price: decimal.NewFromInt(100), Stock: 5, IsAvailable: true,
	})
	h := &harness{hub: events.NewHub()}
	h.carts = services.NewCarts(session.NewMemoryStore(), products, nil)
	h.orders = services.NewOrders(repository.NewMemoryOrders(), products, h.carts, h.hub, nil, services.OrdersConfig{
		TaxRate:     decimal.NewFromInt(5),
		DeliveryFee: decimal.NewFromInt(50),
	})

	r := gin.New()
	r.GET("/api/orders/ws", OrderWebSocketHandler(h.hub))
	api := r.Group("/api", fakeAuth)
	api.POST("/orders", PlaceOrderHandler(h.orders))
	api.GET("/orders", GetAllOrdersHandler(h.orders))
	api.GET("/orders/:id", GetOrderByIDHandler(h.orders))
	api.PUT("/orders/:id/status", UpdateOrderStatusHandler(h.orders))
	api.POST("/orders/:id/cancel", CancelOrderHandler(h.orders))
	api.PUT("/orders/:id/payment", UpdatePaymentStatusHandler(h.orders))
	api.DELETE("/orders/:id", DeleteOrderHandler(h.orders))
	h.router = r
	t.Cleanup(h.hub.Close)
	return h
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func call[T any](t *testing.T, h *harness, user string, role models.Role, method, path, body string) (int, envelope[T]) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
		req.Header.Set("X-Test-Role", string(role))
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

// place puts one headphone in the owner's cart and checks out.
func place(t *testing.T, h *harness, owner string) models.Order {
	t.Helper()
	_, err := h.carts.AddItem(context.Background(), owner, "p1")
	require.NoError(t, err)
	code, env := call[models.Order](t, h, owner, models.RoleGuest, http.MethodPost, "/api/orders", checkoutBody)
	require.Equal(t, http.StatusCreated, code, env.Error)
	return env.Data
}

func TestPlaceOrder(t *testing.T) {
	h := newHarness(t)

	order := place(t, h, "guest_a")
	assert.Equal(t, "guest_a", order.CustomerID)
	assert.True(t, strings.HasPrefix(order.OrderCode, "ORD-"))
	assert.Equal(t, models.OrderStatusPending, order.Status)
	// 100 + 5% tax + 50 delivery
	assert.True(t, order.Total.Equal(decimal.NewFromInt(155)), order.Total.String())

	cart, err := h.carts.Get(context.Background(), "guest_a")
	require.NoError(t, err)
	assert.Empty(t, cart.Items, "cart cleared on checkout")

	code, env := call[any](t, h, "guest_a", models.RoleGuest, http.MethodPost, "/api/orders", checkoutBody)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error, "cart is empty")

	code, _ = call[any](t, h, "", "", http.MethodPost, "/api/orders", checkoutBody)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestListAndGetVisibility(t *testing.T) {
	h := newHarness(t)
	mine := place(t, h, "guest_a")
	place(t, h, "guest_b")

	_, staff := call[models.Page[models.Order]](t, h, "1", models.RoleAdmin, http.MethodGet, "/api/orders", "")
	assert.Equal(t, 2, staff.Data.Total)

	_, guest := call[models.Page[models.Order]](t, h, "guest_a", models.RoleGuest, http.MethodGet, "/api/orders", "")
	require.Equal(t, 1, guest.Data.Total)
	assert.Equal(t, mine.ID, guest.Data.Data[0].ID)

	code, byCode := call[models.Order](t, h, "guest_a", models.RoleGuest, http.MethodGet, "/api/orders/"+mine.OrderCode, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, mine.ID, byCode.Data.ID)

	code, _ = call[any](t, h, "guest_b", models.RoleGuest, http.MethodGet, "/api/orders/"+mine.ID, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestListFilters(t *testing.T) {
	h := newHarness(t)
	place(t, h, "guest_a")

	today := time.Now().UTC().Format(dateLayout)
	_, env := call[models.Page[models.Order]](t, h, "1", models.RoleAdmin, http.MethodGet,
		"/api/orders?status=pending&search=asha&dateFrom="+today+"&dateTo="+today, "")
	assert.Equal(t, 1, env.Data.Total)

	_, env = call[models.Page[models.Order]](t, h, "1", models.RoleAdmin, http.MethodGet, "/api/orders?status=delivered", "")
	assert.Zero(t, env.Data.Total)

	code, _ := call[any](t, h, "1", models.RoleAdmin, http.MethodGet, "/api/orders?status=lost", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call[any](t, h, "1", models.RoleAdmin, http.MethodGet, "/api/orders?dateFrom=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestStatusLifecycle(t *testing.T) {
	h := newHarness(t)
	order := place(t, h, "guest_a")
	path := "/api/orders/" + order.ID

	code, env := call[models.Order](t, h, "1", models.RoleAdmin, http.MethodPut, path+"/status", `{"status":"confirmed","note":"stock checked"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.OrderStatusConfirmed, env.Data.Status)
	require.Len(t, env.Data.Timeline, 2)
	assert.Equal(t, "stock checked", env.Data.Timeline[1].Note)

	code, env = call[models.Order](t, h, "1", models.RoleAdmin, http.MethodPut, path+"/status", `{"status":"delivered"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.PaymentStatusCompleted, env.Data.PaymentStatus)

	code, _ = call[any](t, h, "1", models.RoleAdmin, http.MethodPut, path+"/status", `{"status":"packed"}`)
	assert.Equal(t, http.StatusConflict, code, "delivered only moves to refunded")

	code, _ = call[any](t, h, "1", models.RoleAdmin, http.MethodPut, path+"/status", `{"status":"teleported"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call[any](t, h, "1", models.RoleAdmin, http.MethodPut, "/api/orders/missing/status", `{"status":"confirmed"}`)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCancel(t *testing.T) {
	h := newHarness(t)
	order := place(t, h, "guest_a")
	path := "/api/orders/" + order.ID + "/cancel"

	code, _ := call[any](t, h, "guest_a", models.RoleGuest, http.MethodPost, path, `{"reason":"too late"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call[any](t, h, "guest_b", models.RoleGuest, http.MethodPost, path, `{"reason":"ordered by mistake"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, env := call[models.Order](t, h, "guest_a", models.RoleGuest, http.MethodPost, path, `{"reason":"ordered by mistake"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.OrderStatusCancelled, env.Data.Status)
	last := env.Data.Timeline[len(env.Data.Timeline)-1]
	assert.Equal(t, "ordered by mistake", last.Note)
}

func TestPaymentAndDelete(t *testing.T) {
	h := newHarness(t)
	order := place(t, h, "guest_a")
	path := "/api/orders/" + order.ID

	code, env := call[models.Order](t, h, "1", models.RoleAdmin, http.MethodPut, path+"/payment", `{"paymentStatus":"failed"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.PaymentStatusFailed, env.Data.PaymentStatus)

	code, _ = call[any](t, h, "1", models.RoleAdmin, http.MethodPut, path+"/payment", `{"paymentStatus":"paid"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call[any](t, h, "1", models.RoleAdmin, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = call[any](t, h, "1", models.RoleAdmin, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestOrderWebSocket(t *testing.T) {
	h := newHarness(t)
	srv := httptest.NewServer(h.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/orders/ws"
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()
	require.Eventually(t, func() bool { return h.hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	order := place(t, h, "guest_a")

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := client.ReadMessage()
	require.NoError(t, err)
	var e events.Event
	require.NoError(t, json.Unmarshal(data, &e))
	assert.Equal(t, events.OrderCreated, e.Type)
	assert.Equal(t, order.ID, e.OrderID)

	client.Close()
	require.Eventually(t, func() bool { return h.hub.Len() == 0 }, time.Second, 10*time.Millisecond)
}
