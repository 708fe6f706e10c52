package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/junaidrashid-git/commerce-api/events"
	"github.com/junaidrashid-git/commerce-api/metrics"
	"github.com/junaidrashid-git/commerce-api/models"
	"github.com/junaidrashid-git/commerce-api/repository"
	"github.com/junaidrashid-git/commerce-api/session"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2026, 5, 12, 15, 30, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	products *repository.MemoryProducts
	orders   *repository.MemoryOrders
	store    *session.MemoryStore
	metrics  *metrics.Metrics
	events   *recorder

	catalog *Catalog
	carts   *Carts
	svc     *Orders
}

func testProduct(id, sku, price, discount string, stock int) models.Product {
	return models.Product{
		ID:                id,
		SKU:               sku,
		Name:              "Product " + id,
		Description:       "Fixture product for service tests",
		Category:          "Electronics",
		Price:             decimal.RequireFromString(price),
		Discount:          decimal.RequireFromString(discount),
		Stock:             stock,
		LowStockThreshold: 3,
		Images:            []string{"https://img.example.com/" + id + ".jpg"},
		IsAvailable:       true,
		CreatedAt:         fixedNow.Add(-time.Hour),
		UpdatedAt:         fixedNow.Add(-time.Hour),
	}
}

func newFixture(t *testing.T, products ...models.Product) *fixture {
	t.Helper()
	f := &fixture{
		products: repository.NewMemoryProducts(products...),
		orders:   repository.NewMemoryOrders(),
		store:    session.NewMemoryStore(),
		metrics:  metrics.New(),
		events:   &recorder{},
	}
	f.catalog = NewCatalog(f.products)
	f.catalog.now = func() time.Time { return fixedNow }
	f.carts = NewCarts(f.store, f.products, f.metrics)
	f.svc = NewOrders(f.orders, f.products, f.carts, f.events, f.metrics, OrdersConfig{
		TaxRate:     decimal.NewFromInt(5),
		DeliveryFee: decimal.NewFromInt(50),
	})
	f.svc.now = func() time.Time { return fixedNow }
	f.svc.suffix = func() int { return 42 }
	return f
}

func checkout() CheckoutInput {
	return CheckoutInput{
		CustomerName:  "Asha Verma",
		CustomerEmail: "asha@example.com",
		CustomerPhone: "+919876543210",
		DeliveryAddress: AddressInput{
			Street:  "12 Residency Road",
			City:    "Bengaluru",
			State:   "Karnataka",
			ZipCode: "560025",
			Country: "India",
		},
		PaymentMethod: "upi",
	}
}
