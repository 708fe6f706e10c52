package services

import (
	"context"
	"testing"
	"time"

	"github.com/junaidrashid-git/commerce-api/models"
	"github.com/junaidrashid-git/commerce-api/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard(t *testing.T) {
	at := func(d time.Duration, total string, status models.OrderStatus) models.Order {
		o := models.NewOrder("o-"+total, "ORD-"+total, nil, models.OrderTotals{Total: decimal.RequireFromString(total)}, fixedNow.Add(d))
		o.Status = status
		return *o
	}
	orders := repository.NewMemoryOrders(
		at(-time.Hour, "300", models.OrderStatusOutForDelivery),
		at(-2*time.Hour, "100", models.OrderStatusPending),
		at(-24*time.Hour-time.Hour, "200", models.OrderStatusDelivered),
	)
	products := repository.NewMemoryProducts(
		testProduct("p1", "SKU-100", "10", "0", 2),
		testProduct("p2", "SKU-200", "10", "0", 50),
	)
	svc := NewDashboard(orders, products)
	svc.now = func() time.Time { return fixedNow }

	d, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, d.DailySales.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, 2, d.OrdersCount)
	assert.Equal(t, 1, d.PendingDeliveries)
	assert.Equal(t, 1, d.LowStockItems)
	assert.Equal(t, 100.0, d.SalesTrend)
	assert.Equal(t, 100.0, d.OrdersTrend)
}
