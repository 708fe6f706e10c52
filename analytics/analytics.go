// Package analytics derives the dashboard figures from orders and products.
// Every function is pure; callers pass the clock in as asOf.
package analytics

import (
	"time"

	"github.com/junaidrashid-git/commerce-api/models"
	"github.com/shopspring/decimal"
)

// StartOfDay truncates t to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

func salesBetween(orders []models.Order, from, to time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range orders {
		if inWindow(o.CreatedAt, from, to) {
			sum = sum.Add(o.Total)
		}
	}
	return sum
}

func countBetween(orders []models.Order, from, to time.Time) int {
	n := 0
	for _, o := range orders {
		if inWindow(o.CreatedAt, from, to) {
			n++
		}
	}
	return n
}

// DailySales sums order totals created between the start of asOf's day and asOf.
func DailySales(orders []models.Order, asOf time.Time) decimal.Decimal {
	return salesBetween(orders, StartOfDay(asOf), asOf)
}

// OrdersCount counts orders in the same window as DailySales.
func OrdersCount(orders []models.Order, asOf time.Time) int {
	return countBetween(orders, StartOfDay(asOf), asOf)
}

func PendingDeliveries(orders []models.Order) int {
	n := 0
	for _, o := range orders {
		if o.Status == models.OrderStatusOutForDelivery {
			n++
		}
	}
	return n
}

func LowStockItems(products []models.Product) int {
	n := 0
	for _, p := range products {
		if p.IsLowStock() {
			n++
		}
	}
	return n
}

// Trend is the percentage change from previous to current, rounded to 2 places.
// A zero previous value yields 0.
func Trend(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		return 0
	}
	return current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}

// Dashboard assembles the analytics snapshot. Trends compare today's window with
// the same window one calendar day earlier.
func Dashboard(orders []models.Order, products []models.Product, asOf time.Time) models.DashboardAnalytics {
	from := StartOfDay(asOf)
	prevFrom, prevTo := from.AddDate(0, 0, -1), asOf.AddDate(0, 0, -1)

	sales := salesBetween(orders, from, asOf)
	count := countBetween(orders, from, asOf)
	prevSales := salesBetween(orders, prevFrom, prevTo)
	prevCount := countBetween(orders, prevFrom, prevTo)

	return models.DashboardAnalytics{
		DailySales:        sales,
		OrdersCount:       count,
		PendingDeliveries: PendingDeliveries(orders),
		LowStockItems:     LowStockItems(products),
		SalesTrend:        Trend(sales, prevSales),
		OrdersTrend:       Trend(decimal.NewFromInt(int64(count)), decimal.NewFromInt(int64(prevCount))),
	}
}
