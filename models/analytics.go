package models

import "github.com/shopspring/decimal"

// DashboardAnalytics is computed per request and never persisted.
type DashboardAnalytics struct {
	DailySales        decimal.Decimal `json:"dailySales"`
	OrdersCount       int             `json:"ordersCount"`
	PendingDeliveries int             `json:"pendingDeliveries"`
	LowStockItems     int             `json:"lowStockItems"`
	SalesTrend        float64         `json:"salesTrend"`  // % change vs the prior window
	OrdersTrend       float64         `json:"ordersTrend"` // % change vs the prior window
}
