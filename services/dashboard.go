package services

import (
	"context"
	"time"

	"github.com/junaidrashid-git/commerce-api/analytics"
	"github.com/junaidrashid-git/commerce-api/models"
	"github.com/junaidrashid-git/commerce-api/repository"
)

// Dashboard computes analytics from a fresh snapshot on every call.
type Dashboard struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	now      func() time.Time
}

func NewDashboard(orders repository.OrderRepository, products repository.ProductRepository) *Dashboard {
	return &Dashboard{orders: orders, products: products, now: time.Now}
}

func (s *Dashboard) Get(ctx context.Context) (models.DashboardAnalytics, error) {
	orders, err := s.orders.All(ctx)
	if err != nil {
		return models.DashboardAnalytics{}, err
	}
	products, err := s.products.All(ctx)
	if err != nil {
		return models.DashboardAnalytics{}, err
	}
	return analytics.Dashboard(orders, products, s.now()), nil
}
