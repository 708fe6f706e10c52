// Package seed builds the demo catalog, orders and accounts loaded at startup.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/junaidrashid-git/commerce-api/models"
	"github.com/junaidrashid-git/commerce-api/repository"
	"github.com/shopspring/decimal"
)

var Categories = []string{"Electronics", "Groceries", "Fashion", "Home & Kitchen", "Books", "Sports"}

var productNames = []string{
	"Wireless Headphones", "Organic Rice 5kg", "Cotton T-Shirt", "Coffee Maker",
	"Fiction Novel", "Yoga Mat", "Smartphone Case", "Olive Oil 1L",
	"Denim Jeans", "Blender", "Programming Guide", "Running Shoes",
	"Laptop Stand", "Organic Honey", "Winter Jacket", "Water Bottle",
	"Mystery Novel", "Dumbbells Set", "USB Cable", "Green Tea",
	"Casual Shirt", "Non-Stick Pan", "Self-Help Book", "Gym Bag",
	"Bluetooth Speaker", "Wholegrain Bread", "Summer Dress", "Cookware Set",
	"Biography", "Resistance Bands", "Phone Charger", "Tomato Sauce",
	"Formal Pants", "Kitchen Knife Set", "Cookbook", "Exercise Ball",
	"Wireless Mouse", "Pasta 500g", "Hoodie", "Dinner Plates",
	"Travel Book", "Jump Rope", "HDMI Cable", "Olive Oil Spray",
	"Blazer", "Spice Rack", "Business Book", "Protein Shaker",
}

const (
	demoOrders        = 25
	lowStockThreshold = 10
)

var DeliveryFee = decimal.NewFromInt(50)

// Users are the demo accounts. Any password of six or more characters logs in.
func Users() []models.User {
	return []models.User{
		{ID: "1", Email: "admin@commerce.com", Name: "Admin User", Role: models.RoleAdmin,
			PhoneNumber: "+911234567890", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "2", Email: "store@example.com", Name: "John Store Owner", Role: models.RoleStoreOwner,
			BusinessName: "Johns General Store", PhoneNumber: "+911234567891", CreatedAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{ID: "3", Email: "delivery@example.com", Name: "Mike Delivery", Role: models.RoleDeliveryPartner,
			PhoneNumber: "+911234567892", CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
}

// Products returns the demo catalog newest first.
func Products(rng *rand.Rand, now time.Time) []models.Product {
	discounts := []int64{0, 5, 10, 15, 20}
	out := make([]models.Product, 0, len(productNames))
	for i, name := range productNames {
		created := now.Add(-time.Duration(i+1) * 90 * time.Minute)
		out = append(out, models.Product{
			ID:                fmt.Sprintf("prod-%d", i+1),
			SKU:               fmt.Sprintf("SKU-%d", 1000+i),
			Name:              name,
			Description:       fmt.Sprintf("High-quality %s with excellent features and durability. Perfect for daily use.", strings.ToLower(name)),
			Category:          Categories[i%len(Categories)],
			Price:             decimal.NewFromInt(int64(rng.Intn(5000) + 100)),
			Discount:          decimal.NewFromInt(discounts[rng.Intn(len(discounts))]),
			Stock:             rng.Intn(100) + 5,
			LowStockThreshold: lowStockThreshold,
			Images:            []string{fmt.Sprintf("/placeholder-product%d.jpg", i%5+1)},
			IsAvailable:       rng.Float64() > 0.1,
			CreatedAt:         created,
			UpdatedAt:         created,
		})
	}
	return out
}

// Orders returns demo orders spread over the last 30 days. Every timeline
// follows the lifecycle graph, so status always matches the last entry.
func Orders(rng *rand.Rand, now time.Time, products []models.Product) ([]models.Order, error) {
	statuses := []models.OrderStatus{
		models.OrderStatusPending,
		models.OrderStatusConfirmed,
		models.OrderStatusPacked,
		models.OrderStatusOutForDelivery,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
	}
	methods := []models.PaymentMethod{
		models.PaymentMethodCash, models.PaymentMethodCard, models.PaymentMethodUPI, models.PaymentMethodWallet,
	}

	out := make([]models.Order, 0, demoOrders)
	for i := 0; i < demoOrders; i++ {
		created := now.Add(-time.Duration(rng.Int63n(int64(30 * 24 * time.Hour))))
		p := products[i%len(products)]

		item := models.OrderItem{
			ProductID:    p.ID,
			ProductName:  p.Name,
			ProductImage: p.CartItem().ProductImage,
			Quantity:     rng.Intn(3) + 1,
			Price:        p.Price,
			Discount:     p.Discount,
		}
		cart := models.Cart{Items: []models.CartItem{{
			ProductID: p.ID, Price: item.Price, Discount: item.Discount, Quantity: item.Quantity, Stock: item.Quantity,
		}}}
		totals := models.CalculateOrderTotals(cart.Total(), decimal.Zero, DeliveryFee)

		id := fmt.Sprintf("order-%d", i+1)
		o := models.NewOrder(id, models.GenerateOrderCode(created, i), []models.OrderItem{item}, totals, created)
		o.CustomerID = fmt.Sprintf("cust-%d", i+1)
		o.CustomerName = fmt.Sprintf("Customer %d", i+1)
		o.CustomerEmail = fmt.Sprintf("customer%d@example.com", i+1)
		o.CustomerPhone = fmt.Sprintf("+91%d", 9000000000+i)
		o.DeliveryAddress = models.Address{
			Street:  fmt.Sprintf("%d Main Street", i+1),
			City:    "Mumbai",
			State:   "Maharashtra",
			ZipCode: "400001",
			Country: "India",
		}
		o.PaymentMethod = methods[rng.Intn(len(methods))]

		target := statuses[rng.Intn(len(statuses))]
		if err := advance(o, target, created); err != nil {
			return nil, fmt.Errorf("seed order %s: %w", o.OrderCode, err)
		}
		out = append(out, *o)
	}
	return out, nil
}

func advance(o *models.Order, target models.OrderStatus, created time.Time) error {
	at := created
	step := func(s models.OrderStatus, note string) error {
		at = at.Add(10 * time.Minute)
		return o.Transition(s, note, at)
	}
	switch target {
	case models.OrderStatusPending:
		return nil
	case models.OrderStatusCancelled:
		if err := step(models.OrderStatusCancelled, "Cancelled by customer"); err != nil {
			return err
		}
		o.PaymentStatus = models.PaymentStatusRefunded
		return nil
	}
	if err := step(models.OrderStatusConfirmed, "Order confirmed"); err != nil {
		return err
	}
	for _, s := range []models.OrderStatus{models.OrderStatusPacked, models.OrderStatusOutForDelivery, models.OrderStatusDelivered} {
		if o.Status == target {
			return nil
		}
		if err := step(s, ""); err != nil {
			return err
		}
	}
	return nil
}

// Load writes the demo data into empty stores. Stores that already hold data are left alone.
func Load(ctx context.Context, rng *rand.Rand, now time.Time, products repository.ProductRepository, orders repository.OrderRepository, users repository.UserRepository) error {
	existing, err := products.All(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	catalog := Products(rng, now)
	// Create prepends, so insert oldest first to keep newest-first order
	for i := len(catalog) - 1; i >= 0; i-- {
		if err := products.Create(ctx, &catalog[i]); err != nil {
			return fmt.Errorf("seed product %s: %w", catalog[i].SKU, err)
		}
	}
	demo, err := Orders(rng, now, catalog)
	if err != nil {
		return err
	}
	for _, o := range demo {
		if err := orders.Create(ctx, &o); err != nil {
			return fmt.Errorf("seed order %s: %w", o.OrderCode, err)
		}
	}
	for _, u := range Users() {
		if err := users.Create(ctx, &u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}
	return nil
}
