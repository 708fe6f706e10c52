// Package repository holds the catalog, order and user stores. Each store has an
// in-memory implementation and a gorm one; both serialize mutations so every call
// is one atomic change observed in call order.
package repository

import (
	"context"
	"strings"
	"time"

	"github.com/junaidrashid-git/commerce-api/models"
	"github.com/shopspring/decimal"
)

type ProductFilter struct {
	Category string
	Search   string // case-insensitive match on name or sku
	InStock  *bool
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

func (f ProductFilter) match(p *models.Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.SKU), q) {
			return false
		}
	}
	if f.InStock != nil && *f.InStock != (p.Stock > 0) {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

type OrderFilter struct {
	Status     models.OrderStatus
	Search     string // order code or customer name
	CustomerID string
	DateFrom   *time.Time
	DateTo     *time.Time
}

func (f OrderFilter) match(o *models.Order) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.CustomerID != "" && o.CustomerID != f.CustomerID {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(o.OrderCode), q) && !strings.Contains(strings.ToLower(o.CustomerName), q) {
			return false
		}
	}
	if f.DateFrom != nil && o.CreatedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && o.CreatedAt.After(*f.DateTo) {
		return false
	}
	return true
}

// StockLine is one product quantity to reserve or release.
type StockLine struct {
	ProductID string
	Quantity  int
}

type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter, page, limit int) (models.Page[models.Product], error)
	Get(ctx context.Context, id string) (*models.Product, error)
	// Create fails with models.ErrDuplicateKey when the sku is taken.
	Create(ctx context.Context, p *models.Product) error
	// Update applies fn to the stored product under lock. An error from fn, or a
	// sku collision, leaves the product unchanged.
	Update(ctx context.Context, id string, fn func(*models.Product) error) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	All(ctx context.Context) ([]models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	LowStock(ctx context.Context) ([]models.Product, error)
	// Reserve deducts every line or none of them.
	Reserve(ctx context.Context, lines []StockLine) ([]models.Product, error)
	Release(ctx context.Context, lines []StockLine) error
}

type OrderRepository interface {
	List(ctx context.Context, filter OrderFilter, page, limit int) (models.Page[models.Order], error)
	// Get resolves either the internal id or the ORD- display code.
	Get(ctx context.Context, idOrCode string) (*models.Order, error)
	Create(ctx context.Context, o *models.Order) error
	Update(ctx context.Context, idOrCode string, fn func(*models.Order) error) (*models.Order, error)
	Delete(ctx context.Context, idOrCode string) error
	All(ctx context.Context) ([]models.Order, error)
}

type UserRepository interface {
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Create fails with models.ErrDuplicateKey when the email is taken.
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, id string, fn func(*models.User) error) (*models.User, error)
	List(ctx context.Context, page, limit int) (models.Page[models.User], error)
}
