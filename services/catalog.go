package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/commerce-api/models"
	"github.com/junaidrashid-git/commerce-api/repository"
	"github.com/junaidrashid-git/commerce-api/validation"
	"github.com/shopspring/decimal"
)

const DefaultProductLimit = 12

// ProductInput is the full set of editable product fields.
type ProductInput struct {
	SKU               string          `json:"sku" validate:"required,min=3"`
	Name              string          `json:"name" validate:"required,min=2"`
	Description       string          `json:"description" validate:"required,min=10"`
	Category          string          `json:"category" validate:"required"`
	Price             decimal.Decimal `json:"price" validate:"money"`
	Discount          decimal.Decimal `json:"discount" validate:"percent"`
	Stock             int             `json:"stock" validate:"gte=0"`
	LowStockThreshold int             `json:"lowStockThreshold" validate:"gte=0"`
	Images            []string        `json:"images"`
	IsAvailable       *bool           `json:"isAvailable"`
}

// ProductPatch changes only the fields that are set.
type ProductPatch struct {
	SKU               *string          `json:"sku"`
	Name              *string          `json:"name"`
	Description       *string          `json:"description"`
	Category          *string          `json:"category"`
	Price             *decimal.Decimal `json:"price"`
	Discount          *decimal.Decimal `json:"discount"`
	Stock             *int             `json:"stock"`
	LowStockThreshold *int             `json:"lowStockThreshold"`
	Images            []string         `json:"images"`
	IsAvailable       *bool            `json:"isAvailable"`
}

func (p ProductPatch) apply(dst *models.Product) {
	if p.SKU != nil {
		dst.SKU = strings.TrimSpace(*p.SKU)
	}
	if p.Name != nil {
		dst.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
	if p.Category != nil {
		dst.Category = *p.Category
	}
	if p.Price != nil {
		dst.Price = *p.Price
	}
	if p.Discount != nil {
		dst.Discount = *p.Discount
	}
	if p.Stock != nil {
		dst.Stock = *p.Stock
	}
	if p.LowStockThreshold != nil {
		dst.LowStockThreshold = *p.LowStockThreshold
	}
	if p.Images != nil {
		dst.Images = p.Images
	}
	if p.IsAvailable != nil {
		dst.IsAvailable = *p.IsAvailable
	}
}

func inputOf(p *models.Product) ProductInput {
	return ProductInput{
		SKU:               p.SKU,
		Name:              p.Name,
		Description:       p.Description,
		Category:          p.Category,
		Price:             p.Price,
		Discount:          p.Discount,
		Stock:             p.Stock,
		LowStockThreshold: p.LowStockThreshold,
		Images:            p.Images,
		IsAvailable:       &p.IsAvailable,
	}
}

type Catalog struct {
	products repository.ProductRepository
	now      func() time.Time
}

func NewCatalog(products repository.ProductRepository) *Catalog {
	return &Catalog{products: products, now: time.Now}
}

func (s *Catalog) List(ctx context.Context, filter repository.ProductFilter, page, limit int) (models.Page[models.Product], error) {
	page, limit = models.NormalizePage(page, limit, DefaultProductLimit)
	return s.products.List(ctx, filter, page, limit)
}

func (s *Catalog) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.products.Get(ctx, id)
}

func (s *Catalog) All(ctx context.Context) ([]models.Product, error) {
	return s.products.All(ctx)
}

func (s *Catalog) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	now := s.now()
	p := &models.Product{
		ID:                "prod-" + uuid.NewString(),
		SKU:               in.SKU,
		Name:              in.Name,
		Description:       in.Description,
		Category:          in.Category,
		Price:             in.Price,
		Discount:          in.Discount,
		Stock:             in.Stock,
		LowStockThreshold: in.LowStockThreshold,
		Images:            in.Images,
		IsAvailable:       true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "product created", "product_id", p.ID, "sku", p.SKU)
	return p, nil
}

func (s *Catalog) Update(ctx context.Context, id string, patch ProductPatch) (*models.Product, error) {
	return s.products.Update(ctx, id, func(p *models.Product) error {
		patch.apply(p)
		if err := validation.Struct(inputOf(p)); err != nil {
			return err
		}
		p.UpdatedAt = s.now()
		return nil
	})
}

func (s *Catalog) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "product deleted", "product_id", id)
	return nil
}

// ToggleAvailability flips isAvailable.
func (s *Catalog) ToggleAvailability(ctx context.Context, id string) (*models.Product, error) {
	return s.products.Update(ctx, id, func(p *models.Product) error {
		p.IsAvailable = !p.IsAvailable
		p.UpdatedAt = s.now()
		return nil
	})
}

func (s *Catalog) Categories(ctx context.Context) ([]string, error) {
	return s.products.Categories(ctx)
}

func (s *Catalog) LowStock(ctx context.Context) ([]models.Product, error) {
	return s.products.LowStock(ctx)
}

type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

// ImportRow is one sheet row; Line is its 1-based row number.
type ImportRow struct {
	Line  int
	Input ProductInput
}

// Import upserts rows by sku. Bad rows are reported and skipped.
func (s *Catalog) Import(ctx context.Context, rows []ImportRow) (ImportResult, error) {
	res := ImportResult{Errors: []string{}}
	existing, err := s.products.All(ctx)
	if err != nil {
		return res, err
	}
	bySKU := make(map[string]string, len(existing))
	for _, p := range existing {
		bySKU[p.SKU] = p.ID
	}

	for _, row := range rows {
		in := row.Input
		id, ok := bySKU[strings.TrimSpace(in.SKU)]
		if !ok {
			p, err := s.Create(ctx, in)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", row.Line, err))
				continue
			}
			bySKU[p.SKU] = p.ID
			res.Created++
			continue
		}
		patch := ProductPatch{
			Name:              &in.Name,
			Description:       &in.Description,
			Category:          &in.Category,
			Price:             &in.Price,
			Discount:          &in.Discount,
			Stock:             &in.Stock,
			LowStockThreshold: &in.LowStockThreshold,
			Images:            in.Images,
			IsAvailable:       in.IsAvailable,
		}
		if _, err := s.Update(ctx, id, patch); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", row.Line, err))
			continue
		}
		res.Updated++
	}
	slog.InfoContext(ctx, "product import finished", "created", res.Created, "updated", res.Updated, "failed", len(res.Errors))
	return res, nil
}
