package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/junaidrashid-git/commerce-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate creates or updates every table the gorm stores use.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.TimelineEntry{},
	)
}

func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", models.ErrNotFound, what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s", models.ErrDuplicateKey, what)
	}
	return err
}

func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

func offsetOf(page, limit int) int {
	return max((page-1)*limit, 0)
}

// GormProducts stores the catalog in the products table.
type GormProducts struct {
	db *gorm.DB
}

func NewGormProducts(db *gorm.DB) *GormProducts {
	return &GormProducts{db: db}
}

func (r *GormProducts) filtered(ctx context.Context, f ProductFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		like := likePattern(f.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
	}
	if f.InStock != nil {
		if *f.InStock {
			query = query.Where("stock > 0")
		} else {
			query = query.Where("stock = 0")
		}
	}
	if f.MinPrice != nil {
		query = query.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("price <= ?", *f.MaxPrice)
	}
	return query
}

func (r *GormProducts) List(ctx context.Context, filter ProductFilter, page, limit int) (models.Page[models.Product], error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return models.Page[models.Product]{}, err
	}
	var products []models.Product
	if err := r.filtered(ctx, filter).
		Order("created_at DESC").Order("id").
		Offset(offsetOf(page, limit)).Limit(limit).
		Find(&products).Error; err != nil {
		return models.Page[models.Product]{}, err
	}
	return models.NewPage(products, int(total), page, limit), nil
}

func (r *GormProducts) Get(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err, "product "+id)
	}
	return &p, nil
}

func skuTaken(tx *gorm.DB, sku, exceptID string) (bool, error) {
	var n int64
	err := tx.Model(&models.Product{}).Where("sku = ? AND id <> ?", sku, exceptID).Count(&n).Error
	return n > 0, err
}

func (r *GormProducts) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := skuTaken(tx, p.SKU, "")
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: sku %s already exists", models.ErrDuplicateKey, p.SKU)
		}
		return translate(tx.Create(p).Error, "product "+p.ID)
	})
}

func (r *GormProducts) Update(ctx context.Context, id string, fn func(*models.Product) error) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&p, "id = ?", id).Error; err != nil {
			return translate(err, "product "+id)
		}
		if err := fn(&p); err != nil {
			return err
		}
		p.ID = id
		taken, err := skuTaken(tx, p.SKU, id)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: sku %s already exists", models.ErrDuplicateKey, p.SKU)
		}
		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormProducts) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product %s", models.ErrNotFound, id)
	}
	return nil
}

func (r *GormProducts) All(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *GormProducts) Categories(ctx context.Context) ([]string, error) {
	categories := []string{}
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("category <> ''").
		Distinct().Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *GormProducts) LowStock(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := r.db.WithContext(ctx).
		Where("stock > 0 AND stock <= low_stock_threshold").
		Order("stock").
		Find(&products).Error
	return products, err
}

func (r *GormProducts) Reserve(ctx context.Context, lines []StockLine) ([]models.Product, error) {
	out := make([]models.Product, 0, len(lines))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range lines {
			var product models.Product
			if err := forUpdate(tx).First(&product, "id = ?", line.ProductID).Error; err != nil {
				return translate(err, "product "+line.ProductID)
			}
			if !product.IsAvailable {
				return fmt.Errorf("%w: %s is not available", models.ErrInsufficientStock, product.Name)
			}
			if product.Stock < line.Quantity {
				return fmt.Errorf("%w: %s has %d left", models.ErrInsufficientStock, product.Name, product.Stock)
			}
			product.Stock -= line.Quantity
			if err := tx.Model(&product).Update("stock", product.Stock).Error; err != nil {
				return err
			}
			out = append(out, product)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormProducts) Release(ctx context.Context, lines []StockLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range lines {
			if err := tx.Model(&models.Product{}).Where("id = ?", line.ProductID).
				Update("stock", gorm.Expr("stock + ?", line.Quantity)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GormOrders stores orders with their items and timeline rows.
type GormOrders struct {
	db *gorm.DB
}

func NewGormOrders(db *gorm.DB) *GormOrders {
	return &GormOrders{db: db}
}

func withDetails(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Timeline", func(db *gorm.DB) *gorm.DB { return db.Order("seq") })
}

func (r *GormOrders) filtered(ctx context.Context, f OrderFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.CustomerID != "" {
		query = query.Where("customer_id = ?", f.CustomerID)
	}
	if f.Search != "" {
		like := likePattern(f.Search)
		query = query.Where("LOWER(order_code) LIKE ? OR LOWER(customer_name) LIKE ?", like, like)
	}
	if f.DateFrom != nil {
		query = query.Where("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		query = query.Where("created_at <= ?", *f.DateTo)
	}
	return query
}

func (r *GormOrders) List(ctx context.Context, filter OrderFilter, page, limit int) (models.Page[models.Order], error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return models.Page[models.Order]{}, err
	}
	var orders []models.Order
	if err := withDetails(r.filtered(ctx, filter)).
		Order("created_at DESC").
		Offset(offsetOf(page, limit)).Limit(limit).
		Find(&orders).Error; err != nil {
		return models.Page[models.Order]{}, err
	}
	return models.NewPage(orders, int(total), page, limit), nil
}

func (r *GormOrders) Get(ctx context.Context, idOrCode string) (*models.Order, error) {
	var o models.Order
	if err := withDetails(r.db.WithContext(ctx)).
		Where("id = ? OR order_code = ?", idOrCode, idOrCode).
		First(&o).Error; err != nil {
		return nil, translate(err, "order "+idOrCode)
	}
	return &o, nil
}

func (r *GormOrders) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Order{}).
			Where("id = ? OR order_code = ?", o.ID, o.OrderCode).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: order %s already exists", models.ErrDuplicateKey, o.OrderCode)
		}
		return translate(tx.Create(o).Error, "order "+o.OrderCode)
	})
}

// Update locks the order row, applies fn and appends any new timeline entries.
// Items are frozen at checkout and never rewritten.
func (r *GormOrders) Update(ctx context.Context, idOrCode string, fn func(*models.Order) error) (*models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := withDetails(forUpdate(tx)).
			Where("id = ? OR order_code = ?", idOrCode, idOrCode).
			First(&o).Error; err != nil {
			return translate(err, "order "+idOrCode)
		}
		known := len(o.Timeline)
		if err := fn(&o); err != nil {
			return err
		}
		if err := tx.Model(&o).Select("status", "payment_status", "payment_method", "delivery_partner_id", "updated_at").
			Updates(map[string]any{
				"status":              o.Status,
				"payment_status":      o.PaymentStatus,
				"payment_method":      o.PaymentMethod,
				"delivery_partner_id": o.DeliveryPartnerID,
				"updated_at":          o.UpdatedAt,
			}).Error; err != nil {
			return err
		}
		if len(o.Timeline) > known {
			added := o.Timeline[known:]
			for i := range added {
				added[i].OrderID = o.ID
			}
			if err := tx.Create(&added).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormOrders) Delete(ctx context.Context, idOrCode string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.Select("id").Where("id = ? OR order_code = ?", idOrCode, idOrCode).First(&o).Error; err != nil {
			return translate(err, "order "+idOrCode)
		}
		if err := tx.Where("order_id = ?", o.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", o.ID).Delete(&models.TimelineEntry{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", o.ID).Delete(&models.Order{}).Error
	})
}

func (r *GormOrders) All(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := withDetails(r.db.WithContext(ctx)).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// GormUsers stores accounts; emails are stored lower-cased.
type GormUsers struct {
	db *gorm.DB
}

func NewGormUsers(db *gorm.DB) *GormUsers {
	return &GormUsers{db: db}
}

func (r *GormUsers) Get(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err, "user "+id)
	}
	return &u, nil
}

func (r *GormUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", strings.ToLower(email)).Error; err != nil {
		return nil, translate(err, "user "+email)
	}
	return &u, nil
}

func (r *GormUsers) Create(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(u.Email)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("email = ? OR id = ?", u.Email, u.ID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: email %s already registered", models.ErrDuplicateKey, u.Email)
		}
		return translate(tx.Create(u).Error, "user "+u.Email)
	})
}

func (r *GormUsers) Update(ctx context.Context, id string, fn func(*models.User) error) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&u, "id = ?", id).Error; err != nil {
			return translate(err, "user "+id)
		}
		if err := fn(&u); err != nil {
			return err
		}
		u.ID = id
		u.Email = strings.ToLower(u.Email)
		var n int64
		if err := tx.Model(&models.User{}).Where("email = ? AND id <> ?", u.Email, id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: email %s already registered", models.ErrDuplicateKey, u.Email)
		}
		return tx.Save(&u).Error
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUsers) List(ctx context.Context, page, limit int) (models.Page[models.User], error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return models.Page[models.User]{}, err
	}
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at").
		Offset(offsetOf(page, limit)).Limit(limit).
		Find(&users).Error; err != nil {
		return models.Page[models.User]{}, err
	}
	return models.NewPage(users, int(total), page, limit), nil
}
