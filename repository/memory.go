package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/junaidrashid-git/commerce-api/models"
)

func cloneProduct(p models.Product) models.Product {
	p.Images = append([]string(nil), p.Images...)
	return p
}

func cloneOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	o.Timeline = append([]models.TimelineEntry(nil), o.Timeline...)
	return o
}

// MemoryProducts keeps the catalog in insertion order, newest first.
type MemoryProducts struct {
	mu       sync.RWMutex
	products []models.Product
}

func NewMemoryProducts(seed ...models.Product) *MemoryProducts {
	m := &MemoryProducts{}
	for _, p := range seed {
		m.products = append(m.products, cloneProduct(p))
	}
	return m
}

func (m *MemoryProducts) index(id string) int {
	for i := range m.products {
		if m.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *MemoryProducts) skuTaken(sku, exceptID string) bool {
	for i := range m.products {
		if m.products[i].SKU == sku && m.products[i].ID != exceptID {
			return true
		}
	}
	return false
}

func (m *MemoryProducts) List(_ context.Context, filter ProductFilter, page, limit int) (models.Page[models.Product], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Product
	for i := range m.products {
		if filter.match(&m.products[i]) {
			out = append(out, cloneProduct(m.products[i]))
		}
	}
	return models.Paginate(out, page, limit), nil
}

func (m *MemoryProducts) Get(_ context.Context, id string) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: product %s", models.ErrNotFound, id)
	}
	p := cloneProduct(m.products[i])
	return &p, nil
}

func (m *MemoryProducts) Create(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.skuTaken(p.SKU, "") {
		return fmt.Errorf("%w: sku %s already exists", models.ErrDuplicateKey, p.SKU)
	}
	if m.index(p.ID) >= 0 {
		return fmt.Errorf("%w: product %s already exists", models.ErrDuplicateKey, p.ID)
	}
	m.products = append([]models.Product{cloneProduct(*p)}, m.products...)
	return nil
}

func (m *MemoryProducts) Update(_ context.Context, id string, fn func(*models.Product) error) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: product %s", models.ErrNotFound, id)
	}
	next := cloneProduct(m.products[i])
	if err := fn(&next); err != nil {
		return nil, err
	}
	next.ID = id
	if m.skuTaken(next.SKU, id) {
		return nil, fmt.Errorf("%w: sku %s already exists", models.ErrDuplicateKey, next.SKU)
	}
	m.products[i] = next
	out := cloneProduct(next)
	return &out, nil
}

func (m *MemoryProducts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return fmt.Errorf("%w: product %s", models.ErrNotFound, id)
	}
	m.products = append(m.products[:i], m.products[i+1:]...)
	return nil
}

func (m *MemoryProducts) All(_ context.Context) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Product, len(m.products))
	for i, p := range m.products {
		out[i] = cloneProduct(p)
	}
	return out, nil
}

func (m *MemoryProducts) Categories(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := map[string]bool{}
	out := []string{}
	for _, p := range m.products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryProducts) LowStock(_ context.Context) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Product{}
	for _, p := range m.products {
		if p.IsLowStock() {
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}

func (m *MemoryProducts) Reserve(_ context.Context, lines []StockLine) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// validate everything before touching stock
	idx := make([]int, len(lines))
	need := map[string]int{}
	for n, line := range lines {
		i := m.index(line.ProductID)
		if i < 0 {
			return nil, fmt.Errorf("%w: product %s", models.ErrNotFound, line.ProductID)
		}
		p := m.products[i]
		if !p.IsAvailable {
			return nil, fmt.Errorf("%w: %s is not available", models.ErrInsufficientStock, p.Name)
		}
		need[p.ID] += line.Quantity
		if need[p.ID] > p.Stock {
			return nil, fmt.Errorf("%w: %s has %d left", models.ErrInsufficientStock, p.Name, p.Stock)
		}
		idx[n] = i
	}

	out := make([]models.Product, len(lines))
	for n, line := range lines {
		m.products[idx[n]].Stock -= line.Quantity
	}
	for n := range lines {
		out[n] = cloneProduct(m.products[idx[n]])
	}
	return out, nil
}

func (m *MemoryProducts) Release(_ context.Context, lines []StockLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, line := range lines {
		if i := m.index(line.ProductID); i >= 0 {
			m.products[i].Stock += line.Quantity
		}
	}
	return nil
}

// MemoryOrders keeps orders newest first.
type MemoryOrders struct {
	mu     sync.RWMutex
	orders []models.Order
}

func NewMemoryOrders(seed ...models.Order) *MemoryOrders {
	m := &MemoryOrders{}
	for _, o := range seed {
		m.orders = append(m.orders, cloneOrder(o))
	}
	sort.SliceStable(m.orders, func(i, j int) bool {
		return m.orders[i].CreatedAt.After(m.orders[j].CreatedAt)
	})
	return m
}

func (m *MemoryOrders) index(idOrCode string) int {
	for i := range m.orders {
		if m.orders[i].ID == idOrCode || m.orders[i].OrderCode == idOrCode {
			return i
		}
	}
	return -1
}

func (m *MemoryOrders) List(_ context.Context, filter OrderFilter, page, limit int) (models.Page[models.Order], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Order
	for i := range m.orders {
		if filter.match(&m.orders[i]) {
			out = append(out, cloneOrder(m.orders[i]))
		}
	}
	return models.Paginate(out, page, limit), nil
}

func (m *MemoryOrders) Get(_ context.Context, idOrCode string) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.index(idOrCode)
	if i < 0 {
		return nil, fmt.Errorf("%w: order %s", models.ErrNotFound, idOrCode)
	}
	o := cloneOrder(m.orders[i])
	return &o, nil
}

func (m *MemoryOrders) Create(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.index(o.ID) >= 0 || m.index(o.OrderCode) >= 0 {
		return fmt.Errorf("%w: order %s already exists", models.ErrDuplicateKey, o.OrderCode)
	}
	m.orders = append([]models.Order{cloneOrder(*o)}, m.orders...)
	return nil
}

func (m *MemoryOrders) Update(_ context.Context, idOrCode string, fn func(*models.Order) error) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(idOrCode)
	if i < 0 {
		return nil, fmt.Errorf("%w: order %s", models.ErrNotFound, idOrCode)
	}
	next := cloneOrder(m.orders[i])
	if err := fn(&next); err != nil {
		return nil, err
	}
	m.orders[i] = next
	out := cloneOrder(next)
	return &out, nil
}

func (m *MemoryOrders) Delete(_ context.Context, idOrCode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(idOrCode)
	if i < 0 {
		return fmt.Errorf("%w: order %s", models.ErrNotFound, idOrCode)
	}
	m.orders = append(m.orders[:i], m.orders[i+1:]...)
	return nil
}

func (m *MemoryOrders) All(_ context.Context) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Order, len(m.orders))
	for i, o := range m.orders {
		out[i] = cloneOrder(o)
	}
	return out, nil
}

// MemoryUsers indexes accounts by id; emails compare case-insensitively.
type MemoryUsers struct {
	mu    sync.RWMutex
	users []models.User
}

func NewMemoryUsers(seed ...models.User) *MemoryUsers {
	return &MemoryUsers{users: append([]models.User(nil), seed...)}
}

func (m *MemoryUsers) find(match func(*models.User) bool) int {
	for i := range m.users {
		if match(&m.users[i]) {
			return i
		}
	}
	return -1
}

func (m *MemoryUsers) Get(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.find(func(u *models.User) bool { return u.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, id)
	}
	u := m.users[i]
	return &u, nil
}

func (m *MemoryUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.find(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
	if i < 0 {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, email)
	}
	u := m.users[i]
	return &u, nil
}

func (m *MemoryUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.find(func(x *models.User) bool { return strings.EqualFold(x.Email, u.Email) || x.ID == u.ID }) >= 0 {
		return fmt.Errorf("%w: email %s already registered", models.ErrDuplicateKey, u.Email)
	}
	m.users = append(m.users, *u)
	return nil
}

func (m *MemoryUsers) Update(_ context.Context, id string, fn func(*models.User) error) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.find(func(u *models.User) bool { return u.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, id)
	}
	next := m.users[i]
	if err := fn(&next); err != nil {
		return nil, err
	}
	next.ID = id
	if m.find(func(x *models.User) bool { return x.ID != id && strings.EqualFold(x.Email, next.Email) }) >= 0 {
		return nil, fmt.Errorf("%w: email %s already registered", models.ErrDuplicateKey, next.Email)
	}
	m.users[i] = next
	return &next, nil
}

func (m *MemoryUsers) List(_ context.Context, page, limit int) (models.Page[models.User], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return models.Paginate(m.users, page, limit), nil
}
