package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/junaidrashid-git/commerce-api/metrics"
	"github.com/junaidrashid-git/commerce-api/models"
	"github.com/junaidrashid-git/commerce-api/repository"
	"github.com/junaidrashid-git/commerce-api/session"
)

// CartView is the cart plus its derived totals, as the storefront renders it.
type CartView struct {
	Items     []models.CartItem `json:"items"`
	ItemCount int               `json:"itemCount"`
	models.CartTotal
}

func viewOf(c models.Cart) CartView {
	items := c.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return CartView{Items: items, ItemCount: c.ItemCount(), CartTotal: c.Total()}
}

// Carts persists one cart snapshot per owner in the session store. Every call
// hydrates the snapshot, applies one aggregate operation and writes it back.
type Carts struct {
	store    session.Store
	products repository.ProductRepository
	metrics  *metrics.Metrics

	mu sync.Mutex
}

func NewCarts(store session.Store, products repository.ProductRepository, m *metrics.Metrics) *Carts {
	return &Carts{store: store, products: products, metrics: m}
}

func (s *Carts) load(ctx context.Context, owner string) (models.Cart, error) {
	var cart models.Cart
	if _, err := session.GetJSON(ctx, s.store, session.CartKey(owner), &cart); err != nil {
		return models.Cart{}, err
	}
	return cart, nil
}

func (s *Carts) mutate(ctx context.Context, owner, op string, fn func(*models.Cart)) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.load(ctx, owner)
	if err != nil {
		return CartView{}, err
	}
	fn(&cart)
	if err := session.SetJSON(ctx, s.store, session.CartKey(owner), cart, 0); err != nil {
		return CartView{}, err
	}
	if s.metrics != nil {
		s.metrics.CartOperations.WithLabelValues(op).Inc()
	}
	return viewOf(cart), nil
}

func (s *Carts) Get(ctx context.Context, owner string) (CartView, error) {
	cart, err := s.Snapshot(ctx, owner)
	if err != nil {
		return CartView{}, err
	}
	return viewOf(cart), nil
}

// Snapshot returns the raw stored cart.
func (s *Carts) Snapshot(ctx context.Context, owner string) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, owner)
}

// AddItem snapshots the live product and adds one unit. Unavailable products
// are recorded with no stock, so the aggregate ignores them.
func (s *Carts) AddItem(ctx context.Context, owner, productID string) (CartView, error) {
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return CartView{}, err
	}
	item := p.CartItem()
	if !p.IsAvailable {
		item.Stock = 0
	}
	return s.mutate(ctx, owner, "add", func(c *models.Cart) { c.AddItem(item) })
}

func (s *Carts) RemoveItem(ctx context.Context, owner, productID string) (CartView, error) {
	return s.mutate(ctx, owner, "remove", func(c *models.Cart) { c.RemoveItem(productID) })
}

func (s *Carts) UpdateQuantity(ctx context.Context, owner, productID string, qty int) (CartView, error) {
	return s.mutate(ctx, owner, "update", func(c *models.Cart) { c.UpdateQuantity(productID, qty) })
}

func (s *Carts) Clear(ctx context.Context, owner string) (CartView, error) {
	return s.mutate(ctx, owner, "clear", func(c *models.Cart) { c.Clear() })
}

// Consume removes what was checked out. Items added after the snapshot was
// taken stay in the cart.
func (s *Carts) Consume(ctx context.Context, owner string, ordered models.Cart) (CartView, error) {
	return s.mutate(ctx, owner, "checkout", func(c *models.Cart) { c.Subtract(ordered) })
}

func (s *Carts) Total(ctx context.Context, owner string) (models.CartTotal, error) {
	cart, err := s.Snapshot(ctx, owner)
	if err != nil {
		return models.CartTotal{}, err
	}
	return cart.Total(), nil
}

// Merge folds the guest cart into the user's cart and drops the guest snapshot.
// merged is false when the guest had nothing to merge.
func (s *Carts) Merge(ctx context.Context, guestOwner, userOwner string) (merged bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	guest, err := s.load(ctx, guestOwner)
	if err != nil {
		return false, err
	}
	if guest.IsEmpty() {
		return false, nil
	}
	user, err := s.load(ctx, userOwner)
	if err != nil {
		return false, err
	}
	user.Merge(guest)
	if err := session.SetJSON(ctx, s.store, session.CartKey(userOwner), user, 0); err != nil {
		return false, err
	}
	if err := s.store.Delete(ctx, session.CartKey(guestOwner)); err != nil {
		return false, err
	}
	if s.metrics != nil {
		s.metrics.CartOperations.WithLabelValues("merge").Inc()
	}
	slog.InfoContext(ctx, "guest cart merged", "guest", guestOwner, "user", userOwner, "items", len(guest.Items))
	return true, nil
}
