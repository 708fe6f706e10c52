package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/commerce-api/events"
	"github.com/junaidrashid-git/commerce-api/metrics"
	"github.com/junaidrashid-git/commerce-api/models"
	"github.com/junaidrashid-git/commerce-api/repository"
	"github.com/junaidrashid-git/commerce-api/validation"
	"github.com/shopspring/decimal"
)

const (
	DefaultOrderLimit = 10

	// MinCancelReason is the shortest accepted cancellation reason.
	MinCancelReason = 10

	codeAttempts = 5
)

type AddressInput struct {
	Street  string `json:"street" validate:"required,min=5"`
	City    string `json:"city" validate:"required,min=2"`
	State   string `json:"state" validate:"required,min=2"`
	ZipCode string `json:"zipCode" validate:"required,zip"`
	Country string `json:"country" validate:"required,min=2"`
}

// CheckoutInput is what the storefront checkout form submits.
type CheckoutInput struct {
	CustomerName    string       `json:"customerName" validate:"required,min=2"`
	CustomerEmail   string       `json:"customerEmail" validate:"required,email"`
	CustomerPhone   string       `json:"customerPhone" validate:"required,phone"`
	DeliveryAddress AddressInput `json:"deliveryAddress"`
	PaymentMethod   string       `json:"paymentMethod" validate:"required,oneof=cash card upi wallet"`
	Notes           string       `json:"notes"`
}

type OrdersConfig struct {
	TaxRate     decimal.Decimal
	DeliveryFee decimal.Decimal
}

type Orders struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	carts    *Carts
	events   events.Publisher
	metrics  *metrics.Metrics
	cfg      OrdersConfig

	now    func() time.Time
	suffix func() int
}

func NewOrders(orders repository.OrderRepository, products repository.ProductRepository, carts *Carts, pub events.Publisher, m *metrics.Metrics, cfg OrdersConfig) *Orders {
	if pub == nil {
		pub = events.Noop{}
	}
	return &Orders{
		orders:   orders,
		products: products,
		carts:    carts,
		events:   pub,
		metrics:  m,
		cfg:      cfg,
		now:      time.Now,
		suffix:   func() int { return rand.IntN(1000) },
	}
}

func (s *Orders) publish(ctx context.Context, t events.Type, o *models.Order) {
	// publishing is best effort; the order is already stored
	_ = s.events.Publish(ctx, events.NewOrderEvent(t, o, s.now()))
}

// Place turns the owner's cart into a pending order. Stock is reserved for
// every line or none; on any later failure it is released again. The cart is
// cleared once the order is stored.
func (s *Orders) Place(ctx context.Context, customerID, cartOwner string, in CheckoutInput) (*models.Order, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	method, err := models.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.Snapshot(ctx, cartOwner)
	if err != nil {
		return nil, err
	}
	lines := make([]repository.StockLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.Quantity > 0 {
			lines = append(lines, repository.StockLine{ProductID: item.ProductID, Quantity: item.Quantity})
		}
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", models.ErrValidation)
	}

	reserved, err := s.products.Reserve(ctx, lines)
	if err != nil {
		return nil, err
	}

	order, err := s.create(ctx, customerID, method, in, reserved, lines)
	if err != nil {
		if rerr := s.products.Release(ctx, lines); rerr != nil {
			slog.ErrorContext(ctx, "stock release failed", "error", rerr)
		}
		return nil, err
	}

	if _, err := s.carts.Consume(ctx, cartOwner, cart); err != nil {
		slog.WarnContext(ctx, "cart update after checkout failed", "owner", cartOwner, "error", err)
	}
	if s.metrics != nil {
		s.metrics.OrdersPlaced.Inc()
	}
	slog.InfoContext(ctx, "order placed", "order_id", order.ID, "code", order.OrderCode, "total", order.Total.String())
	s.publish(ctx, events.OrderCreated, order)
	return order, nil
}

// create prices the order from the live products that were reserved.
func (s *Orders) create(ctx context.Context, customerID string, method models.PaymentMethod, in CheckoutInput, reserved []models.Product, lines []repository.StockLine) (*models.Order, error) {
	var priced models.Cart
	items := make([]models.OrderItem, 0, len(lines))
	for i, p := range reserved {
		ci := p.CartItem()
		ci.Quantity = lines[i].Quantity
		priced.Items = append(priced.Items, ci)
		items = append(items, models.OrderItem{
			ProductID:    p.ID,
			ProductName:  p.Name,
			ProductImage: ci.ProductImage,
			Quantity:     ci.Quantity,
			Price:        p.Price,
			Discount:     p.Discount,
		})
	}
	totals := models.CalculateOrderTotals(priced.Total(), s.cfg.TaxRate, s.cfg.DeliveryFee)

	var err error
	for range codeAttempts {
		now := s.now()
		id := uuid.NewString()
		for i := range items {
			items[i].OrderID = id
		}
		o := models.NewOrder(id, models.GenerateOrderCode(now, s.suffix()), items, totals, now)
		o.CustomerID = customerID
		o.CustomerName = strings.TrimSpace(in.CustomerName)
		o.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
		o.CustomerPhone = in.CustomerPhone
		o.DeliveryAddress = models.Address{
			Street:  in.DeliveryAddress.Street,
			City:    in.DeliveryAddress.City,
			State:   in.DeliveryAddress.State,
			ZipCode: in.DeliveryAddress.ZipCode,
			Country: in.DeliveryAddress.Country,
		}
		o.PaymentMethod = method
		if in.Notes != "" {
			o.Timeline[0].Note = in.Notes
		}

		err = s.orders.Create(ctx, o)
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, models.ErrDuplicateKey) {
			return nil, err
		}
	}
	return nil, err
}

func (s *Orders) Get(ctx context.Context, idOrCode string) (*models.Order, error) {
	return s.orders.Get(ctx, idOrCode)
}

func (s *Orders) List(ctx context.Context, filter repository.OrderFilter, page, limit int) (models.Page[models.Order], error) {
	page, limit = models.NormalizePage(page, limit, DefaultOrderLimit)
	return s.orders.List(ctx, filter, page, limit)
}

// UpdateStatus appends one timeline entry, or fails leaving the order untouched.
func (s *Orders) UpdateStatus(ctx context.Context, idOrCode, status, note string) (*models.Order, error) {
	to, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	o, err := s.orders.Update(ctx, idOrCode, func(o *models.Order) error {
		return o.Transition(to, strings.TrimSpace(note), s.now())
	})
	if err != nil {
		if errors.Is(err, models.ErrInvalidTransition) && s.metrics != nil {
			s.metrics.RejectedTransitions.Inc()
		}
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.OrderTransitions.WithLabelValues(string(to)).Inc()
	}
	slog.InfoContext(ctx, "order status updated", "order_id", o.ID, "status", to)
	s.publish(ctx, events.OrderStatusChanged, o)
	return o, nil
}

// Cancel moves the order to cancelled with reason as the timeline note.
func (s *Orders) Cancel(ctx context.Context, idOrCode, reason string) (*models.Order, error) {
	reason = strings.TrimSpace(reason)
	if utf8.RuneCountInString(reason) < MinCancelReason {
		return nil, fmt.Errorf("%w: reason must be at least %d characters", models.ErrValidation, MinCancelReason)
	}
	return s.UpdateStatus(ctx, idOrCode, string(models.OrderStatusCancelled), reason)
}

func (s *Orders) UpdatePaymentStatus(ctx context.Context, idOrCode, status string) (*models.Order, error) {
	ps, err := models.ParsePaymentStatus(status)
	if err != nil {
		return nil, err
	}
	o, err := s.orders.Update(ctx, idOrCode, func(o *models.Order) error {
		o.PaymentStatus = ps
		o.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "payment status updated", "order_id", o.ID, "payment_status", ps)
	s.publish(ctx, events.OrderPaymentChanged, o)
	return o, nil
}

func (s *Orders) Delete(ctx context.Context, idOrCode string) error {
	o, err := s.orders.Get(ctx, idOrCode)
	if err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, o.ID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "order deleted", "order_id", o.ID)
	s.publish(ctx, events.OrderDeleted, o)
	return nil
}
