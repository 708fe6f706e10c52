package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type PaymentStatus string
type PaymentMethod string

const (
	// Order statuses, in fulfilment order
	OrderStatusPending        OrderStatus = "pending"          // Order placed, awaiting confirmation
	OrderStatusConfirmed      OrderStatus = "confirmed"        // Accepted by the store
	OrderStatusPacked         OrderStatus = "packed"           // Packed and ready for pickup
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery" // With a delivery partner
	OrderStatusDelivered      OrderStatus = "delivered"        // Customer received the items

	// Side exits
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunded  OrderStatus = "refunded"

	// Payment statuses
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"

	// Payment methods
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodUPI    PaymentMethod = "upi"
	PaymentMethodWallet PaymentMethod = "wallet"
)

// fulfilment is the forward chain; position is used to reject backward moves.
var fulfilment = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPacked,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

func (s OrderStatus) position() int {
	for i, st := range fulfilment {
		if st == s {
			return i
		}
	}
	return -1
}

func (s OrderStatus) Valid() bool {
	return s.position() >= 0 || s == OrderStatusCancelled || s == OrderStatusRefunded
}

// IsTerminal reports whether the order has left the fulfilment chain.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled || s == OrderStatusRefunded
}

// CanTransition encodes the lifecycle graph:
//
//	pending -> confirmed -> packed -> out_for_delivery -> delivered
//
// Open orders may jump forward any number of steps or be cancelled.
// delivered and cancelled orders can only be refunded; refunded is final.
func CanTransition(from, to OrderStatus) bool {
	if !from.Valid() || !to.Valid() || from == to {
		return false
	}
	switch from {
	case OrderStatusDelivered, OrderStatusCancelled:
		return to == OrderStatusRefunded
	case OrderStatusRefunded:
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	return to.position() > from.position()
}

// ParseOrderStatus maps user input onto the closed status set.
func ParseOrderStatus(status string) (OrderStatus, error) {
	s := OrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: invalid order status %q", ErrValidation, status)
	}
	return s, nil
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

func ParsePaymentStatus(status string) (PaymentStatus, error) {
	s := PaymentStatus(strings.ToLower(strings.TrimSpace(status)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: invalid payment status %q", ErrValidation, status)
	}
	return s, nil
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodUPI, PaymentMethodWallet:
		return true
	}
	return false
}

func ParsePaymentMethod(method string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(method)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: invalid payment method %q", ErrValidation, method)
	}
	return m, nil
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// OrderItem is frozen at checkout; it never reads live product data again.
type OrderItem struct {
	ID           uint            `gorm:"primaryKey" json:"-"`
	OrderID      string          `gorm:"index;type:varchar(64)" json:"-"`
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	Discount     decimal.Decimal `gorm:"type:decimal(5,2)" json:"discount"`
}

// TimelineEntry is one row of the append-only status history.
type TimelineEntry struct {
	ID        uint        `gorm:"primaryKey" json:"-"`
	OrderID   string      `gorm:"index;type:varchar(64)" json:"-"`
	Seq       int         `json:"-"`
	Status    OrderStatus `gorm:"type:varchar(20)" json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Note      string      `json:"note,omitempty"`
}

func (TimelineEntry) TableName() string { return "order_timeline" }

type Order struct {
	ID                string          `gorm:"primaryKey;type:varchar(64)" json:"id"`
	OrderCode         string          `gorm:"uniqueIndex;type:varchar(32)" json:"orderId"`
	CustomerID        string          `gorm:"index" json:"customerId"`
	CustomerName      string          `json:"customerName"`
	CustomerEmail     string          `json:"customerEmail"`
	CustomerPhone     string          `json:"customerPhone"`
	DeliveryAddress   Address         `gorm:"embedded;embeddedPrefix:delivery_" json:"deliveryAddress"`
	Items             []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(12,2)" json:"subtotal"`
	Discount          decimal.Decimal `gorm:"type:decimal(12,2)" json:"discount"`
	Tax               decimal.Decimal `gorm:"type:decimal(12,2)" json:"tax"`
	DeliveryFee       decimal.Decimal `gorm:"type:decimal(12,2)" json:"deliveryFee"`
	Total             decimal.Decimal `gorm:"type:decimal(12,2)" json:"total"`
	Status            OrderStatus     `gorm:"type:varchar(20);index;default:'pending'" json:"status"`
	Timeline          []TimelineEntry `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"timeline"`
	PaymentMethod     PaymentMethod   `gorm:"type:varchar(20)" json:"paymentMethod"`
	PaymentStatus     PaymentStatus   `gorm:"type:varchar(20);default:'pending'" json:"paymentStatus"`
	DeliveryPartnerID string          `json:"deliveryPartnerId,omitempty"`
	CreatedAt         time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// OrderTotals is the checkout arithmetic: total = subtotal - discount + tax + deliveryFee.
type OrderTotals struct {
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	Tax         decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

// CalculateOrderTotals applies taxRate (percent) to the discounted amount.
func CalculateOrderTotals(cart CartTotal, taxRate, deliveryFee decimal.Decimal) OrderTotals {
	taxable := cart.Subtotal.Sub(cart.Discount)
	tax := taxable.Mul(taxRate).Div(hundred).Round(2)
	return OrderTotals{
		Subtotal:    cart.Subtotal,
		Discount:    cart.Discount,
		Tax:         tax,
		DeliveryFee: deliveryFee,
		Total:       taxable.Add(tax).Add(deliveryFee),
	}
}

// NewOrder opens a pending order with its first timeline entry.
func NewOrder(id, code string, items []OrderItem, totals OrderTotals, at time.Time) *Order {
	return &Order{
		ID:            id,
		OrderCode:     code,
		Items:         items,
		Subtotal:      totals.Subtotal,
		Discount:      totals.Discount,
		Tax:           totals.Tax,
		DeliveryFee:   totals.DeliveryFee,
		Total:         totals.Total,
		Status:        OrderStatusPending,
		PaymentStatus: PaymentStatusPending,
		Timeline: []TimelineEntry{
			{OrderID: id, Seq: 0, Status: OrderStatusPending, Timestamp: at, Note: "Order placed"},
		},
		CreatedAt: at,
		UpdatedAt: at,
	}
}

// Transition appends a timeline entry and moves the order to status to.
// The timeline is only ever appended to, so Status always equals its last entry.
func (o *Order) Transition(to OrderStatus, note string, at time.Time) error {
	if !to.Valid() {
		return fmt.Errorf("%w: invalid order status %q", ErrValidation, to)
	}
	if !CanTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	o.Timeline = append(o.Timeline, TimelineEntry{
		OrderID:   o.ID,
		Seq:       len(o.Timeline),
		Status:    to,
		Timestamp: at,
		Note:      note,
	})
	o.Status = to
	o.UpdatedAt = at

	switch to {
	case OrderStatusDelivered:
		if o.PaymentStatus == PaymentStatusPending {
			o.PaymentStatus = PaymentStatusCompleted
		}
	case OrderStatusRefunded:
		o.PaymentStatus = PaymentStatusRefunded
	}
	return nil
}

// LastEntry returns the newest timeline entry.
func (o *Order) LastEntry() (TimelineEntry, bool) {
	if len(o.Timeline) == 0 {
		return TimelineEntry{}, false
	}
	return o.Timeline[len(o.Timeline)-1], true
}

// GenerateOrderCode builds the display code: ORD- + last 6 digits of the unix
// millisecond clock + a 3 digit suffix.
func GenerateOrderCode(now time.Time, suffix int) string {
	ms := now.UnixMilli() % 1_000_000
	return fmt.Sprintf("ORD-%06d%03d", ms, suffix%1000)
}
