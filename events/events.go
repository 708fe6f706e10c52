// Package events fans order changes out to websocket dashboards and Kafka.
package events

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/junaidrashid-git/commerce-api/models"
)

type Type string

const (
	OrderCreated        Type = "order.created"
	OrderStatusChanged  Type = "order.status_changed"
	OrderPaymentChanged Type = "order.payment_changed"
	OrderDeleted        Type = "order.deleted"
)

type Event struct {
	Type      Type          `json:"type"`
	OrderID   string        `json:"orderId"`
	OrderCode string        `json:"orderCode"`
	Order     *models.Order `json:"order,omitempty"`
	At        time.Time     `json:"at"`
}

func NewOrderEvent(t Type, o *models.Order, at time.Time) Event {
	return Event{Type: t, OrderID: o.ID, OrderCode: o.OrderCode, Order: o, At: at}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

// Multi delivers to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			slog.WarnContext(ctx, "event publish failed", "type", e.Type, "order_id", e.OrderID, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
