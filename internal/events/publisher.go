// Package events publishes order lifecycle events for downstream consumers
// (merchant notification delivery, analytics). Publishing is fire-and-forget:
// a failed publish is logged and never fails the order operation that
// produced it.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/nats-io/nats.go"

	"github.com/lapakgo/lapak/internal/domain"
)

// Subjects for order lifecycle events.
const (
	SubjectOrderCreated       = "orders.created"
	SubjectOrderStatusChanged = "orders.status_changed"
)

// Publisher emits order lifecycle events.
type Publisher interface {
	OrderCreated(ctx context.Context, order *domain.Order)
	OrderStatusChanged(ctx context.Context, order *domain.Order, previous domain.OrderStatus)
}

// OrderCreatedEvent is the payload for SubjectOrderCreated.
type OrderCreatedEvent struct {
	OrderID   string    `json:"order_id"`
	StoreID   string    `json:"store_id"`
	Total     string    `json:"total"`
	ItemCount int       `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderStatusChangedEvent is the payload for SubjectOrderStatusChanged.
type OrderStatusChangedEvent struct {
	OrderID        string `json:"order_id"`
	StoreID        string `json:"store_id"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
}

// NATSPublisher publishes events to a NATS connection.
type NATSPublisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

var _ Publisher = (*NATSPublisher)(nil)

// NewNATSPublisher connects to the given NATS URL.
func NewNATSPublisher(url string, logger *slog.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{conn: conn, logger: logger}, nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn("failed to drain NATS connection", "error", err)
	}
}

// OrderCreated publishes an orders.created event.
func (p *NATSPublisher) OrderCreated(_ context.Context, order *domain.Order) {
	p.publish(SubjectOrderCreated, OrderCreatedEvent{
		OrderID:   uuidString(order.ID),
		StoreID:   uuidString(order.StoreID),
		Total:     order.Total.String(),
		ItemCount: len(order.Items),
		CreatedAt: order.CreatedAt.Time,
	})
}

// OrderStatusChanged publishes an orders.status_changed event.
func (p *NATSPublisher) OrderStatusChanged(_ context.Context, order *domain.Order, previous domain.OrderStatus) {
	p.publish(SubjectOrderStatusChanged, OrderStatusChangedEvent{
		OrderID:        uuidString(order.ID),
		StoreID:        uuidString(order.StoreID),
		PreviousStatus: string(previous),
		NewStatus:      string(order.Status),
	})
}

func uuidString(id pgtype.UUID) string {
	return uuid.UUID(id.Bytes).String()
}

func (p *NATSPublisher) publish(subject string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("failed to marshal event", "subject", subject, "error", err)
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

// NoopPublisher discards all events. Used when NATS is not configured.
type NoopPublisher struct{}

var _ Publisher = NoopPublisher{}

func (NoopPublisher) OrderCreated(context.Context, *domain.Order)                          {}
func (NoopPublisher) OrderStatusChanged(context.Context, *domain.Order, domain.OrderStatus) {}
