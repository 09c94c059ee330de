package domain

import "time"

const (
	EventOrderCreated          = "order.created"
	EventOrderStatusChanged    = "order.status_changed"
	EventOrderDeliveryAttached = "order.delivery_attached"
)

// EventEnvelope is the message body published for every order event.
type EventEnvelope struct {
	Pattern string `json:"pattern"`
	Data    any    `json:"data"`
	ID      string `json:"id,omitempty"`
}

type OrderCreatedEvent struct {
	OrderID    string    `json:"orderId"`
	User       string    `json:"user"`
	Products   []string  `json:"products"`
	TotalPrice float64   `json:"totalPrice"`
	Payment    string    `json:"payment"`
	CreatedAt  time.Time `json:"createdAt"`
}

type OrderStatusChangedEvent struct {
	OrderID   string      `json:"orderId"`
	From      OrderStatus `json:"from"`
	To        OrderStatus `json:"to"`
	ChangedAt time.Time   `json:"changedAt"`
}

type OrderDeliveryAttachedEvent struct {
	OrderID    string      `json:"orderId"`
	Delivery   string      `json:"delivery"`
	Status     OrderStatus `json:"status"`
	AttachedAt time.Time   `json:"attachedAt"`
}

// OrderKey is the partition key of an event: events of one order stay ordered.
func (e OrderCreatedEvent) OrderKey() string { return e.OrderID }
func (e OrderStatusChangedEvent) OrderKey() string { return e.OrderID }
func (e OrderDeliveryAttachedEvent) OrderKey() string { return e.OrderID }
