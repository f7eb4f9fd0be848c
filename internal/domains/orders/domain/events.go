package domain

import "time"

// Event is the base interface for order lifecycle events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
	AggregateID() string
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	OrderID   string    `json:"orderId"`
	Timestamp time.Time `json:"occurredAt"`
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID returns the order the event belongs to.
func (e BaseEvent) AggregateID() string {
	return e.OrderID
}

// OrderStatusChanged is raised once the backend confirmed a status transition.
type OrderStatusChanged struct {
	BaseEvent
	FromStatus Status `json:"fromStatus"`
	ToStatus   Status `json:"toStatus"`
}

// EventName returns the event type identifier.
func (e OrderStatusChanged) EventName() string {
	return "orders.order.status_changed"
}

// OrderPaymentChanged is raised once the backend confirmed a payment flag change.
type OrderPaymentChanged struct {
	BaseEvent
	Paid bool `json:"paid"`
}

// EventName returns the event type identifier.
func (e OrderPaymentChanged) EventName() string {
	return "orders.order.payment_changed"
}
