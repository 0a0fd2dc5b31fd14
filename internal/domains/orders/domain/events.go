package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is the base interface for all domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

func newBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now().UTC()}
}

// StatusAdvanced is raised on every effective forward transition.
type StatusAdvanced struct {
	BaseEvent
	OrderID string
	From    Status
	To      Status
}

// EventName returns the event type identifier.
func (e StatusAdvanced) EventName() string {
	return "orders.order.status_advanced"
}

// PaymentReleased is raised when an order reaches Delivered.
type PaymentReleased struct {
	BaseEvent
	OrderID string
	Price   decimal.Decimal
}

// EventName returns the event type identifier.
func (e PaymentReleased) EventName() string {
	return "orders.order.escrow_released"
}

// AggregateWithEvents is implemented by aggregates that track domain events.
type AggregateWithEvents interface {
	Events() []Event
	ClearEvents()
}
