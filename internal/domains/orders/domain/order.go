package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// EscrowStatus labels whether payment is considered released to the supplier.
type EscrowStatus string

const (
	EscrowHeld     EscrowStatus = "Held"
	EscrowReleased EscrowStatus = "Released"
)

var (
	ErrEmptyID       = errors.New("order id is required")
	ErrEmptyMaterial = errors.New("order material is required")
	ErrEmptyBuyer    = errors.New("order buyer is required")
	ErrNegativePrice = errors.New("order price must be greater or equal to zero")
)

// Timeline is the four step progress projection shown to buyers and suppliers.
type Timeline struct {
	Ordered   bool
	Packed    bool
	InTransit bool
	Delivered bool
}

// Order models a supplier order moving through the delivery sequence.
// Timeline and escrow are derived from Status and never stored.
type Order struct {
	ID       string
	Material string
	Quantity string
	Buyer    string
	Date     string
	Status   Status
	ETA      string
	Price    decimal.Decimal

	events []Event
}

// NewOrder validates the invariants and builds a Pending order.
func NewOrder(id, material, quantity, buyer, date, eta string, price decimal.Decimal) (*Order, error) {
	o := &Order{
		ID:       strings.TrimSpace(id),
		Material: strings.TrimSpace(material),
		Quantity: strings.TrimSpace(quantity),
		Buyer:    strings.TrimSpace(buyer),
		Date:     date,
		Status:   StatusPending,
		ETA:      eta,
		Price:    price,
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate enforces invariants on the aggregate, including the persisted status.
func (o *Order) Validate() error {
	if o.ID == "" {
		return ErrEmptyID
	}
	if o.Material == "" {
		return ErrEmptyMaterial
	}
	if o.Buyer == "" {
		return ErrEmptyBuyer
	}
	if o.Price.IsNegative() {
		return ErrNegativePrice
	}
	if !o.Status.IsValid() {
		return ErrUnknownStatus
	}
	return nil
}

// Advance moves the order one step forward. It reports whether the status changed;
// advancing a Delivered order is a no-op.
func (o *Order) Advance() (bool, error) {
	if o.Status.IsTerminal() {
		return false, nil
	}
	next, err := o.Status.Next()
	if err != nil {
		return false, err
	}
	from := o.Status
	o.Status = next
	o.record(StatusAdvanced{BaseEvent: newBaseEvent(), OrderID: o.ID, From: from, To: next})
	if next == StatusDelivered {
		o.record(PaymentReleased{BaseEvent: newBaseEvent(), OrderID: o.ID, Price: o.Price})
	}
	return true, nil
}

// Timeline derives the progress flags from the current status.
func (o *Order) Timeline() Timeline {
	return TimelineFor(o.Status)
}

// Escrow derives the escrow label from the current status.
func (o *Order) Escrow() EscrowStatus {
	if o.Status == StatusDelivered {
		return EscrowReleased
	}
	return EscrowHeld
}

// TimelineFor projects a status onto the progress flags.
func TimelineFor(status Status) Timeline {
	return Timeline{
		Ordered:   true,
		Packed:    status.AtLeast(StatusShipped),
		InTransit: status.AtLeast(StatusInTransit),
		Delivered: status == StatusDelivered,
	}
}

// Clone returns a copy without pending events.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.events = nil
	return &clone
}

// Events returns the events recorded since the last ClearEvents.
func (o *Order) Events() []Event {
	return append([]Event(nil), o.events...)
}

// ClearEvents drops recorded events.
func (o *Order) ClearEvents() {
	o.events = nil
}

func (o *Order) record(e Event) {
	o.events = append(o.events, e)
}

var _ AggregateWithEvents = (*Order)(nil)
