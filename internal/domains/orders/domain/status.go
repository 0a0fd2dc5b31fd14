package domain

import (
	"errors"
	"fmt"
)

// Status enumerates the delivery progression of a supplier order.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusShipped   Status = "Shipped"
	StatusInTransit Status = "In Transit"
	StatusDelivered Status = "Delivered"
)

// ErrUnknownStatus is returned when a status outside the delivery sequence is encountered.
var ErrUnknownStatus = errors.New("order status is not part of the delivery sequence")

// statusSequence is the only legal ordering of statuses.
var statusSequence = [...]Status{StatusPending, StatusShipped, StatusInTransit, StatusDelivered}

// transitions maps every status to its successor. Delivered maps to itself.
var transitions = map[Status]Status{
	StatusPending:   StatusShipped,
	StatusShipped:   StatusInTransit,
	StatusInTransit: StatusDelivered,
	StatusDelivered: StatusDelivered,
}

// Statuses returns the delivery sequence in order.
func Statuses() []Status {
	return append([]Status(nil), statusSequence[:]...)
}

// ParseStatus accepts exactly one of the sequence labels.
func ParseStatus(raw string) (Status, error) {
	status := Status(raw)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return status, nil
}

func (s Status) String() string { return string(s) }

// IsValid reports whether s is part of the delivery sequence.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// Index returns the position of s in the delivery sequence, or -1.
func (s Status) Index() int {
	for i, candidate := range statusSequence {
		if candidate == s {
			return i
		}
	}
	return -1
}

// Next returns the successor of s. The terminal status is its own successor.
func (s Status) Next() (Status, error) {
	next, ok := transitions[s]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, string(s))
	}
	return next, nil
}

// IsTerminal reports whether s has no outgoing transition.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered
}

// AtLeast reports whether s has reached other in the delivery sequence.
func (s Status) AtLeast(other Status) bool {
	idx := s.Index()
	return idx >= 0 && idx >= other.Index()
}
