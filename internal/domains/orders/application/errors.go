package application

import (
	"errors"
	"fmt"

	"github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrAlreadyExists signals an order with the same id is already stored.
	ErrAlreadyExists = errors.New("order already exists")
	// ErrCorruptOrder signals persisted data no longer satisfies the aggregate invariants.
	ErrCorruptOrder = errors.New("stored order is corrupt")
	// ErrStatusConflict signals the order moved on since the caller last read it.
	ErrStatusConflict = errors.New("order status changed")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyID) ||
		errors.Is(err, domain.ErrEmptyMaterial) ||
		errors.Is(err, domain.ErrEmptyBuyer) ||
		errors.Is(err, domain.ErrNegativePrice) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
