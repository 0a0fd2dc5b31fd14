package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/ports"
)

var _ ports.OrderStore = (*Store)(nil)

// Store is an in-memory order collection for development and tests.
type Store struct {
	mu     sync.RWMutex
	orders []*domain.Order
}

// NewStore builds a store pre-populated with copies of orders.
func NewStore(orders ...*domain.Order) *Store {
	return &Store{orders: cloneAll(orders)}
}

func (s *Store) Load(_ context.Context) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.orders), nil
}

func (s *Store) Save(_ context.Context, orders []*domain.Order) error {
	for _, order := range orders {
		if order == nil {
			return fmt.Errorf("order is nil")
		}
		if err := order.Validate(); err != nil {
			return fmt.Errorf("order %q: %w", order.ID, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = cloneAll(orders)
	return nil
}

func cloneAll(orders []*domain.Order) []*domain.Order {
	list := make([]*domain.Order, 0, len(orders))
	for _, order := range orders {
		if order == nil {
			continue
		}
		list = append(list, order.Clone())
	}
	return list
}
