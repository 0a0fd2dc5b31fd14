package application

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ordertypes "github.com/minglemakers/minglemakers-api/internal/domains/orders/application/types"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/ports"
)

const (
	// MessageStatusUpdated is sent after every effective status advance.
	MessageStatusUpdated = "Order status updated"
	// MessageEscrowReleased is sent when an order reaches Delivered.
	MessageEscrowReleased = "Payment released from escrow!"
)

// Service owns the supplier order book and its forward-only lifecycle.
// Every mutation is a locked load, mutate, save of the whole collection.
type Service struct {
	mu       sync.Mutex
	store    ports.OrderStore
	notifier ports.NotificationSink
	newID    func() string
}

// Option configures optional collaborators.
type Option func(*Service)

// WithNotificationSink sets where user-facing confirmations go.
func WithNotificationSink(sink ports.NotificationSink) Option {
	return func(s *Service) {
		s.notifier = sink
	}
}

// WithIDGenerator overrides order id generation for PlaceOrder.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewService wires the lifecycle manager with its store.
func NewService(store ports.OrderStore, opts ...Option) *Service {
	s := &Service{store: store, newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// AdvanceStatus applies one forward transition to the order and persists the collection.
// A Delivered order is returned unchanged without writing to the store.
// The returned order carries the domain events raised by this call.
func (s *Service) AdvanceStatus(ctx context.Context, id ordertypes.OrderIdentifier) (*domain.Order, error) {
	order, err := s.advanceLocked(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, order.Events())
	return order, nil
}

func (s *Service) advanceLocked(ctx context.Context, id ordertypes.OrderIdentifier) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(orders, id.ID)
	if idx < 0 {
		return nil, ports.ErrNotFound
	}
	order := orders[idx]
	if id.ExpectedStatus != "" && order.Status != id.ExpectedStatus {
		return nil, fmt.Errorf("%w: order %s is %s, expected %s", ErrStatusConflict, order.ID, order.Status, id.ExpectedStatus)
	}
	changed, err := order.Advance()
	if err != nil {
		return nil, fmt.Errorf("%w: order %s: %w", ErrCorruptOrder, order.ID, err)
	}
	if !changed {
		return order, nil
	}
	if err := s.store.Save(ctx, orders); err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders returns orders matching the filter in store order.
func (s *Service) ListOrders(ctx context.Context, filter ordertypes.ListOrdersFilter) ([]*domain.Order, error) {
	orders, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*domain.Order, 0, len(orders))
	for _, order := range orders {
		if filter.Matches(order) {
			result = append(result, order)
		}
	}
	return result, nil
}

// GetOrder loads a single order.
func (s *Service) GetOrder(ctx context.Context, id ordertypes.OrderIdentifier) (*domain.Order, error) {
	orders, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(orders, id.ID)
	if idx < 0 {
		return nil, ports.ErrNotFound
	}
	return orders[idx], nil
}

// PlaceOrder appends a new Pending order on behalf of the ordering flow.
func (s *Service) PlaceOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*domain.Order, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = s.newID()
	}
	order, err := domain.NewOrder(id, input.Material, input.Quantity, input.Buyer, input.Date, input.ETA, input.Price)
	if err != nil {
		return nil, mapError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	orders, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if indexOf(orders, order.ID) >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, order.ID)
	}
	orders = append(orders, order)
	if err := s.store.Save(ctx, orders); err != nil {
		return nil, err
	}
	return order.Clone(), nil
}

// Summary counts orders per status and sums prices by escrow state.
func (s *Service) Summary(ctx context.Context) (*ordertypes.Summary, error) {
	orders, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	summary := &ordertypes.Summary{
		Counts:        make(map[domain.Status]int, len(domain.Statuses())),
		HeldValue:     decimal.Zero,
		ReleasedValue: decimal.Zero,
	}
	for _, status := range domain.Statuses() {
		summary.Counts[status] = 0
	}
	for _, order := range orders {
		summary.Counts[order.Status]++
		if order.Escrow() == domain.EscrowReleased {
			summary.ReleasedValue = summary.ReleasedValue.Add(order.Price)
		} else {
			summary.HeldValue = summary.HeldValue.Add(order.Price)
		}
	}
	return summary, nil
}

// Seed writes orders only when the store is empty. It reports whether it wrote.
func (s *Service) Seed(ctx context.Context, orders []*domain.Order) (bool, error) {
	for _, order := range orders {
		if order == nil {
			return false, fmt.Errorf("%w: nil order in seed", ErrInvalidInput)
		}
		if err := order.Validate(); err != nil {
			return false, mapError(fmt.Errorf("seed order %q: %w", order.ID, err))
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, err := s.store.Load(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	if err := s.store.Save(ctx, orders); err != nil {
		return false, err
	}
	return true, nil
}

// TimelineView projects the order status onto the progress flags.
func TimelineView(order *domain.Order) domain.Timeline {
	if order == nil {
		return domain.Timeline{}
	}
	return domain.TimelineFor(order.Status)
}

func (s *Service) load(ctx context.Context) ([]*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load(ctx)
}

func (s *Service) publish(ctx context.Context, events []domain.Event) {
	if s.notifier == nil || len(events) == 0 {
		return
	}
	for _, event := range events {
		if _, ok := event.(domain.PaymentReleased); ok {
			s.notifier.Notify(ctx, MessageEscrowReleased)
		}
	}
	s.notifier.Notify(ctx, MessageStatusUpdated)
}

func indexOf(orders []*domain.Order, id string) int {
	for i, order := range orders {
		if order != nil && order.ID == id {
			return i
		}
	}
	return -1
}

var _ ports.Service = (*Service)(nil)
