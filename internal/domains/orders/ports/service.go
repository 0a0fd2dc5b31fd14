package ports

import (
	"context"

	ordertypes "github.com/minglemakers/minglemakers-api/internal/domains/orders/application/types"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
)

// Service exposes the order lifecycle use cases to adapters.
type Service interface {
	AdvanceStatus(ctx context.Context, id ordertypes.OrderIdentifier) (*domain.Order, error)
	ListOrders(ctx context.Context, filter ordertypes.ListOrdersFilter) ([]*domain.Order, error)
	GetOrder(ctx context.Context, id ordertypes.OrderIdentifier) (*domain.Order, error)
	PlaceOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*domain.Order, error)
	Summary(ctx context.Context) (*ordertypes.Summary, error)
	Seed(ctx context.Context, orders []*domain.Order) (bool, error)
}
