package ports

import (
	"context"
	"errors"

	"github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// OrderStore loads and saves the whole order collection. Implementations must
// preserve insertion order on Load and must not retain the slice passed to Save.
type OrderStore interface {
	Load(ctx context.Context) ([]*domain.Order, error)
	Save(ctx context.Context, orders []*domain.Order) error
}
