package ports

import (
	"context"

	ordertypes "github.com/minglemakers/minglemakers-api/internal/domains/orders/application/types"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
)

// WorkflowOrchestrator runs status advances, optionally through a durable engine.
type WorkflowOrchestrator interface {
	AdvanceStatus(ctx context.Context, id ordertypes.OrderIdentifier) (*domain.Order, error)
}
