package orders

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/minglemakers/minglemakers-api/internal/domains/orders/application"
	ordertypes "github.com/minglemakers/minglemakers-api/internal/domains/orders/application/types"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
	orderports "github.com/minglemakers/minglemakers-api/internal/domains/orders/ports"
)

const (
	// LoadOrderActivityName reads the current state of an order.
	LoadOrderActivityName = "orders.activities.LoadOrder"
	// AdvanceStatusActivityName applies one guarded forward transition.
	AdvanceStatusActivityName = "orders.activities.AdvanceStatus"

	// ErrTypeNotFound marks a non-retryable failure for a missing order.
	ErrTypeNotFound = "OrderNotFound"
	// ErrTypeCorrupt marks a non-retryable failure for an order with invalid persisted state.
	ErrTypeCorrupt = "OrderCorrupt"
	// ErrTypeConflict marks a non-retryable failure for a caller whose expected status is stale.
	ErrTypeConflict = "OrderStatusConflict"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service orderports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service orderports.Service) *Activities {
	return &Activities{service: service}
}

// LoadOrder returns the order as currently stored.
func (a *Activities) LoadOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order activities not initialized", "orderId", input.ID)
		return nil, errors.New("order activities not initialized")
	}
	order, err := a.service.GetOrder(ctx, ordertypes.OrderIdentifier{ID: input.ID})
	if err != nil {
		logger.Error("LoadOrder activity failed", "orderId", input.ID, "error", err)
		return nil, classify(err)
	}
	return order, nil
}

// AdvanceStatus advances the order only if it still has input.ExpectedStatus. A conflict
// where the order sits exactly one step past ExpectedStatus means an earlier attempt of this
// activity committed, so the stored order is returned; any other conflict is reported.
func (a *Activities) AdvanceStatus(ctx context.Context, input ordertypes.OrderIdentifier) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order activities not initialized", "orderId", input.ID)
		return nil, errors.New("order activities not initialized")
	}
	logger.Info("AdvanceStatus activity started", "orderId", input.ID, "expected", string(input.ExpectedStatus))
	order, err := a.service.AdvanceStatus(ctx, input)
	if errors.Is(err, application.ErrStatusConflict) {
		order, err = a.alreadyApplied(ctx, input, err)
	}
	if err != nil {
		logger.Error("AdvanceStatus activity failed", "orderId", input.ID, "error", err)
		return nil, classify(err)
	}
	logger.Info("AdvanceStatus activity completed", "orderId", order.ID, "status", order.Status.String())
	return order, nil
}

func (a *Activities) alreadyApplied(ctx context.Context, input ordertypes.OrderIdentifier, conflict error) (*domain.Order, error) {
	stored, err := a.service.GetOrder(ctx, ordertypes.OrderIdentifier{ID: input.ID})
	if err != nil {
		return nil, err
	}
	next, err := input.ExpectedStatus.Next()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", application.ErrCorruptOrder, err)
	}
	if stored.Status != next {
		return nil, conflict
	}
	activity.GetLogger(ctx).Info("AdvanceStatus already applied; returning stored order", "orderId", input.ID)
	return stored, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, orderports.ErrNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeNotFound, err)
	case errors.Is(err, application.ErrCorruptOrder), errors.Is(err, domain.ErrUnknownStatus):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeCorrupt, err)
	case errors.Is(err, application.ErrStatusConflict):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeConflict, err)
	default:
		return err
	}
}
