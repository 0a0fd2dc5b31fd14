package sequences

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordertypes "github.com/minglemakers/minglemakers-api/internal/domains/orders/application/types"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
	orderactivities "github.com/minglemakers/minglemakers-api/internal/platform/temporal/activities/orders"
)

// RunOrderAdvanceSequence reads the order, then advances it guarded by the status it observed,
// so activity retries never move an order more than one step.
func RunOrderAdvanceSequence(ctx workflow.Context, input ordertypes.OrderIdentifier) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order advance sequence started", "orderId", input.ID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var current domain.Order
	if err := workflow.ExecuteActivity(ctx, orderactivities.LoadOrderActivityName, ordertypes.OrderIdentifier{ID: input.ID}).Get(ctx, &current); err != nil {
		logger.Error("order advance sequence load failed", "orderId", input.ID, "error", err)
		return nil, err
	}

	if input.ExpectedStatus != "" && input.ExpectedStatus != current.Status {
		return nil, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("order %s is %s, expected %s", input.ID, current.Status, input.ExpectedStatus),
			orderactivities.ErrTypeConflict,
			nil,
		)
	}

	guard := ordertypes.OrderIdentifier{ID: input.ID, ExpectedStatus: current.Status}
	var advanced domain.Order
	if err := workflow.ExecuteActivity(ctx, orderactivities.AdvanceStatusActivityName, guard).Get(ctx, &advanced); err != nil {
		logger.Error("order advance sequence failed", "orderId", input.ID, "error", err)
		return nil, err
	}
	logger.Info("order advance sequence completed", "orderId", advanced.ID, "from", current.Status.String(), "to", advanced.Status.String())
	return &advanced, nil
}
