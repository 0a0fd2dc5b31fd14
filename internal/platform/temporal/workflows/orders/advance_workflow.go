package orders

import (
	"go.temporal.io/sdk/workflow"

	ordertypes "github.com/minglemakers/minglemakers-api/internal/domains/orders/application/types"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
	"github.com/minglemakers/minglemakers-api/internal/platform/temporal/sequences"
)

const (
	// AdvanceWorkflowName is the public identifier for registering the workflow.
	AdvanceWorkflowName = "orders.workflows.Advance"
	// LifecycleTaskQueue is the queue consumed by the worker processing order workflows.
	LifecycleTaskQueue = "ORDER_LIFECYCLE"
)

// AdvanceWorkflowInput identifies the order to move one step forward.
type AdvanceWorkflowInput struct {
	Order   ordertypes.OrderIdentifier
	TraceID string
}

// AdvanceWorkflow advances an order through the lifecycle durably.
func AdvanceWorkflow(ctx workflow.Context, input AdvanceWorkflowInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("AdvanceWorkflow started", withTraceID(input.TraceID, "orderId", input.Order.ID)...)
	order, err := sequences.RunOrderAdvanceSequence(ctx, input.Order)
	if err != nil {
		logger.Error("AdvanceWorkflow failed", withTraceID(input.TraceID, "orderId", input.Order.ID, "error", err)...)
		return nil, err
	}
	logger.Info("AdvanceWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID, "status", order.Status.String())...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
