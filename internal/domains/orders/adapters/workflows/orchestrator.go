package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/minglemakers/minglemakers-api/internal/domains/orders/application"
	ordertypes "github.com/minglemakers/minglemakers-api/internal/domains/orders/application/types"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/ports"
	orderactivities "github.com/minglemakers/minglemakers-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/minglemakers/minglemakers-api/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows runs status advances as Temporal workflows.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.LifecycleTaskQueue}
}

// AdvanceStatus starts the advance workflow and waits for its result.
func (o *TemporalOrderWorkflows) AdvanceStatus(ctx context.Context, id ordertypes.OrderIdentifier) (*domain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	requestKey := strings.TrimSpace(id.IdempotencyKey)
	if requestKey == "" {
		requestKey = uuid.NewString()
	}
	// A repeated idempotency key joins the earlier run instead of moving the order again.
	options := client.StartWorkflowOptions{
		ID:                                       buildAdvanceWorkflowID(id, requestKey),
		TaskQueue:                                o.taskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.AdvanceWorkflowName,
		orderworkflows.AdvanceWorkflowInput{Order: id, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, options.ID, alreadyStarted.RunId)
	}
	var order domain.Order
	if err := run.Get(ctx, &order); err != nil {
		return nil, translateWorkflowError(err)
	}
	return &order, nil
}

// InlineOrderWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineOrderWorkflows struct {
	service ports.Service
}

// NewInlineOrderWorkflows wraps the orders service for synchronous execution.
func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

// AdvanceStatus delegates to the application service without durable orchestration.
func (o *InlineOrderWorkflows) AdvanceStatus(ctx context.Context, id ordertypes.OrderIdentifier) (*domain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.AdvanceStatus(ctx, id)
}

// translateWorkflowError restores the application sentinels the activities classified.
func translateWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case orderactivities.ErrTypeNotFound:
		return fmt.Errorf("%w: %w", ports.ErrNotFound, err)
	case orderactivities.ErrTypeCorrupt:
		return fmt.Errorf("%w: %w", application.ErrCorruptOrder, err)
	case orderactivities.ErrTypeConflict:
		return fmt.Errorf("%w: %w", application.ErrStatusConflict, err)
	default:
		return err
	}
}

func buildAdvanceWorkflowID(id ordertypes.OrderIdentifier, requestKey string) string {
	return fmt.Sprintf("order-advance-%s-%s", id.ID, requestKey)
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
