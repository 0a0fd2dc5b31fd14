package workflows

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"
	"go.temporal.io/sdk/temporal"

	"github.com/minglemakers/minglemakers-api/internal/domains/orders/adapters/memory"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/application"
	ordertypes "github.com/minglemakers/minglemakers-api/internal/domains/orders/application/types"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/ports"
	orderactivities "github.com/minglemakers/minglemakers-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/minglemakers/minglemakers-api/internal/platform/temporal/workflows/orders"
)

func TestInlineOrderWorkflows_Advance(t *testing.T) {
	order, err := domain.NewOrder("ORD-1", "Bamboo Fiber", "200 kg", "Amit Singh", "2024-01-18", "2024-01-28", decimal.NewFromInt(15000))
	require.NoError(t, err)
	orchestrator := NewInlineOrderWorkflows(application.NewService(memory.NewStore(order)))

	advanced, err := orchestrator.AdvanceStatus(context.Background(), ordertypes.OrderIdentifier{ID: "ORD-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, advanced.Status)

	_, err = orchestrator.AdvanceStatus(context.Background(), ordertypes.OrderIdentifier{ID: "nope"})
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestUnconfiguredOrchestrators(t *testing.T) {
	_, err := (*InlineOrderWorkflows)(nil).AdvanceStatus(context.Background(), ordertypes.OrderIdentifier{ID: "x"})
	assert.Error(t, err)
	_, err = NewTemporalOrderWorkflows(nil).AdvanceStatus(context.Background(), ordertypes.OrderIdentifier{ID: "x"})
	assert.Error(t, err)
}

func TestTranslateWorkflowError(t *testing.T) {
	notFound := temporal.NewNonRetryableApplicationError("order not found", orderactivities.ErrTypeNotFound, nil)
	assert.ErrorIs(t, translateWorkflowError(notFound), ports.ErrNotFound)

	corrupt := temporal.NewNonRetryableApplicationError("bad status", orderactivities.ErrTypeCorrupt, nil)
	assert.ErrorIs(t, translateWorkflowError(corrupt), application.ErrCorruptOrder)

	conflict := temporal.NewNonRetryableApplicationError("stale", orderactivities.ErrTypeConflict, nil)
	assert.ErrorIs(t, translateWorkflowError(conflict), application.ErrStatusConflict)

	other := errors.New("timeout")
	assert.Same(t, other, translateWorkflowError(other))
}

func TestBuildAdvanceWorkflowID(t *testing.T) {
	assert.Equal(t, "order-advance-ORD-1-abc", buildAdvanceWorkflowID(ordertypes.OrderIdentifier{ID: "ORD-1"}, "abc"))
}

// inlineTemporalClient runs the advance synchronously against service and rejects
// duplicate workflow ids the way the Temporal server does.
type inlineTemporalClient struct {
	client.Client
	service ports.Service
	runs    map[string]*inlineRun
	started []string
}

func (c *inlineTemporalClient) ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, _ interface{}, args ...interface{}) (client.WorkflowRun, error) {
	if run, ok := c.runs[options.ID]; ok {
		return nil, serviceerror.NewWorkflowExecutionAlreadyStarted("already started", "", run.runID)
	}
	input := args[0].(orderworkflows.AdvanceWorkflowInput)
	order, err := c.service.AdvanceStatus(ctx, input.Order)
	run := &inlineRun{id: options.ID, runID: fmt.Sprintf("run-%d", len(c.runs)+1), order: order, err: err}
	c.runs[options.ID] = run
	c.started = append(c.started, options.ID)
	return run, nil
}

func (c *inlineTemporalClient) GetWorkflow(_ context.Context, workflowID, _ string) client.WorkflowRun {
	return c.runs[workflowID]
}

type inlineRun struct {
	client.WorkflowRun
	id, runID string
	order     *domain.Order
	err       error
}

func (r *inlineRun) GetID() string    { return r.id }
func (r *inlineRun) GetRunID() string { return r.runID }

func (r *inlineRun) Get(_ context.Context, valuePtr interface{}) error {
	if r.err != nil {
		return r.err
	}
	*valuePtr.(*domain.Order) = *r.order
	return nil
}

func tracedContext(t *testing.T) context.Context {
	t.Helper()
	traceID, err := oteltrace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := oteltrace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	return oteltrace.ContextWithSpanContext(context.Background(), oteltrace.NewSpanContext(oteltrace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: oteltrace.FlagsSampled,
	}))
}

func newInlineTemporalClient(t *testing.T) (*inlineTemporalClient, *memory.Store) {
	t.Helper()
	order, err := domain.NewOrder("ORD-1", "Bamboo Fiber", "200 kg", "Amit Singh", "2024-01-18", "2024-01-28", decimal.NewFromInt(15000))
	require.NoError(t, err)
	store := memory.NewStore(order)
	return &inlineTemporalClient{service: application.NewService(store), runs: map[string]*inlineRun{}}, store
}

func TestTemporalOrderWorkflows_SameTraceAdvancesTwice(t *testing.T) {
	temporalClient, store := newInlineTemporalClient(t)
	orchestrator := NewTemporalOrderWorkflows(temporalClient)
	ctx := tracedContext(t)

	first, err := orchestrator.AdvanceStatus(ctx, ordertypes.OrderIdentifier{ID: "ORD-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, first.Status)

	second, err := orchestrator.AdvanceStatus(ctx, ordertypes.OrderIdentifier{ID: "ORD-1", ExpectedStatus: domain.StatusShipped})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInTransit, second.Status)

	require.Len(t, temporalClient.started, 2)
	assert.NotEqual(t, temporalClient.started[0], temporalClient.started[1])
	stored, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInTransit, stored[0].Status)
}

func TestTemporalOrderWorkflows_RepeatedIdempotencyKeyAdvancesOnce(t *testing.T) {
	temporalClient, store := newInlineTemporalClient(t)
	orchestrator := NewTemporalOrderWorkflows(temporalClient)
	id := ordertypes.OrderIdentifier{ID: "ORD-1", IdempotencyKey: "req-42"}

	first, err := orchestrator.AdvanceStatus(context.Background(), id)
	require.NoError(t, err)
	replayed, err := orchestrator.AdvanceStatus(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusShipped, first.Status)
	assert.Equal(t, domain.StatusShipped, replayed.Status)
	assert.Equal(t, []string{"order-advance-ORD-1-req-42"}, temporalClient.started)
	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, stored[0].Status)
}

func TestTemporalOrderWorkflows_ReplayedRequestJoinsEarlierRun(t *testing.T) {
	temporalClient := &mocks.Client{}
	run := &mocks.WorkflowRun{}
	id := ordertypes.OrderIdentifier{ID: "ORD-1", IdempotencyKey: "req-1"}

	temporalClient.On("ExecuteWorkflow", mock.Anything, mock.MatchedBy(func(opts client.StartWorkflowOptions) bool {
		return opts.TaskQueue == "ORDER_LIFECYCLE" && opts.WorkflowExecutionErrorWhenAlreadyStarted
	}), "orders.workflows.Advance", mock.Anything).
		Return(nil, serviceerror.NewWorkflowExecutionAlreadyStarted("already started", "", "run-1"))
	temporalClient.On("GetWorkflow", mock.Anything, "order-advance-ORD-1-req-1", "run-1").Return(run)
	run.On("Get", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		*args.Get(1).(*domain.Order) = domain.Order{ID: "ORD-1", Status: domain.StatusShipped}
	}).Return(nil)

	order, err := NewTemporalOrderWorkflows(temporalClient).AdvanceStatus(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, order.Status)
	temporalClient.AssertExpectations(t)
	run.AssertExpectations(t)
}
