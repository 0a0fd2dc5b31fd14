package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/minglemakers/minglemakers-api/internal/domains/orders/adapters/memory"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/application"
	ordertypes "github.com/minglemakers/minglemakers-api/internal/domains/orders/application/types"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
)

func newActivityEnv(t *testing.T, status domain.Status) (*testsuite.TestActivityEnvironment, *memory.Store) {
	t.Helper()
	order, err := domain.NewOrder("ORD-1", "Organic Clay", "500 kg", "Rajesh Kumar", "2024-01-15", "2024-01-22", decimal.NewFromInt(12500))
	require.NoError(t, err)
	order.Status = status
	store := memory.NewStore(order)

	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestActivityEnvironment()
	env.RegisterActivity(NewActivities(application.NewService(store)))
	return env, store
}

func TestAdvanceStatus_AppliesGuardedStep(t *testing.T) {
	env, store := newActivityEnv(t, domain.StatusPending)
	acts := NewActivities(nil)

	val, err := env.ExecuteActivity(acts.AdvanceStatus, ordertypes.OrderIdentifier{ID: "ORD-1", ExpectedStatus: domain.StatusPending})
	require.NoError(t, err)
	var order domain.Order
	require.NoError(t, val.Get(&order))
	assert.Equal(t, domain.StatusShipped, order.Status)

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, stored[0].Status)
}

func TestAdvanceStatus_RetryAfterCommitReturnsStoredOrder(t *testing.T) {
	env, store := newActivityEnv(t, domain.StatusShipped)
	acts := NewActivities(nil)

	val, err := env.ExecuteActivity(acts.AdvanceStatus, ordertypes.OrderIdentifier{ID: "ORD-1", ExpectedStatus: domain.StatusPending})
	require.NoError(t, err)
	var order domain.Order
	require.NoError(t, val.Get(&order))
	assert.Equal(t, domain.StatusShipped, order.Status)

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, stored[0].Status)
}

func TestAdvanceStatus_ConcurrentAdvanceIsConflict(t *testing.T) {
	// Another caller moved the order two steps past the status this workflow observed.
	env, store := newActivityEnv(t, domain.StatusInTransit)
	acts := NewActivities(nil)

	_, err := env.ExecuteActivity(acts.AdvanceStatus, ordertypes.OrderIdentifier{ID: "ORD-1", ExpectedStatus: domain.StatusPending})
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeConflict, appErr.Type())
	assert.True(t, appErr.NonRetryable())

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInTransit, stored[0].Status)
}

func TestLoadOrder_MissingIsNonRetryable(t *testing.T) {
	env, _ := newActivityEnv(t, domain.StatusPending)
	acts := NewActivities(nil)

	_, err := env.ExecuteActivity(acts.LoadOrder, ordertypes.OrderIdentifier{ID: "missing"})
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeNotFound, appErr.Type())
}
