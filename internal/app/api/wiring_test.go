package api

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	ordersworkflows "github.com/minglemakers/minglemakers-api/internal/domains/orders/adapters/workflows"
	ordertypes "github.com/minglemakers/minglemakers-api/internal/domains/orders/application/types"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
)

func TestBuildComponents_SQLiteSurvivesRestart(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := DefaultConfig()
	cfg.OrderStore = StoreSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "orders.db")
	cfg.TemporalDisabled = true

	first, err := BuildComponents(ctx, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, SeedOrders(ctx, cfg, first.Orders, logger))
	advanced, err := first.Orders.AdvanceStatus(ctx, ordertypes.OrderIdentifier{ID: "ORD-2024-001"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, advanced.Status)
	require.NoError(t, first.Close(ctx))

	second, err := BuildComponents(ctx, cfg, nil)
	require.NoError(t, err)
	defer second.Close(ctx)
	require.NoError(t, SeedOrders(ctx, cfg, second.Orders, logger))

	orders, err := second.Orders.ListOrders(ctx, ordertypes.ListOrdersFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 4)
	assert.Equal(t, domain.StatusDelivered, orders[0].Status)
	assert.Equal(t, domain.EscrowReleased, orders[0].Escrow())
}

func TestBuildComponents_MemoryServesClusters(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()

	components, err := BuildComponents(ctx, DefaultConfig(), nil)
	require.NoError(t, err)
	defer components.Close(ctx)

	members, err := components.Clusters.Nearby(ctx, "pottery-ceramics", nil)
	require.NoError(t, err)
	assert.Len(t, members, 2)
	assert.Nil(t, components.DB)
}

func TestSelectOrderWorkflows_MemoryStoreStaysInline(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.OrderStore = StoreMemory
	cfg.TemporalDisabled = false
	cfg.TemporalAddress = "127.0.0.1:1"

	components, err := BuildComponents(ctx, cfg, nil)
	require.NoError(t, err)
	defer components.Close(ctx)
	require.NoError(t, SeedOrders(ctx, cfg, components.Orders, slog.New(slog.NewTextHandler(io.Discard, nil))))

	orchestrator, closeWorkflows := SelectOrderWorkflows(cfg, components.Orders, nil)
	defer closeWorkflows()
	require.IsType(t, &ordersworkflows.InlineOrderWorkflows{}, orchestrator)

	advanced, err := orchestrator.AdvanceStatus(ctx, ordertypes.OrderIdentifier{ID: "ORD-2024-003"})
	require.NoError(t, err)
	stored, err := components.Orders.GetOrder(ctx, ordertypes.OrderIdentifier{ID: "ORD-2024-003"})
	require.NoError(t, err)
	assert.Equal(t, advanced.Status, stored.Status)
}

func TestSelectOrderWorkflows_FallsBackInlineWhenTemporalDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OrderStore = StoreSQLite
	cfg.TemporalDisabled = true

	orchestrator, closeWorkflows := SelectOrderWorkflows(cfg, nil, nil)
	defer closeWorkflows()
	assert.IsType(t, &ordersworkflows.InlineOrderWorkflows{}, orchestrator)
}
