package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
	platformsqlite "github.com/minglemakers/minglemakers-api/internal/platform/sqlite"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	db, err := platformsqlite.Open(ctx, filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewStore(ctx, db)
	require.NoError(t, err)
	return store
}

func newOrder(t *testing.T, id, price string) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(id, "Bamboo Fiber", "200 kg", "Amit Singh", "2024-01-10", "2024-01-20", decimal.RequireFromString(price))
	require.NoError(t, err)
	return order
}

func TestStore_EmptyLoad(t *testing.T) {
	store := newTestStore(t)

	orders, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestStore_SaveLoadRoundTripKeepsOrderAndPrice(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	shipped := newOrder(t, "ORD-2", "8900.75")
	_, err := shipped.Advance()
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, []*domain.Order{newOrder(t, "ORD-9", "100"), shipped}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "ORD-9", loaded[0].ID)
	assert.Equal(t, "ORD-2", loaded[1].ID)
	assert.Equal(t, domain.StatusShipped, loaded[1].Status)
	assert.True(t, loaded[1].Price.Equal(decimal.RequireFromString("8900.75")))
	assert.Equal(t, domain.Timeline{Ordered: true, Packed: true}, loaded[1].Timeline())
}

func TestStore_SaveReplacesCollection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []*domain.Order{newOrder(t, "ORD-1", "1"), newOrder(t, "ORD-2", "2")}))
	require.NoError(t, store.Save(ctx, []*domain.Order{newOrder(t, "ORD-2", "2")}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "ORD-2", loaded[0].ID)
}

func TestStore_LoadRejectsUnknownStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, []*domain.Order{newOrder(t, "ORD-1", "1")}))

	_, err := store.db.ExecContext(ctx, `UPDATE supplier_orders SET status = 'Lost' WHERE id = 'ORD-1'`)
	require.NoError(t, err)

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrUnknownStatus)
}

func TestStore_SaveNilOrderRollsBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, []*domain.Order{newOrder(t, "ORD-1", "1")}))

	err := store.Save(ctx, []*domain.Order{newOrder(t, "ORD-2", "2"), nil})
	require.Error(t, err)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "ORD-1", loaded[0].ID)
}
