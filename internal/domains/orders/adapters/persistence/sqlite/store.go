package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/ports"
)

var _ ports.OrderStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS supplier_orders (
	id TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	material TEXT NOT NULL,
	quantity TEXT NOT NULL DEFAULT '',
	buyer TEXT NOT NULL,
	order_date TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	eta TEXT NOT NULL DEFAULT '',
	price TEXT NOT NULL DEFAULT '0',
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_supplier_orders_position ON supplier_orders(position);
`

// Store keeps the order book in a local SQLite file, the single-user durable option.
type Store struct {
	db *sql.DB
}

// NewStore creates the schema if missing. Caller owns db.
func NewStore(ctx context.Context, db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("sqlite order store not configured")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("init order schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Load(ctx context.Context) ([]*domain.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, material, quantity, buyer, order_date, status, eta, price
		FROM supplier_orders ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var (
			order         domain.Order
			status, price string
		)
		if err := rows.Scan(&order.ID, &order.Material, &order.Quantity, &order.Buyer, &order.Date, &status, &order.ETA, &price); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		parsed, err := domain.ParseStatus(status)
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", order.ID, err)
		}
		order.Status = parsed
		amount, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("order %s: price %q: %w", order.ID, price, err)
		}
		order.Price = amount
		orders = append(orders, &order)
	}
	return orders, rows.Err()
}

// Save rewrites the whole collection in one transaction.
func (s *Store) Save(ctx context.Context, orders []*domain.Order) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM supplier_orders`); err != nil {
		return fmt.Errorf("clear orders: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO supplier_orders (id, position, material, quantity, buyer, order_date, status, eta, price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, order := range orders {
		if order == nil {
			err = errors.New("order is nil")
			return err
		}
		if _, err = stmt.ExecContext(ctx, order.ID, i, order.Material, order.Quantity, order.Buyer,
			order.Date, string(order.Status), order.ETA, order.Price.String()); err != nil {
			return fmt.Errorf("insert order %s: %w", order.ID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
