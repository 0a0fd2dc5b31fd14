package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/ports"
)

var _ ports.OrderStore = (*Store)(nil)

// Store persists the supplier order book in PostgreSQL using GORM.
type Store struct {
	db *gorm.DB
}

// NewStore wires a PostgreSQL-backed store. Caller manages DB lifecycle.
func NewStore(db *gorm.DB) *Store {
	store := &Store{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{})
	}
	return store
}

// orderRecord maps the order aggregate to a relational table. Timeline and escrow
// are derived from status and deliberately absent.
type orderRecord struct {
	ID        string          `gorm:"primaryKey;column:id;size:64"`
	Position  int             `gorm:"column:position;index"`
	Material  string          `gorm:"column:material"`
	Quantity  string          `gorm:"column:quantity"`
	Buyer     string          `gorm:"column:buyer;index"`
	OrderDate string          `gorm:"column:order_date"`
	Status    string          `gorm:"column:status;type:varchar(32);index"`
	ETA       string          `gorm:"column:eta"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(14,2)"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at;index"`
}

func (orderRecord) TableName() string { return "supplier_orders" }

// Load returns every order in insertion order.
func (s *Store) Load(ctx context.Context) ([]*domain.Order, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := s.db.WithContext(ctx).Order("position ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		order, err := records[i].toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Save replaces the stored collection inside a single transaction.
func (s *Store) Save(ctx context.Context, orders []*domain.Order) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]string, 0, len(orders))
		for i, order := range orders {
			if order == nil {
				return errors.New("order is nil")
			}
			record := toRecord(order, i)
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.Assignments(map[string]any{
					"position":   record.Position,
					"material":   record.Material,
					"quantity":   record.Quantity,
					"buyer":      record.Buyer,
					"order_date": record.OrderDate,
					"status":     record.Status,
					"eta":        record.ETA,
					"price":      record.Price,
					"updated_at": gorm.Expr("NOW()"),
				}),
			}).Create(&record).Error; err != nil {
				return fmt.Errorf("upsert order %s: %w", order.ID, err)
			}
			ids = append(ids, order.ID)
		}
		prune := tx.Where("1 = 1")
		if len(ids) > 0 {
			prune = tx.Where("id NOT IN ?", ids)
		}
		return prune.Delete(&orderRecord{}).Error
	})
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres order store not configured")
	}
	return nil
}

func toRecord(order *domain.Order, position int) orderRecord {
	return orderRecord{
		ID:        order.ID,
		Position:  position,
		Material:  order.Material,
		Quantity:  order.Quantity,
		Buyer:     order.Buyer,
		OrderDate: order.Date,
		Status:    string(order.Status),
		ETA:       order.ETA,
		Price:     order.Price,
	}
}

func (r orderRecord) toDomain() (*domain.Order, error) {
	status, err := domain.ParseStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", r.ID, err)
	}
	return &domain.Order{
		ID:       r.ID,
		Material: r.Material,
		Quantity: r.Quantity,
		Buyer:    r.Buyer,
		Date:     r.OrderDate,
		Status:   status,
		ETA:      r.ETA,
		Price:    r.Price,
	}, nil
}
