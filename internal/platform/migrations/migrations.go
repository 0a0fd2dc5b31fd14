package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Adapters still AutoMigrate their own
// tables so they stay usable in isolation.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&supplierOrderRecord{},
		&notificationRecord{},
	)
}

// Supplier order schema mirrors the orders Postgres store.
type supplierOrderRecord struct {
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

func (supplierOrderRecord) TableName() string { return "supplier_orders" }

// Notification schema mirrors the outbox sink.
type notificationRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Channel   string    `gorm:"column:channel;size:63;index"`
	Message   string    `gorm:"column:message"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (notificationRecord) TableName() string { return "order_notifications" }
