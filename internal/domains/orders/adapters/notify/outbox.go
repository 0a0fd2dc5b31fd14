package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/minglemakers/minglemakers-api/internal/domains/orders/ports"
)

// DefaultChannel is the LISTEN/NOTIFY channel order notifications are published on.
const DefaultChannel = "order_notifications"

var _ ports.NotificationSink = (*Outbox)(nil)

// Outbox stores notifications in PostgreSQL and signals listeners with pg_notify.
type Outbox struct {
	db      *gorm.DB
	channel string
	logger  *slog.Logger
}

// NotificationRecord is a persisted notification row.
type NotificationRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Channel   string    `gorm:"column:channel;size:63;index"`
	Message   string    `gorm:"column:message"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (NotificationRecord) TableName() string { return "order_notifications" }

// NewOutbox wires the sink. Caller manages DB lifecycle and migrations.
func NewOutbox(db *gorm.DB, channel string, logger *slog.Logger) *Outbox {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Outbox{db: db, channel: channel, logger: logger}
}

// Notify never fails the caller; write errors are logged.
func (o *Outbox) Notify(ctx context.Context, message string) {
	if err := o.publish(ctx, message); err != nil {
		o.logger.LogAttrs(ctx, slog.LevelError, "failed to publish notification",
			slog.String("channel", o.channel),
			slog.String("error", err.Error()),
		)
	}
}

func (o *Outbox) publish(ctx context.Context, message string) error {
	if o == nil || o.db == nil {
		return errors.New("notification outbox not configured")
	}
	return o.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := NotificationRecord{Channel: o.channel, Message: message}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return tx.Exec("SELECT pg_notify(?, ?)", o.channel, message).Error
	})
}

// Recent returns the latest notifications on the channel, newest first.
func (o *Outbox) Recent(ctx context.Context, limit int) ([]NotificationRecord, error) {
	if o == nil || o.db == nil {
		return nil, errors.New("notification outbox not configured")
	}
	if limit <= 0 {
		limit = 20
	}
	var records []NotificationRecord
	err := o.db.WithContext(ctx).
		Where("channel = ?", o.channel).
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// DefaultRetention is how long delivered notifications are kept before PurgeExpired drops them.
const DefaultRetention = 7 * 24 * time.Hour

// PurgeExpired deletes notifications on the channel older than retention and reports how many.
func (o *Outbox) PurgeExpired(ctx context.Context, retention time.Duration) (int64, error) {
	if o == nil || o.db == nil {
		return 0, errors.New("notification outbox not configured")
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	cutoff := time.Now().UTC().Add(-retention)
	result := o.db.WithContext(ctx).
		Where("channel = ? AND created_at < ?", o.channel, cutoff).
		Delete(&NotificationRecord{})
	return result.RowsAffected, result.Error
}
