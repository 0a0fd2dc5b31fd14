package notify

import (
	"context"
	"log/slog"

	"github.com/minglemakers/minglemakers-api/internal/domains/orders/ports"
)

var _ ports.NotificationSink = (*LogSink)(nil)

// LogSink writes confirmations to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink builds a sink backed by logger, or slog.Default when nil.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(ctx context.Context, message string) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, "notification", slog.String("message", message))
}

// Multi fans a message out to every sink in order.
type Multi []ports.NotificationSink

func (m Multi) Notify(ctx context.Context, message string) {
	for _, sink := range m {
		if sink != nil {
			sink.Notify(ctx, message)
		}
	}
}

var _ ports.NotificationSink = Multi(nil)
