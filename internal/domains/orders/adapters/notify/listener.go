package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
)

// Listen subscribes to channel over a dedicated lib/pq connection and calls fn for
// every payload until ctx is cancelled.
func Listen(ctx context.Context, dsn, channel string, logger *slog.Logger, fn func(message string)) error {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	listener := pq.NewListener(dsn, 2*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Warn("notification listener event", slog.Int("event", int(ev)), slog.String("error", err.Error()))
		}
	})
	defer listener.Close()

	if err := listener.Listen(channel); err != nil {
		return fmt.Errorf("listen %s: %w", channel, err)
	}
	logger.Info("listening for notifications", slog.String("channel", channel))

	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			// nil after a reconnect; notifications sent while disconnected are lost.
			if n == nil {
				continue
			}
			fn(n.Extra)
		case <-ping.C:
			if err := listener.Ping(); err != nil {
				logger.Warn("notification listener ping failed", slog.String("error", err.Error()))
			}
		}
	}
}
