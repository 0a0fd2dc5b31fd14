// Command outbox-purger deletes order notifications older than NOTIFY_RETENTION
// (a Go duration, default one week). It is meant to run from cron.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/minglemakers/minglemakers-api/internal/app/api"
	ordersnotify "github.com/minglemakers/minglemakers-api/internal/domains/orders/adapters/notify"
	platformpostgres "github.com/minglemakers/minglemakers-api/internal/platform/postgres"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if err := run(logger); err != nil {
		logger.Error("notification purge failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		return err
	}
	retention := ordersnotify.DefaultRetention
	if raw := os.Getenv("NOTIFY_RETENTION"); raw != "" {
		if retention, err = time.ParseDuration(raw); err != nil {
			return err
		}
	}

	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	purged, err := ordersnotify.NewOutbox(db, cfg.NotifyChannel, logger).PurgeExpired(ctx, retention)
	if err != nil {
		return err
	}
	logger.Info("notification purge completed",
		slog.Int64("removed", purged),
		slog.Duration("retention", retention),
		slog.String("channel", cfg.NotifyChannel),
	)
	return nil
}
