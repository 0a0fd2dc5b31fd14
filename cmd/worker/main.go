package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/minglemakers/minglemakers-api/internal/app/api"
	platformobservability "github.com/minglemakers/minglemakers-api/internal/platform/observability"
	orderactivities "github.com/minglemakers/minglemakers-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/minglemakers/minglemakers-api/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "minglemakers-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := api.LoadConfig()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.OrderStore == api.StoreMemory {
		logger.Error("worker needs an order store shared with the API; set ORDER_STORE to postgres or sqlite")
		os.Exit(1)
	}
	components, err := api.BuildComponents(ctx, cfg, instruments)
	if err != nil {
		logger.Error("failed to build order components", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = components.Close(closeCtx)
	}()
	activities := orderactivities.NewActivities(components.Orders)

	temporalClient, err := api.ConnectTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.LifecycleTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.AdvanceWorkflow, workflow.RegisterOptions{Name: orderworkflows.AdvanceWorkflowName})
	w.RegisterActivityWithOptions(activities.LoadOrder, activity.RegisterOptions{Name: orderactivities.LoadOrderActivityName})
	w.RegisterActivityWithOptions(activities.AdvanceStatus, activity.RegisterOptions{Name: orderactivities.AdvanceStatusActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.LifecycleTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
