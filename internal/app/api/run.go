package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	marketplaceserver "github.com/minglemakers/minglemakers-api/go"
	platformobservability "github.com/minglemakers/minglemakers-api/internal/platform/observability"
	"github.com/minglemakers/minglemakers-api/internal/shared/auth"
)

// ServiceName identifies the API process in traces and metrics.
const ServiceName = "minglemakers-api"

const shutdownTimeout = 10 * time.Second

// Run boots the MingleMakers HTTP API with observability, stores, and workflows wired.
// It returns when ctx is cancelled and the server has drained.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, ServiceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	components, err := BuildComponents(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := components.Close(closeCtx); err != nil {
			logger.Warn("pending notifications not delivered", slog.String("error", err.Error()))
		}
	}()

	if cfg.SeedFixtures {
		if err := SeedOrders(ctx, cfg, components.Orders, logger); err != nil {
			return err
		}
	}

	orderWorkflows, closeWorkflows := SelectOrderWorkflows(cfg, components.Orders, instruments)
	defer closeWorkflows()

	var middleware []gin.HandlerFunc
	if cfg.AuthJWTSecret != "" {
		authMiddleware, err := buildAuthMiddleware(cfg)
		if err != nil {
			return err
		}
		middleware = append(middleware, authMiddleware)
	} else {
		logger.Warn("AUTH_JWT_SECRET not set, API is unauthenticated")
	}

	handlers := marketplaceserver.ApiHandleFunctions{
		OrdersAPI:   marketplaceserver.NewOrdersAPI(components.Orders, orderWorkflows),
		ClustersAPI: marketplaceserver.NewClustersAPI(components.Clusters),
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(ServiceName))
	router := marketplaceserver.NewRouterWithGinEngine(engine, handlers, middleware...)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("MingleMakers API listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("MingleMakers API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("MingleMakers API shutting down")
		return server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

func buildAuthMiddleware(cfg Config) (gin.HandlerFunc, error) {
	verifier, err := auth.NewTokenVerifier(cfg.AuthJWTSecret, cfg.AuthIssuer)
	if err != nil {
		return nil, err
	}
	authz, err := auth.NewAuthorizer()
	if err != nil {
		return nil, err
	}
	return auth.Middleware(verifier, authz), nil
}
