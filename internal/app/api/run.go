package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	extentserver "github.com/Apurer/wfs-temporal/go"

	temporalworkflows "github.com/Apurer/wfs-temporal/internal/domains/temporal/adapters/workflows"
	temporalports "github.com/Apurer/wfs-temporal/internal/domains/temporal/ports"
	platformobservability "github.com/Apurer/wfs-temporal/internal/platform/observability"
	platformtemporal "github.com/Apurer/wfs-temporal/internal/platform/temporal"
)

// ServiceName identifies the API process in traces and logs.
const ServiceName = "wfs-temporal-api"

// Run boots the temporal extent HTTP API with observability, stores, and workflows wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Settings{ServiceName: ServiceName, LogLevel: cfg.LogLevel})
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

	service, cleanup, err := BuildTemporalService(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer cleanup()

	var surveys temporalports.WorkflowOrchestrator = temporalworkflows.NewInlineExtentWorkflows(service, cfg.SurveyConcurrency)
	temporalClient, err := platformtemporal.Dial(platformtemporal.Options{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Disabled:  cfg.TemporalDisabled,
		Logger:    logger,
		Tracer:    instruments.Tracer("temporal-client"),
	})
	if err != nil {
		logger.Warn("Temporal workflows unavailable, running extent surveys inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		surveys = temporalworkflows.NewTemporalExtentWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handlers := extentserver.ApiHandleFunctions{
		ExtentAPI: extentserver.NewExtentAPI(service, surveys),
		GMLAPI:    extentserver.NewGMLAPI(service, cfg.GMLStrict),
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(ServiceName))
	router := extentserver.NewRouterWithGinEngine(engine, handlers)

	addr := cfg.Addr()
	logger.Info("temporal extent API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("temporal extent API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}
