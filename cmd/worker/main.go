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

	"github.com/Apurer/wfs-temporal/internal/app/api"
	extentactivities "github.com/Apurer/wfs-temporal/internal/durable/temporal/activities/extents"
	extentworkflows "github.com/Apurer/wfs-temporal/internal/durable/temporal/workflows/extents"
	platformobservability "github.com/Apurer/wfs-temporal/internal/platform/observability"
	platformtemporal "github.com/Apurer/wfs-temporal/internal/platform/temporal"
)

func main() {
	ctx := context.Background()
	const serviceName = "wfs-temporal-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Settings{ServiceName: serviceName, LogLevel: cfg.LogLevel})
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

	service, cleanup, err := api.BuildTemporalService(ctx, cfg, instruments)
	if err != nil {
		logger.Error("failed to build temporal service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()
	extentActivities := extentactivities.NewActivities(service)

	temporalClient, err := platformtemporal.Dial(platformtemporal.Options{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Disabled:  cfg.TemporalDisabled,
		Logger:    logger,
		Tracer:    instruments.Tracer("temporal-worker"),
	})
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, extentworkflows.ExtentSurveyTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(extentworkflows.ExtentSurveyWorkflow, workflow.RegisterOptions{Name: extentworkflows.ExtentSurveyWorkflowName})
	w.RegisterActivityWithOptions(extentActivities.ResolveFeatureType, activity.RegisterOptions{Name: extentactivities.ResolveFeatureTypeActivityName})

	logger.Info("worker listening", slog.String("taskQueue", extentworkflows.ExtentSurveyTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
