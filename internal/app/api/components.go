package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/adapters/external/wfs"
	temporalmemory "github.com/Apurer/wfs-temporal/internal/domains/temporal/adapters/memory"
	temporalobs "github.com/Apurer/wfs-temporal/internal/domains/temporal/adapters/observability"
	temporalpostgres "github.com/Apurer/wfs-temporal/internal/domains/temporal/adapters/persistence/postgres"
	temporalapp "github.com/Apurer/wfs-temporal/internal/domains/temporal/application"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/gml"
	temporalports "github.com/Apurer/wfs-temporal/internal/domains/temporal/ports"
	platformobservability "github.com/Apurer/wfs-temporal/internal/platform/observability"
	platformpostgres "github.com/Apurer/wfs-temporal/internal/platform/postgres"
)

// BuildTemporalService wires the temporal service with its stores and sampler
// and returns it decorated with instrumentation. Postgres failures fall back to
// memory stores; an invalid WFS_BASE_URL is a configuration error.
func BuildTemporalService(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (temporalports.Service, func(), error) {
	logger := instruments.LoggerOrDefault()
	schema, store, cleanup := buildStores(ctx, cfg, logger)

	var sampler temporalports.Sampler = store
	if cfg.WFSBaseURL != "" {
		wfsClient, err := wfs.NewClient(cfg.WFSBaseURL,
			wfs.WithHTTPClient(&http.Client{
				Timeout:   cfg.WFSTimeout,
				Transport: otelhttp.NewTransport(http.DefaultTransport),
			}),
			wfs.WithRateLimit(cfg.WFSRequestsPerSecond, 1),
			wfs.WithMaxFeatures(cfg.WFSMaxFeatures),
		)
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("configure wfs sampler: %w", err)
		}
		sampler = wfs.NewSampler(wfsClient, newParser(cfg))
		logger.Info("temporal extents sampled from WFS", slog.String("baseURL", cfg.WFSBaseURL))
	}

	resolver := temporalapp.NewResolver(
		temporalapp.WithResolverLogger(logger),
		temporalapp.WithPairing(cfg.Pairing),
	)
	core := temporalapp.NewService(schema, sampler,
		temporalapp.WithResolver(resolver),
		temporalapp.WithParser(newParser(cfg)),
		temporalapp.WithSampleStore(store),
	)
	service := temporalobs.New(
		core,
		temporalobs.WithLogger(logger),
		temporalobs.WithTracer(instruments.Tracer("internal.temporal.application")),
		temporalobs.WithMeter(instruments.Meter("internal.temporal.application")),
	)
	logger.Info("temporal service configured", slog.String("pairing", cfg.Pairing.String()), slog.Bool("gmlStrict", cfg.GMLStrict))
	return service, cleanup, nil
}

func newParser(cfg Config) *gml.Parser {
	if cfg.GMLStrict {
		return gml.NewParser(gml.WithStrictShapes(), gml.WithUniformFrameValidation())
	}
	return gml.NewParser()
}

func buildStores(ctx context.Context, cfg Config, logger *slog.Logger) (temporalports.SchemaRegistry, temporalports.SampleStore, func()) {
	db, cleanup, err := platformpostgres.Open(ctx, cfg.PostgresDSN, logger)
	if err != nil {
		logger.Warn("postgres unavailable, falling back to in-memory temporal stores", slog.String("error", err.Error()))
	}
	if db == nil {
		return temporalmemory.NewSchemaRegistry(), temporalmemory.NewSampleStore(), func() {}
	}
	logger.Info("temporal stores configured with postgres")
	return temporalpostgres.NewSchemaRegistry(db), temporalpostgres.NewSampleStore(db), cleanup
}
