package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/application"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/ports"
)

const tracerName = "github.com/Apurer/wfs-temporal/internal/domains/temporal/adapters/observability/service"

// Service decorates the temporal application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// FindTemporalProperty resolves the extent of a feature type with instrumentation.
// The two skip outcomes are expected and logged at info level.
func (s *Service) FindTemporalProperty(ctx context.Context, featureType domain.FeatureType) (*domain.ResolvedExtent, error) {
	ft := featureType.String()
	ctx, span := s.startSpan(ctx, "Service.FindTemporalProperty", attribute.String("temporal.feature_type", ft))
	defer span.End()

	s.logInfo(ctx, "resolving temporal extent", slog.String("feature_type", ft))
	result, err := s.inner.FindTemporalProperty(ctx, featureType)
	if err != nil {
		outcome := application.ClassifyOutcome(err)
		if outcome == ports.OutcomeFailed {
			return nil, s.handleError(ctx, span, err, "failed to resolve temporal extent", slog.String("feature_type", ft))
		}
		span.SetAttributes(attribute.String("temporal.outcome", string(outcome)))
		s.metrics.recordSkipped(ctx, outcome)
		s.logInfo(ctx, "temporal extent skipped", slog.String("feature_type", ft), slog.String("outcome", string(outcome)), slog.String("reason", err.Error()))
		return nil, err
	}
	if result != nil {
		property := result.Property.String()
		span.SetAttributes(
			attribute.String("temporal.outcome", string(ports.OutcomeResolved)),
			attribute.String("temporal.property", property),
		)
		s.metrics.recordResolved(ctx, property)
		s.logInfo(ctx, "temporal extent resolved",
			slog.String("feature_type", ft),
			slog.String("property", property),
			slog.String("extent", result.Extent.String()),
		)
	}
	return result, nil
}

// RegisterTemporalProperties replaces the candidates of a feature type.
func (s *Service) RegisterTemporalProperties(ctx context.Context, featureType domain.FeatureType, properties []domain.PropertyDescriptor) error {
	ft := featureType.String()
	ctx, span := s.startSpan(ctx, "Service.RegisterTemporalProperties",
		attribute.String("temporal.feature_type", ft),
		attribute.Int("temporal.property.count", len(properties)),
	)
	defer span.End()

	if err := s.inner.RegisterTemporalProperties(ctx, featureType, properties); err != nil {
		return s.handleError(ctx, span, err, "failed to register temporal properties", slog.String("feature_type", ft))
	}
	s.logInfo(ctx, "temporal properties registered", slog.String("feature_type", ft), slog.Int("count", len(properties)))
	return nil
}

// RecordSample parses and stores one observed value.
func (s *Service) RecordSample(ctx context.Context, featureType domain.FeatureType, property domain.QName, raw []byte) (*domain.Sample, error) {
	ft := featureType.String()
	ctx, span := s.startSpan(ctx, "Service.RecordSample",
		attribute.String("temporal.feature_type", ft),
		attribute.String("temporal.property", property.String()),
	)
	defer span.End()

	sample, err := s.inner.RecordSample(ctx, featureType, property, raw)
	if err != nil {
		s.recordParseFailure(ctx, err)
		return nil, s.handleError(ctx, span, err, "failed to record sample", slog.String("feature_type", ft), slog.String("property", property.String()))
	}
	if sample != nil && sample.Value != nil {
		s.metrics.recordParsed(ctx, sample.Value.Kind())
		s.logInfo(ctx, "sample recorded",
			slog.String("feature_type", ft),
			slog.String("property", property.String()),
			slog.String("kind", string(sample.Value.Kind())),
		)
	}
	return sample, nil
}

// ParseTime converts a raw GML time element.
func (s *Service) ParseTime(ctx context.Context, raw []byte, strict bool) (domain.Primitive, error) {
	ctx, span := s.startSpan(ctx, "Service.ParseTime", attribute.Bool("temporal.gml.strict", strict))
	defer span.End()

	primitive, err := s.inner.ParseTime(ctx, raw, strict)
	if err != nil {
		s.recordParseFailure(ctx, err)
		return nil, s.handleError(ctx, span, err, "failed to parse gml time", slog.Bool("strict", strict))
	}
	if primitive != nil {
		span.SetAttributes(attribute.String("temporal.gml.kind", string(primitive.Kind())))
		s.metrics.recordParsed(ctx, primitive.Kind())
	}
	return primitive, nil
}

func (s *Service) recordParseFailure(ctx context.Context, err error) {
	if errors.Is(err, application.ErrInvalidTime) {
		s.metrics.recordRejected(ctx)
	}
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	extentResolved metric.Int64Counter
	extentSkipped  metric.Int64Counter
	gmlParsed      metric.Int64Counter
	gmlRejected    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	extentResolved, _ := m.Int64Counter("temporal.extent.resolved", metric.WithDescription("Number of feature types whose extent was resolved"))
	extentSkipped, _ := m.Int64Counter("temporal.extent.skipped", metric.WithDescription("Number of feature types skipped during extent resolution"))
	gmlParsed, _ := m.Int64Counter("temporal.gml.parsed", metric.WithDescription("Number of GML time elements parsed"))
	gmlRejected, _ := m.Int64Counter("temporal.gml.rejected", metric.WithDescription("Number of GML time elements rejected"))
	return serviceMetrics{
		extentResolved: extentResolved,
		extentSkipped:  extentSkipped,
		gmlParsed:      gmlParsed,
		gmlRejected:    gmlRejected,
	}
}

func (m serviceMetrics) recordResolved(ctx context.Context, property string) {
	addCounter(ctx, m.extentResolved, 1, attribute.String("temporal.property", property))
}

func (m serviceMetrics) recordSkipped(ctx context.Context, outcome ports.Outcome) {
	addCounter(ctx, m.extentSkipped, 1, attribute.String("temporal.outcome", string(outcome)))
}

func (m serviceMetrics) recordParsed(ctx context.Context, kind domain.Kind) {
	addCounter(ctx, m.gmlParsed, 1, attribute.String("temporal.gml.kind", string(kind)))
}

func (m serviceMetrics) recordRejected(ctx context.Context) {
	addCounter(ctx, m.gmlRejected, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
