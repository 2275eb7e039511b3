package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/application"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/gml"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/ports"
)

var (
	roads    = domain.NewQName("http://example.com/app", "Roads")
	validity = domain.PropertyDescriptor{Name: domain.NewQName("http://example.com/app", "validity")}
)

type stubService struct {
	resolved *domain.ResolvedExtent
	findErr  error
	parsed   domain.Primitive
	parseErr error
}

func (s *stubService) FindTemporalProperty(context.Context, domain.FeatureType) (*domain.ResolvedExtent, error) {
	return s.resolved, s.findErr
}

func (s *stubService) RegisterTemporalProperties(context.Context, domain.FeatureType, []domain.PropertyDescriptor) error {
	return nil
}

func (s *stubService) RecordSample(_ context.Context, ft domain.FeatureType, property domain.QName, _ []byte) (*domain.Sample, error) {
	if s.parseErr != nil {
		return nil, s.parseErr
	}
	return &domain.Sample{FeatureType: ft, Property: property, Value: s.parsed, RecordedAt: time.Now()}, nil
}

func (s *stubService) ParseTime(context.Context, []byte, bool) (domain.Primitive, error) {
	return s.parsed, s.parseErr
}

type harness struct {
	svc    ports.Service
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
}

func newHarness(inner ports.Service) harness {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	return harness{
		svc:    New(inner, WithTracer(tp.Tracer("test")), WithMeter(mp.Meter("test"))),
		spans:  spans,
		reader: reader,
	}
}

func (h harness) counter(t *testing.T, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))
	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is %T", name, m.Data)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func instant(t *testing.T, raw string) domain.Instant {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, raw)
	require.NoError(t, err)
	return domain.NewInstant(ts)
}

func TestFindTemporalProperty_RecordsResolved(t *testing.T) {
	extent := domain.NewPeriod(instant(t, "2020-01-01T00:00:00Z"), instant(t, "2020-02-01T00:00:00Z"))
	h := newHarness(&stubService{resolved: &domain.ResolvedExtent{Property: validity, Extent: extent}})

	result, err := h.svc.FindTemporalProperty(context.Background(), roads)
	require.NoError(t, err)
	assert.Equal(t, validity, result.Property)
	assert.EqualValues(t, 1, h.counter(t, "temporal.extent.resolved"))

	ended := h.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "Service.FindTemporalProperty", ended[0].Name())
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
}

func TestFindTemporalProperty_SkipIsNotASpanError(t *testing.T) {
	h := newHarness(&stubService{findErr: &application.ExtentUnavailableError{FeatureType: roads}})

	_, err := h.svc.FindTemporalProperty(context.Background(), roads)
	require.ErrorIs(t, err, application.ErrExtentUnavailable)
	assert.EqualValues(t, 1, h.counter(t, "temporal.extent.skipped"))

	ended := h.spans.Ended()
	require.Len(t, ended, 1)
	assert.NotEqual(t, codes.Error, ended[0].Status().Code)
}

func TestFindTemporalProperty_FailureMarksSpan(t *testing.T) {
	boom := errors.New("schema registry offline")
	h := newHarness(&stubService{findErr: boom})

	_, err := h.svc.FindTemporalProperty(context.Background(), roads)
	require.ErrorIs(t, err, boom)
	assert.Zero(t, h.counter(t, "temporal.extent.skipped"))

	ended := h.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
}

func TestParseTime_CountsParsedAndRejected(t *testing.T) {
	inner := &stubService{parsed: instant(t, "2020-01-01T00:00:00Z")}
	h := newHarness(inner)

	_, err := h.svc.ParseTime(context.Background(), []byte("<x/>"), false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, h.counter(t, "temporal.gml.parsed"))

	inner.parseErr = errors.Join(application.ErrInvalidTime, &gml.InvalidInstantFormatError{Text: "soon"})
	_, err = h.svc.ParseTime(context.Background(), []byte("<x/>"), true)
	require.ErrorIs(t, err, gml.ErrInvalidInstantFormat)
	assert.EqualValues(t, 1, h.counter(t, "temporal.gml.rejected"))
}

func TestRecordSample_CountsParsedKind(t *testing.T) {
	extent := domain.NewPeriod(instant(t, "2020-01-01T00:00:00Z"), instant(t, "2020-02-01T00:00:00Z"))
	h := newHarness(&stubService{parsed: extent})

	sample, err := h.svc.RecordSample(context.Background(), roads, validity.Name, []byte("<x/>"))
	require.NoError(t, err)
	assert.Equal(t, domain.KindPeriod, sample.Value.Kind())
	assert.EqualValues(t, 1, h.counter(t, "temporal.gml.parsed"))
}

func TestNew_DefaultsAreSafe(t *testing.T) {
	svc := New(&stubService{findErr: application.ErrNoTemporalProperty}, WithLogger(nil), WithTracer(nil))
	_, err := svc.FindTemporalProperty(context.Background(), roads)
	require.ErrorIs(t, err, application.ErrNoTemporalProperty)
}
