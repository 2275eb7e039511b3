package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/ports"
)

var (
	roads    = domain.NewQName("http://example.com/app", "Roads")
	openedAt = domain.NewQName("http://example.com/app", "openedAt")
	validity = domain.NewQName("http://example.com/app", "validity")
)

func instant(t *testing.T, raw string) domain.Instant {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, raw)
	require.NoError(t, err)
	return domain.NewInstant(ts)
}

func TestSchemaRegistry_RegisterPreservesOrder(t *testing.T) {
	registry := NewSchemaRegistry()
	ctx := context.Background()

	props := []domain.PropertyDescriptor{{Name: validity}, {Name: openedAt}}
	require.NoError(t, registry.Register(ctx, roads, props))

	got, err := registry.TemporalProperties(ctx, roads)
	require.NoError(t, err)
	assert.Equal(t, props, got)

	got[0] = domain.PropertyDescriptor{}
	again, err := registry.TemporalProperties(ctx, roads)
	require.NoError(t, err)
	assert.Equal(t, validity, again[0].Name)
}

func TestSchemaRegistry_UnknownFeatureType(t *testing.T) {
	registry := NewSchemaRegistry()
	got, err := registry.TemporalProperties(context.Background(), domain.NewQName("", "Unknown"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSampleStore_GetExtentFoldsRecordedValues(t *testing.T) {
	store := NewSampleStore()
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, domain.Sample{FeatureType: roads, Property: openedAt, Value: instant(t, "2020-03-01T00:00:00Z")}))
	require.NoError(t, store.Record(ctx, domain.Sample{FeatureType: roads, Property: openedAt, Value: domain.NewPeriod(instant(t, "2019-01-01T00:00:00Z"), instant(t, "2019-02-01T00:00:00Z"))}))

	extent, err := store.GetExtent(ctx, roads, domain.PropertyDescriptor{Name: openedAt})
	require.NoError(t, err)
	assert.True(t, extent.Begin.Equal(instant(t, "2019-01-01T00:00:00Z")))
	assert.True(t, extent.End.Equal(instant(t, "2020-03-01T00:00:00Z")))
}

func TestSampleStore_NoValues(t *testing.T) {
	store := NewSampleStore()
	_, err := store.GetExtent(context.Background(), roads, domain.PropertyDescriptor{Name: validity})
	require.ErrorIs(t, err, ports.ErrNoValues)

	require.Error(t, store.Record(context.Background(), domain.Sample{FeatureType: roads, Property: validity}))
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	registry := NewSchemaRegistry()
	store := NewSampleStore()
	require.NoError(t, registry.Register(ctx, roads, []domain.PropertyDescriptor{{Name: validity}}))
	require.NoError(t, store.Record(ctx, domain.Sample{FeatureType: roads, Property: validity, Value: instant(t, "2020-01-01T00:00:00Z")}))

	registry.Reset()
	store.Reset()

	got, err := registry.TemporalProperties(ctx, roads)
	require.NoError(t, err)
	assert.Empty(t, got)
	_, err = store.GetExtent(ctx, roads, domain.PropertyDescriptor{Name: validity})
	require.ErrorIs(t, err, ports.ErrNoValues)
}
