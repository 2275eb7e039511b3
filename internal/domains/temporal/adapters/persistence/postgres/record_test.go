package postgres

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
)

func TestPropertySetRecord_RoundTripsOrderAndTypes(t *testing.T) {
	ft := domain.NewQName("http://example.com/app", "Roads")
	props := []domain.PropertyDescriptor{
		{Name: domain.NewQName("http://example.com/app", "validity")},
		{
			Name: domain.NewQName("http://example.com/app", "openedAt"),
			Type: domain.NewQName("http://www.opengis.net/gml/3.2", "TimeInstantPropertyType"),
		},
	}

	record := toPropertySetRecord(ft, props)
	assert.Equal(t, "{http://example.com/app}Roads", record.FeatureType)
	assert.Equal(t, pq.StringArray{"{http://example.com/app}validity", "{http://example.com/app}openedAt"}, record.PropertyNames)

	got, err := record.toDomain()
	require.NoError(t, err)
	assert.Equal(t, props, got)
}

func TestPropertySetRecord_RejectsCorruptNames(t *testing.T) {
	record := propertySetRecord{FeatureType: "Roads", PropertyNames: pq.StringArray{"{broken"}}
	_, err := record.toDomain()
	require.ErrorIs(t, err, domain.ErrInvalidQName)
}

func TestAdapters_RequireDatabase(t *testing.T) {
	ctx := context.Background()
	_, err := NewSchemaRegistry(nil).TemporalProperties(ctx, domain.NewQName("", "Roads"))
	require.Error(t, err)
	_, err = NewSampleStore(nil).GetExtent(ctx, domain.NewQName("", "Roads"), domain.PropertyDescriptor{})
	require.Error(t, err)
}
