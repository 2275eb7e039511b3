package ports

import (
	"context"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
)

// Service defines the temporal use cases exposed to adapters (inbound/driving port).
type Service interface {
	FindTemporalProperty(ctx context.Context, featureType domain.FeatureType) (*domain.ResolvedExtent, error)
	RegisterTemporalProperties(ctx context.Context, featureType domain.FeatureType, properties []domain.PropertyDescriptor) error
	RecordSample(ctx context.Context, featureType domain.FeatureType, property domain.QName, raw []byte) (*domain.Sample, error)
	ParseTime(ctx context.Context, raw []byte, strict bool) (domain.Primitive, error)
}
