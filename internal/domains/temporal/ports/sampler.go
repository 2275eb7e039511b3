package ports

import (
	"context"
	"errors"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
)

// ErrNoValues indicates the sampled data held no usable value for the property.
var ErrNoValues = errors.New("no temporal values sampled")

// Sampler computes the temporal extent of one property of a feature type
// from sample data. Any error marks the property as unusable.
type Sampler interface {
	GetExtent(ctx context.Context, featureType domain.FeatureType, property domain.PropertyDescriptor) (domain.Period, error)
}

// SampleStore is a Sampler backed by recorded samples.
type SampleStore interface {
	Sampler
	Record(ctx context.Context, sample domain.Sample) error
}
