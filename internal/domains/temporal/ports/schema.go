package ports

import (
	"context"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
)

// SchemaRegistry supplies the ordered temporal property candidates of a feature type.
type SchemaRegistry interface {
	// TemporalProperties returns the candidates in declaration order; unknown feature types yield none.
	TemporalProperties(ctx context.Context, featureType domain.FeatureType) ([]domain.PropertyDescriptor, error)
	// Register replaces the candidates of a feature type.
	Register(ctx context.Context, featureType domain.FeatureType, properties []domain.PropertyDescriptor) error
}
