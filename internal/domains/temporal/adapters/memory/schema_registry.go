package memory

import (
	"context"
	"sync"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/ports"
)

var _ ports.SchemaRegistry = (*SchemaRegistry)(nil)

// SchemaRegistry is an in-memory catalogue of temporal property candidates.
type SchemaRegistry struct {
	mu         sync.RWMutex
	properties map[domain.FeatureType][]domain.PropertyDescriptor
}

func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{properties: map[domain.FeatureType][]domain.PropertyDescriptor{}}
}

// TemporalProperties returns a copy so callers cannot reorder the stored list.
func (r *SchemaRegistry) TemporalProperties(_ context.Context, featureType domain.FeatureType) ([]domain.PropertyDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.properties[featureType]
	if len(stored) == 0 {
		return nil, nil
	}
	return append([]domain.PropertyDescriptor(nil), stored...), nil
}

func (r *SchemaRegistry) Register(_ context.Context, featureType domain.FeatureType, properties []domain.PropertyDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(properties) == 0 {
		delete(r.properties, featureType)
		return nil
	}
	r.properties[featureType] = append([]domain.PropertyDescriptor(nil), properties...)
	return nil
}

// Reset forgets every registered feature type.
func (r *SchemaRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.properties = map[domain.FeatureType][]domain.PropertyDescriptor{}
}
