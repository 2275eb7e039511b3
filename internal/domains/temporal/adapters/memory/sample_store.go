package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/ports"
)

var _ ports.SampleStore = (*SampleStore)(nil)

type sampleKey struct {
	featureType domain.FeatureType
	property    domain.QName
}

// SampleStore keeps recorded temporal values in memory and folds them into extents on demand.
type SampleStore struct {
	mu      sync.RWMutex
	samples map[sampleKey][]domain.Primitive
}

func NewSampleStore() *SampleStore {
	return &SampleStore{samples: map[sampleKey][]domain.Primitive{}}
}

func (s *SampleStore) Record(_ context.Context, sample domain.Sample) error {
	if sample.Value == nil {
		return errors.New("sample value is nil")
	}
	key := sampleKey{featureType: sample.FeatureType, property: sample.Property}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples[key] = append(s.samples[key], sample.Value)
	return nil
}

func (s *SampleStore) GetExtent(_ context.Context, featureType domain.FeatureType, property domain.PropertyDescriptor) (domain.Period, error) {
	key := sampleKey{featureType: featureType, property: property.Name}
	s.mu.RLock()
	values := append([]domain.Primitive(nil), s.samples[key]...)
	s.mu.RUnlock()
	if len(values) == 0 {
		return domain.Period{}, fmt.Errorf("%w: %s of %s", ports.ErrNoValues, property, featureType)
	}
	return domain.Extent(values...)
}

// Reset drops every recorded sample.
func (s *SampleStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = map[sampleKey][]domain.Primitive{}
}
