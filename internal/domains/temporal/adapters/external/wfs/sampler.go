package wfs

import (
	"context"
	"fmt"

	"github.com/beevik/etree"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/gml"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/ports"
)

var _ ports.Sampler = (*Sampler)(nil)

// PropertyValueSource fetches the raw value elements of a feature type property.
type PropertyValueSource interface {
	GetPropertyValue(ctx context.Context, featureType domain.FeatureType, valueReference domain.QName) ([]*etree.Element, error)
}

// Sampler computes extents from values fetched through GetPropertyValue.
type Sampler struct {
	source PropertyValueSource
	parser *gml.Parser
}

// NewSampler wraps a value source; a nil parser uses the default GML rules.
func NewSampler(source PropertyValueSource, parser *gml.Parser) *Sampler {
	if parser == nil {
		parser = gml.NewParser()
	}
	return &Sampler{source: source, parser: parser}
}

// GetExtent fails on the first malformed value; an empty collection yields ports.ErrNoValues.
func (s *Sampler) GetExtent(ctx context.Context, featureType domain.FeatureType, property domain.PropertyDescriptor) (domain.Period, error) {
	if s == nil || s.source == nil {
		return domain.Period{}, fmt.Errorf("wfs sampler not configured")
	}
	elements, err := s.source.GetPropertyValue(ctx, featureType, property.Name)
	if err != nil {
		return domain.Period{}, err
	}
	values := make([]domain.Primitive, 0, len(elements))
	for i, el := range elements {
		value, err := s.parser.Parse(el)
		if err != nil {
			return domain.Period{}, fmt.Errorf("value %d of %s: %w", i, property, err)
		}
		values = append(values, value)
	}
	if len(values) == 0 {
		return domain.Period{}, fmt.Errorf("%w: %s of %s", ports.ErrNoValues, property, featureType)
	}
	return domain.Extent(values...)
}
