package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/gml"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/ports"
)

// Service orchestrates the temporal bounded context use cases.
type Service struct {
	schema       ports.SchemaRegistry
	sampler      ports.Sampler
	store        ports.SampleStore
	resolver     *Resolver
	parser       *gml.Parser
	looseParser  *gml.Parser
	strictParser *gml.Parser
	now          func() time.Time
}

// Option configures optional collaborators of the Service.
type Option func(*Service)

// WithResolver replaces the default resolver.
func WithResolver(r *Resolver) Option {
	return func(s *Service) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithParser replaces the parser used for recorded samples. ParseTime keeps its
// own permissive and strict parsers so the per-request flag decides the mode.
func WithParser(p *gml.Parser) Option {
	return func(s *Service) {
		if p != nil {
			s.parser = p
		}
	}
}

// WithSampleStore wires the store used by RecordSample.
func WithSampleStore(store ports.SampleStore) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithClock overrides the time source stamped on recorded samples.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the temporal service with its schema and sampling collaborators.
// When sampler is itself a SampleStore it is also used for recording.
func NewService(schema ports.SchemaRegistry, sampler ports.Sampler, opts ...Option) *Service {
	s := &Service{
		schema:       schema,
		sampler:      sampler,
		resolver:     NewResolver(),
		parser:       gml.NewParser(),
		looseParser:  gml.NewParser(),
		strictParser: gml.NewParser(gml.WithStrictShapes(), gml.WithUniformFrameValidation()),
		now:          time.Now,
	}
	if store, ok := sampler.(ports.SampleStore); ok {
		s.store = store
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// FindTemporalProperty looks up the candidates of a feature type and resolves an extent.
func (s *Service) FindTemporalProperty(ctx context.Context, featureType domain.FeatureType) (*domain.ResolvedExtent, error) {
	if featureType.IsZero() {
		return nil, fmt.Errorf("%w: feature type name is required", ErrInvalidInput)
	}
	if s.schema == nil {
		return nil, errors.New("schema registry not configured")
	}
	candidates, err := s.schema.TemporalProperties(ctx, featureType)
	if err != nil {
		return nil, fmt.Errorf("load temporal properties of %s: %w", featureType, err)
	}
	return s.resolver.ResolveExtent(ctx, featureType, candidates, s.sampler)
}

// RegisterTemporalProperties replaces the ordered candidates of a feature type.
func (s *Service) RegisterTemporalProperties(ctx context.Context, featureType domain.FeatureType, properties []domain.PropertyDescriptor) error {
	if featureType.IsZero() {
		return fmt.Errorf("%w: feature type name is required", ErrInvalidInput)
	}
	for i, property := range properties {
		if property.Name.IsZero() {
			return fmt.Errorf("%w: property %d has no name", ErrInvalidInput, i)
		}
	}
	if s.schema == nil {
		return errors.New("schema registry not configured")
	}
	return s.schema.Register(ctx, featureType, properties)
}

// RecordSample parses a GML time value and stores it for later extent computation.
func (s *Service) RecordSample(ctx context.Context, featureType domain.FeatureType, property domain.QName, raw []byte) (*domain.Sample, error) {
	if featureType.IsZero() || property.IsZero() {
		return nil, fmt.Errorf("%w: feature type and property are required", ErrInvalidInput)
	}
	if s.store == nil {
		return nil, ErrSampleStoreUnavailable
	}
	value, err := s.parser.ParseBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTime, err)
	}
	sample := domain.Sample{
		FeatureType: featureType,
		Property:    property,
		Value:       value,
		RecordedAt:  s.now().UTC(),
	}
	if err := s.store.Record(ctx, sample); err != nil {
		return nil, err
	}
	return &sample, nil
}

// ParseTime exposes the GML parser standalone. Strict requests reject unknown
// shapes and validate the frame of periods as well.
func (s *Service) ParseTime(_ context.Context, raw []byte, strict bool) (domain.Primitive, error) {
	parser := s.looseParser
	if strict {
		parser = s.strictParser
	}
	value, err := parser.ParseBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTime, err)
	}
	return value, nil
}

var _ ports.Service = (*Service)(nil)
