package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/ports"
)

// Pairing selects which descriptor is reported next to the resolved extent.
type Pairing int

const (
	// PairingLegacy reports the last attempted candidate together with the last
	// successful extent, even when that candidate failed.
	PairingLegacy Pairing = iota
	// PairingCoupled reports the candidate that produced the extent.
	PairingCoupled
)

func (p Pairing) String() string {
	if p == PairingCoupled {
		return "coupled"
	}
	return "legacy"
}

// ParsePairing reads "legacy" or "coupled"; empty means legacy.
func ParsePairing(raw string) (Pairing, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "legacy":
		return PairingLegacy, nil
	case "coupled":
		return PairingCoupled, nil
	default:
		return PairingLegacy, fmt.Errorf("unknown extent pairing %q", raw)
	}
}

// Resolver scans candidate temporal properties for a usable extent.
type Resolver struct {
	logger  *slog.Logger
	pairing Pairing
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger injects the logger used for per-candidate warnings.
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithPairing selects the descriptor pairing policy.
func WithPairing(p Pairing) ResolverOption {
	return func(r *Resolver) {
		r.pairing = p
	}
}

// NewResolver builds a resolver; defaults to legacy pairing and a discarding logger.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{pairing: PairingLegacy}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

// ResolveExtent walks candidates once, in order, tolerating per-candidate failures.
// It returns ErrNoTemporalProperty for an empty candidate list and an
// *ExtentUnavailableError when no candidate produced an extent.
func (r *Resolver) ResolveExtent(ctx context.Context, featureType domain.FeatureType, candidates []domain.PropertyDescriptor, sampler ports.Sampler) (*domain.ResolvedExtent, error) {
	if len(candidates) == 0 {
		return nil, noTemporalProperty(featureType)
	}
	if sampler == nil {
		return nil, fmt.Errorf("%w: sampler is required", ErrInvalidInput)
	}
	var (
		property domain.PropertyDescriptor
		extent   *domain.Period
		failures []CandidateFailure
	)
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if r.pairing == PairingLegacy {
			property = candidate
		}
		period, err := sampler.GetExtent(ctx, featureType, candidate)
		if err != nil {
			r.logger.LogAttrs(ctx, slog.LevelWarn, "could not calculate the extent of the temporal property",
				slog.String("property", candidate.String()),
				slog.String("feature_type", featureType.String()),
				slog.String("error", err.Error()),
			)
			failures = append(failures, CandidateFailure{Property: candidate, Err: err})
			continue
		}
		extent = &period
		if r.pairing == PairingCoupled {
			property = candidate
		}
	}
	if extent == nil {
		return nil, &ExtentUnavailableError{FeatureType: featureType, Failures: failures}
	}
	return &domain.ResolvedExtent{Property: property, Extent: *extent}, nil
}
