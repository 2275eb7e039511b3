package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
)

var (
	// ErrNoTemporalProperty signals the feature type declares no temporal property; callers treat it as not applicable.
	ErrNoTemporalProperty = errors.New("feature type has no temporal properties")
	// ErrExtentUnavailable signals every candidate property failed extent computation.
	ErrExtentUnavailable = errors.New("temporal extent could not be calculated")
	// ErrInvalidInput signals the request violated a basic precondition.
	ErrInvalidInput = errors.New("invalid temporal input")
	// ErrInvalidTime wraps GML parser failures surfaced through the service.
	ErrInvalidTime = errors.New("invalid gml time")
	// ErrSampleStoreUnavailable signals no sample store is wired for recording.
	ErrSampleStoreUnavailable = errors.New("sample store not configured")
)

// CandidateFailure records why one candidate property yielded no extent.
type CandidateFailure struct {
	Property domain.PropertyDescriptor
	Err      error
}

// ExtentUnavailableError lists the per-candidate failures behind ErrExtentUnavailable.
type ExtentUnavailableError struct {
	FeatureType domain.FeatureType
	Failures    []CandidateFailure
}

func (e *ExtentUnavailableError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "feature type %s has at least one temporal property but an extent could not be calculated (e.g. all properties are nil)", e.FeatureType)
	for _, failure := range e.Failures {
		fmt.Fprintf(&b, "; %s: %v", failure.Property, failure.Err)
	}
	return b.String()
}

// Unwrap exposes ErrExtentUnavailable followed by the candidate errors.
func (e *ExtentUnavailableError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures)+1)
	errs = append(errs, ErrExtentUnavailable)
	for _, failure := range e.Failures {
		if failure.Err != nil {
			errs = append(errs, failure.Err)
		}
	}
	return errs
}

func noTemporalProperty(featureType domain.FeatureType) error {
	return fmt.Errorf("%w: %s", ErrNoTemporalProperty, featureType)
}
