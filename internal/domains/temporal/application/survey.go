package application

import (
	"context"
	"errors"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/ports"
)

// ClassifyOutcome maps a FindTemporalProperty error onto a survey outcome.
func ClassifyOutcome(err error) ports.Outcome {
	switch {
	case err == nil:
		return ports.OutcomeResolved
	case errors.Is(err, ErrNoTemporalProperty):
		return ports.OutcomeNoTemporalProperty
	case errors.Is(err, ErrExtentUnavailable):
		return ports.OutcomeExtentUnavailable
	default:
		return ports.OutcomeFailed
	}
}

// SurveyFeatureType resolves one feature type and folds the skip outcomes into
// the entry. Only errors classified as OutcomeFailed are returned.
func SurveyFeatureType(ctx context.Context, svc ports.Service, featureType domain.FeatureType) (ports.SurveyEntry, error) {
	entry := ports.SurveyEntry{FeatureType: featureType}
	resolved, err := svc.FindTemporalProperty(ctx, featureType)
	entry.Outcome = ClassifyOutcome(err)
	switch entry.Outcome {
	case ports.OutcomeResolved:
		entry.Resolved = resolved
		return entry, nil
	case ports.OutcomeFailed:
		entry.Message = err.Error()
		return entry, err
	default:
		entry.Message = err.Error()
		return entry, nil
	}
}
