package ports

import (
	"context"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
)

// Outcome classifies how the extent resolution of one feature type ended.
type Outcome string

const (
	OutcomeResolved           Outcome = "resolved"
	OutcomeNoTemporalProperty Outcome = "no_temporal_property"
	OutcomeExtentUnavailable  Outcome = "extent_unavailable"
	OutcomeFailed             Outcome = "failed"
)

// SurveyInput lists the feature types whose extents should be resolved.
type SurveyInput struct {
	SurveyID     string
	FeatureTypes []domain.FeatureType
}

// SurveyEntry is the outcome for one feature type.
type SurveyEntry struct {
	FeatureType domain.FeatureType
	Outcome     Outcome
	Resolved    *domain.ResolvedExtent
	Message     string
}

// SurveyReport keeps entries in input order.
type SurveyReport struct {
	SurveyID string
	Entries  []SurveyEntry
}

// WorkflowOrchestrator runs extent surveys, durably or inline.
type WorkflowOrchestrator interface {
	SurveyExtents(ctx context.Context, input SurveyInput) (*SurveyReport, error)
}
