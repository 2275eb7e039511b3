package extents

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/application"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/ports"
)

// ResolveFeatureTypeActivityName resolves the temporal extent of one feature type.
const ResolveFeatureTypeActivityName = "extents.activities.ResolveFeatureType"

// ResolveFeatureTypeInput names the feature type to resolve.
type ResolveFeatureTypeInput struct {
	SurveyID    string
	FeatureType domain.FeatureType
}

// Activities groups activities that operate on the temporal bounded context.
type Activities struct {
	service ports.Service
}

// NewActivities wires the temporal service into the Temporal activities bundle.
func NewActivities(service ports.Service) *Activities {
	return &Activities{service: service}
}

// ResolveFeatureType returns the survey entry for one feature type. Skip
// outcomes complete the activity; only failed outcomes return an error so the
// retry policy applies to infrastructure failures alone.
func (a *Activities) ResolveFeatureType(ctx context.Context, input ResolveFeatureTypeInput) (*ports.SurveyEntry, error) {
	logger := activity.GetLogger(ctx)
	ft := input.FeatureType.String()
	if a == nil || a.service == nil {
		logger.Error("extent activity not initialized", "featureType", ft)
		return nil, errors.New("extent activity not initialized")
	}
	logger.Info("ResolveFeatureType activity started", "surveyId", input.SurveyID, "featureType", ft)
	entry, err := application.SurveyFeatureType(ctx, a.service, input.FeatureType)
	if err != nil {
		logger.Error("ResolveFeatureType activity failed", "featureType", ft, "error", err)
		return nil, err
	}
	logger.Info("ResolveFeatureType activity completed", "featureType", ft, "outcome", string(entry.Outcome))
	return &entry, nil
}
