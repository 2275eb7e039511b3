package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/ports"
	extentactivities "github.com/Apurer/wfs-temporal/internal/durable/temporal/activities/extents"
)

// RunExtentSurveySequence resolves every feature type of the survey in input
// order. A feature type whose activity exhausts its retries is reported as
// failed and the survey moves on.
func RunExtentSurveySequence(ctx workflow.Context, input ports.SurveyInput) (*ports.SurveyReport, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("extent survey sequence started", "surveyId", input.SurveyID, "featureTypes", len(input.FeatureTypes))
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	report := &ports.SurveyReport{SurveyID: input.SurveyID, Entries: make([]ports.SurveyEntry, 0, len(input.FeatureTypes))}
	for _, featureType := range input.FeatureTypes {
		var entry ports.SurveyEntry
		err := workflow.ExecuteActivity(ctx, extentactivities.ResolveFeatureTypeActivityName, extentactivities.ResolveFeatureTypeInput{
			SurveyID:    input.SurveyID,
			FeatureType: featureType,
		}).Get(ctx, &entry)
		if err != nil {
			if temporal.IsCanceledError(err) {
				return nil, err
			}
			logger.Warn("feature type resolution failed", "featureType", featureType.String(), "error", err)
			entry = ports.SurveyEntry{FeatureType: featureType, Outcome: ports.OutcomeFailed, Message: err.Error()}
		}
		report.Entries = append(report.Entries, entry)
	}
	logger.Info("extent survey sequence completed", "surveyId", input.SurveyID, "entries", len(report.Entries))
	return report, nil
}
