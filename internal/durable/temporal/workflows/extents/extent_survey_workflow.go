package extents

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/ports"
	"github.com/Apurer/wfs-temporal/internal/durable/temporal/sequences"
)

const (
	// ExtentSurveyWorkflowName is the public identifier for registering the workflow.
	ExtentSurveyWorkflowName = "extents.workflows.Survey"
	// ExtentSurveyTaskQueue is the queue consumed by the worker processing extent surveys.
	ExtentSurveyTaskQueue = "EXTENT_SURVEY"
)

// ExtentSurveyWorkflowInput captures the feature types to survey.
type ExtentSurveyWorkflowInput struct {
	Survey  ports.SurveyInput
	TraceID string
}

// ExtentSurveyWorkflow resolves the temporal extent of each listed feature type.
func ExtentSurveyWorkflow(ctx workflow.Context, input ExtentSurveyWorkflowInput) (*ports.SurveyReport, error) {
	logger := workflow.GetLogger(ctx)
	surveyID := input.Survey.SurveyID
	logger.Info("ExtentSurveyWorkflow started", withTraceID(input.TraceID, "surveyId", surveyID)...)
	report, err := sequences.RunExtentSurveySequence(ctx, input.Survey)
	if err != nil {
		logger.Error("ExtentSurveyWorkflow failed", withTraceID(input.TraceID, "surveyId", surveyID, "error", err)...)
		return nil, err
	}
	logger.Info("ExtentSurveyWorkflow completed", withTraceID(input.TraceID, "surveyId", surveyID, "entries", len(report.Entries))...)
	return report, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
