package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"golang.org/x/sync/errgroup"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/application"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/ports"
	extentworkflows "github.com/Apurer/wfs-temporal/internal/durable/temporal/workflows/extents"
)

const defaultConcurrency = 4

var (
	_ ports.WorkflowOrchestrator = (*TemporalExtentWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineExtentWorkflows)(nil)
)

// TemporalExtentWorkflows starts extent surveys on a Temporal cluster.
type TemporalExtentWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalExtentWorkflows wires a Temporal client into the orchestrator.
func NewTemporalExtentWorkflows(c client.Client) *TemporalExtentWorkflows {
	return &TemporalExtentWorkflows{client: c, taskQueue: extentworkflows.ExtentSurveyTaskQueue}
}

// SurveyExtents runs the survey workflow and waits for its report. Reusing a
// survey id attaches to the run already in progress.
func (o *TemporalExtentWorkflows) SurveyExtents(ctx context.Context, input ports.SurveyInput) (*ports.SurveyReport, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal extent workflows not configured")
	}
	input = withSurveyID(input)
	workflowID := fmt.Sprintf("extent-survey-%s", input.SurveyID)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		extentworkflows.ExtentSurveyWorkflowName,
		extentworkflows.ExtentSurveyWorkflowInput{Survey: input, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var report ports.SurveyReport
	if err := run.Get(ctx, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// InlineExtentWorkflows resolves feature types in-process, useful for tests or dev fallbacks.
type InlineExtentWorkflows struct {
	service     ports.Service
	concurrency int
}

// NewInlineExtentWorkflows wraps the temporal service; concurrency <= 0 uses a small default.
func NewInlineExtentWorkflows(service ports.Service, concurrency int) *InlineExtentWorkflows {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &InlineExtentWorkflows{service: service, concurrency: concurrency}
}

// SurveyExtents resolves feature types concurrently and reports them in input order.
// Per feature type failures land in the report; only cancellation aborts the survey.
func (o *InlineExtentWorkflows) SurveyExtents(ctx context.Context, input ports.SurveyInput) (*ports.SurveyReport, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline extent workflows not configured")
	}
	input = withSurveyID(input)
	entries := make([]ports.SurveyEntry, len(input.FeatureTypes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, featureType := range input.FeatureTypes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry, _ := application.SurveyFeatureType(gctx, o.service, featureType)
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &ports.SurveyReport{SurveyID: input.SurveyID, Entries: entries}, nil
}

func withSurveyID(input ports.SurveyInput) ports.SurveyInput {
	if input.SurveyID == "" {
		input.SurveyID = uuid.NewString()
	}
	return input
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
