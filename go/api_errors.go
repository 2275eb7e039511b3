package extentserver

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	temporalapp "github.com/Apurer/wfs-temporal/internal/domains/temporal/application"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/gml"
	apierrors "github.com/Apurer/wfs-temporal/internal/shared/errors"
)

// Error kinds reported in the errorKind extension of invalid-gml-time problems.
const (
	KindMissingTimePosition       = "missing_time_position"
	KindUnsupportedReferenceFrame = "unsupported_reference_frame"
	KindInvalidInstantFormat      = "invalid_instant_format"
	KindUnrecognizedTimeShape     = "unrecognized_time_shape"
	KindMalformedDocument         = "malformed_document"
)

var temporalResponder = apierrors.NewChainedResponder("",
	mapNoTemporalProperty,
	mapExtentUnavailable,
	mapInvalidTime,
	mapInvalidInput,
	mapUnavailable,
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

func respondTemporalServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	temporalResponder.RespondError(c, err)
}

func mapNoTemporalProperty(err error) (apierrors.ProblemDetail, bool) {
	if !errors.Is(err, temporalapp.ErrNoTemporalProperty) {
		return apierrors.ProblemDetail{}, false
	}
	return apierrors.ErrNoTemporalProperty.WithDetail(err.Error()), true
}

func mapExtentUnavailable(err error) (apierrors.ProblemDetail, bool) {
	if !errors.Is(err, temporalapp.ErrExtentUnavailable) {
		return apierrors.ProblemDetail{}, false
	}
	problem := apierrors.ErrExtentUnavailable.WithDetail(err.Error())
	var unavailable *temporalapp.ExtentUnavailableError
	if errors.As(err, &unavailable) {
		failures := make([]map[string]string, 0, len(unavailable.Failures))
		for _, failure := range unavailable.Failures {
			item := map[string]string{"property": failure.Property.String()}
			if failure.Err != nil {
				item["error"] = failure.Err.Error()
			}
			failures = append(failures, item)
		}
		problem = problem.
			WithExtension("featureType", unavailable.FeatureType.String()).
			WithExtension("failures", failures)
	}
	return problem, true
}

func mapInvalidTime(err error) (apierrors.ProblemDetail, bool) {
	if !errors.Is(err, temporalapp.ErrInvalidTime) {
		return apierrors.ProblemDetail{}, false
	}
	problem := apierrors.NewInvalidGMLTimeProblem(gmlErrorKind(err), err.Error())
	var frameErr *gml.UnsupportedReferenceFrameError
	if errors.As(err, &frameErr) {
		problem = problem.WithExtension("frame", frameErr.Frame)
	}
	var formatErr *gml.InvalidInstantFormatError
	if errors.As(err, &formatErr) {
		problem = problem.WithExtension("text", formatErr.Text)
	}
	return problem, true
}

func gmlErrorKind(err error) string {
	switch {
	case errors.Is(err, gml.ErrMissingTimePosition):
		return KindMissingTimePosition
	case errors.Is(err, gml.ErrUnsupportedReferenceFrame):
		return KindUnsupportedReferenceFrame
	case errors.Is(err, gml.ErrInvalidInstantFormat):
		return KindInvalidInstantFormat
	case errors.Is(err, gml.ErrUnrecognizedTimeShape):
		return KindUnrecognizedTimeShape
	default:
		return KindMalformedDocument
	}
}

func mapInvalidInput(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, temporalapp.ErrInvalidInput) || errors.Is(err, domain.ErrInvalidQName) {
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapUnavailable(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, temporalapp.ErrSampleStoreUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return apierrors.ErrUnavailable.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
