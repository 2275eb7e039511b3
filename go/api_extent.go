package extentserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	extenthttpmapper "github.com/Apurer/wfs-temporal/internal/domains/temporal/adapters/http/mapper"
	temporalapp "github.com/Apurer/wfs-temporal/internal/domains/temporal/application"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
	temporalports "github.com/Apurer/wfs-temporal/internal/domains/temporal/ports"
	apierrors "github.com/Apurer/wfs-temporal/internal/shared/errors"
)

const maxSampleBytes = 1 << 20

// ExtentAPI wires HTTP transport with the temporal bounded context service and workflows.
type ExtentAPI struct {
	service   temporalports.Service
	workflows temporalports.WorkflowOrchestrator
}

// NewExtentAPI creates an ExtentAPI backed by the provided service.
func NewExtentAPI(service temporalports.Service, workflows temporalports.WorkflowOrchestrator) ExtentAPI {
	return ExtentAPI{service: service, workflows: workflows}
}

// Put /v1/feature-types/:typeName/temporal-properties
// Replaces the ordered temporal property candidates of a feature type
func (api *ExtentAPI) RegisterTemporalProperties(c *gin.Context) {
	featureType, ok := featureTypeParam(c)
	if !ok {
		return
	}
	var payload extenthttpmapper.TemporalPropertiesRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	properties, err := extenthttpmapper.ToPropertyDescriptors(payload)
	if err != nil {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{"properties": err.Error()}))
		return
	}
	if err := api.service.RegisterTemporalProperties(c.Request.Context(), featureType, properties); err != nil {
		respondTemporalServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /v1/feature-types/:typeName/samples
// Records one GML time value observed for a property
func (api *ExtentAPI) RecordSample(c *gin.Context) {
	featureType, ok := featureTypeParam(c)
	if !ok {
		return
	}
	propertyNamespace, present := c.GetQuery("propertyNamespace")
	if !present {
		propertyNamespace = featureType.Space
	}
	property := domain.NewQName(propertyNamespace, c.Query("property"))
	if property.IsZero() {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{"property": "query parameter is required"}))
		return
	}
	raw, ok := readBody(c)
	if !ok {
		return
	}
	sample, err := api.service.RecordSample(c.Request.Context(), featureType, property, raw)
	if err != nil {
		respondTemporalServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, extenthttpmapper.FromSample(sample))
}

// Get /v1/feature-types/:typeName/temporal-extent
// Resolves the temporal extent of a feature type
func (api *ExtentAPI) GetTemporalExtent(c *gin.Context) {
	featureType, ok := featureTypeParam(c)
	if !ok {
		return
	}
	resolved, err := api.service.FindTemporalProperty(c.Request.Context(), featureType)
	if err != nil {
		respondTemporalServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, extenthttpmapper.FromResolvedExtent(featureType, resolved))
}

// Post /v1/extent-surveys
// Resolves the temporal extents of several feature types
func (api *ExtentAPI) SurveyExtents(c *gin.Context) {
	var payload extenthttpmapper.SurveyRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	input, err := extenthttpmapper.ToSurveyInput(payload)
	if err != nil {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{"featureTypes": err.Error()}))
		return
	}
	report, err := api.survey(c.Request.Context(), input)
	if err != nil {
		respondTemporalServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, extenthttpmapper.FromSurveyReport(report))
}

func (api *ExtentAPI) survey(ctx context.Context, input temporalports.SurveyInput) (*temporalports.SurveyReport, error) {
	if api.workflows != nil {
		return api.workflows.SurveyExtents(ctx, input)
	}
	report := &temporalports.SurveyReport{SurveyID: input.SurveyID}
	for _, featureType := range input.FeatureTypes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry, _ := temporalapp.SurveyFeatureType(ctx, api.service, featureType)
		report.Entries = append(report.Entries, entry)
	}
	return report, nil
}

func featureTypeParam(c *gin.Context) (domain.FeatureType, bool) {
	featureType := domain.NewQName(c.Query("namespace"), c.Param("typeName"))
	if featureType.IsZero() {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{"typeName": "path parameter is required"}))
		return domain.FeatureType{}, false
	}
	return featureType, true
}

func readBody(c *gin.Context) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSampleBytes)
	raw, err := c.GetRawData()
	if err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return nil, false
	}
	if len(raw) == 0 {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail("request body must contain a GML time element"))
		return nil, false
	}
	return raw, true
}
