package extentserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/adapters/memory"
	temporalapp "github.com/Apurer/wfs-temporal/internal/domains/temporal/application"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/gml"
	apierrors "github.com/Apurer/wfs-temporal/internal/shared/errors"
)

const (
	appNS   = "http://example.com/app"
	gmlNS   = `xmlns:gml="http://www.opengis.net/gml/3.2"`
	instant = `<gml:TimeInstant ` + gmlNS + ` frame="#ISO-8601"><gml:timePosition>2020-03-01T12:00:00+01:00</gml:timePosition></gml:TimeInstant>`
	period  = `<gml:TimePeriod ` + gmlNS + `>
  <gml:begin><gml:TimeInstant><gml:timePosition>2020-01-01T00:00:00Z</gml:timePosition></gml:TimeInstant></gml:begin>
  <gml:end><gml:TimeInstant><gml:timePosition>2020-02-01T00:00:00Z</gml:timePosition></gml:TimeInstant></gml:end>
</gml:TimePeriod>`
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	service := temporalapp.NewService(memory.NewSchemaRegistry(), memory.NewSampleStore())
	return NewRouterWithGinEngine(gin.New(), ApiHandleFunctions{
		ExtentAPI: NewExtentAPI(service, nil),
		GMLAPI:    NewGMLAPI(service, false),
	})
}

func do(t *testing.T, router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if strings.HasPrefix(strings.TrimSpace(body), "{") {
		req.Header.Set("Content-Type", "application/json")
	} else {
		req.Header.Set("Content-Type", "application/gml+xml")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) apierrors.ProblemDetail {
	t.Helper()
	assert.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var problem apierrors.ProblemDetail
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&problem))
	return problem
}

func featurePath(suffix string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("namespace", appNS)
	return "/v1/feature-types/Roads/" + suffix + "?" + query.Encode()
}

func TestHealthCheck(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestParseTime_Instant(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodPost, "/v1/gml/time", instant)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"kind":"instant","instant":"2020-03-01T12:00:00+01:00"}`, rec.Body.String())
}

func TestParseTime_RejectedFrameCarriesKind(t *testing.T) {
	body := `<gml:TimeInstant ` + gmlNS + ` frame="urn:ogc:def:crs:EPSG::4979"><gml:timePosition>2020-03-01T12:00:00Z</gml:timePosition></gml:TimeInstant>`
	rec := do(t, newTestRouter(t), http.MethodPost, "/v1/gml/time", body)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, apierrors.TypeInvalidGMLTime, problem.Type)
	assert.Equal(t, KindUnsupportedReferenceFrame, problem.Extensions["errorKind"])
	assert.Equal(t, "urn:ogc:def:crs:EPSG::4979", problem.Extensions["frame"])
}

func TestParseTime_StrictQuery(t *testing.T) {
	router := newTestRouter(t)
	body := `<app:validity xmlns:app="` + appNS + `" ` + gmlNS + `>
  <gml:timePosition>2020-01-01T00:00:00Z</gml:timePosition>
  <gml:timePosition>2020-02-01T00:00:00Z</gml:timePosition>
</app:validity>`

	rec := do(t, router, http.MethodPost, "/v1/gml/time", body)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodPost, "/v1/gml/time?strict=true", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, KindUnrecognizedTimeShape, decodeProblem(t, rec).Extensions["errorKind"])

	rec = do(t, router, http.MethodPost, "/v1/gml/time?strict=maybe", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseTime_StrictDeploymentHonoursStrictFalse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	strict := gml.NewParser(gml.WithStrictShapes(), gml.WithUniformFrameValidation())
	service := temporalapp.NewService(memory.NewSchemaRegistry(), memory.NewSampleStore(), temporalapp.WithParser(strict))
	router := NewRouterWithGinEngine(gin.New(), ApiHandleFunctions{GMLAPI: NewGMLAPI(service, true)})
	body := `<app:validity xmlns:app="` + appNS + `" ` + gmlNS + `>
  <gml:timePosition>2020-01-01T00:00:00Z</gml:timePosition>
  <gml:timePosition>2020-02-01T00:00:00Z</gml:timePosition>
</app:validity>`

	rec := do(t, router, http.MethodPost, "/v1/gml/time", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, KindUnrecognizedTimeShape, decodeProblem(t, rec).Extensions["errorKind"])

	rec = do(t, router, http.MethodPost, "/v1/gml/time?strict=false", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"kind":"period"`)
}

func TestParseTime_InvalidText(t *testing.T) {
	body := `<gml:TimeInstant ` + gmlNS + `><gml:timePosition>tomorrow</gml:timePosition></gml:TimeInstant>`
	rec := do(t, newTestRouter(t), http.MethodPost, "/v1/gml/time", body)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, KindInvalidInstantFormat, problem.Extensions["errorKind"])
	assert.Equal(t, "tomorrow", problem.Extensions["text"])
}

func TestParseTime_EmptyBody(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodPost, "/v1/gml/time", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTemporalExtent_Lifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, featurePath("temporal-extent", nil), "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apierrors.TypeNoTemporalProperty, decodeProblem(t, rec).Type)

	rec = do(t, router, http.MethodPut, featurePath("temporal-properties", nil),
		`{"properties":[{"namespace":"`+appNS+`","name":"validity"},{"namespace":"`+appNS+`","name":"observed"}]}`)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodGet, featurePath("temporal-extent", nil), "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, apierrors.TypeExtentUnavailable, problem.Type)
	assert.Len(t, problem.Extensions["failures"], 2)

	rec = do(t, router, http.MethodPost, featurePath("samples", url.Values{"property": {"validity"}}), period)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(t, router, http.MethodPost, featurePath("samples", url.Values{"property": {"validity"}}), instant)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodGet, featurePath("temporal-extent", nil), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Property struct {
			Name string `json:"name"`
		} `json:"property"`
		Extent struct {
			Begin   string `json:"begin"`
			End     string `json:"end"`
			Ordered bool   `json:"ordered"`
		} `json:"extent"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	// legacy pairing: the last candidate is reported with the extent of the one that succeeded
	assert.Equal(t, "observed", body.Property.Name)
	assert.Equal(t, "2020-01-01T00:00:00Z", body.Extent.Begin)
	assert.Equal(t, "2020-03-01T12:00:00+01:00", body.Extent.End)
	assert.True(t, body.Extent.Ordered)
}

func TestRecordSample_Validation(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, featurePath("samples", nil), instant)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, featurePath("samples", url.Values{"property": {"validity"}}), `<gml:TimeInstant`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, KindMalformedDocument, decodeProblem(t, rec).Extensions["errorKind"])
}

func TestRegisterTemporalProperties_Validation(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPut, featurePath("temporal-properties", nil), `{"properties":[{"namespace":"x"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPut, featurePath("temporal-properties", nil), `{"properties":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSurveyExtents_WithoutOrchestrator(t *testing.T) {
	router := newTestRouter(t)
	rec := do(t, router, http.MethodPut, featurePath("temporal-properties", nil), `{"properties":[{"namespace":"`+appNS+`","name":"validity"}]}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, router, http.MethodPost, featurePath("samples", url.Values{"property": {"validity"}}), instant)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodPost, "/v1/extent-surveys",
		`{"surveyId":"s1","featureTypes":[{"namespace":"`+appNS+`","name":"Roads"},{"namespace":"`+appNS+`","name":"Lakes"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report struct {
		SurveyID string `json:"surveyId"`
		Entries  []struct {
			Outcome string `json:"outcome"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "s1", report.SurveyID)
	require.Len(t, report.Entries, 2)
	assert.Equal(t, "resolved", report.Entries[0].Outcome)
	assert.Equal(t, "no_temporal_property", report.Entries[1].Outcome)

	rec = do(t, router, http.MethodPost, "/v1/extent-surveys", `{"featureTypes":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
