package extentserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the API handlers served by the router.
type ApiHandleFunctions struct {
	ExtentAPI ExtentAPI
	GMLAPI    GMLAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing engine so middleware
// registered beforehand applies to them.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc is the default handler for routes without an implementation.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// HealthCheck reports liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"HealthCheck",
			http.MethodGet,
			"/healthz",
			HealthCheck,
		},
		{
			"ParseTime",
			http.MethodPost,
			"/v1/gml/time",
			handleFunctions.GMLAPI.ParseTime,
		},
		{
			"RegisterTemporalProperties",
			http.MethodPut,
			"/v1/feature-types/:typeName/temporal-properties",
			handleFunctions.ExtentAPI.RegisterTemporalProperties,
		},
		{
			"RecordSample",
			http.MethodPost,
			"/v1/feature-types/:typeName/samples",
			handleFunctions.ExtentAPI.RecordSample,
		},
		{
			"GetTemporalExtent",
			http.MethodGet,
			"/v1/feature-types/:typeName/temporal-extent",
			handleFunctions.ExtentAPI.GetTemporalExtent,
		},
		{
			"SurveyExtents",
			http.MethodPost,
			"/v1/extent-surveys",
			handleFunctions.ExtentAPI.SurveyExtents,
		},
	}
}
