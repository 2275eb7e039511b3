package extentserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	extenthttpmapper "github.com/Apurer/wfs-temporal/internal/domains/temporal/adapters/http/mapper"
	temporalports "github.com/Apurer/wfs-temporal/internal/domains/temporal/ports"
	apierrors "github.com/Apurer/wfs-temporal/internal/shared/errors"
)

// GMLAPI exposes the GML time parser.
type GMLAPI struct {
	service         temporalports.Service
	strictByDefault bool
}

// NewGMLAPI creates a GMLAPI; strictByDefault applies when the request carries no strict flag.
func NewGMLAPI(service temporalports.Service, strictByDefault bool) GMLAPI {
	return GMLAPI{service: service, strictByDefault: strictByDefault}
}

// Post /v1/gml/time
// Parses a GML TimeInstant or TimePeriod element
func (api *GMLAPI) ParseTime(c *gin.Context) {
	strict := api.strictByDefault
	if raw, ok := c.GetQuery("strict"); ok {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			respondProblem(c, apierrors.NewValidationProblem(map[string]string{"strict": "must be a boolean"}))
			return
		}
		strict = value
	}
	body, ok := readBody(c)
	if !ok {
		return
	}
	primitive, err := api.service.ParseTime(c.Request.Context(), body, strict)
	if err != nil {
		respondTemporalServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, extenthttpmapper.FromPrimitive(primitive))
}
