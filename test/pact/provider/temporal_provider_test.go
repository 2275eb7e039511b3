//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	pacttest "github.com/Apurer/wfs-temporal/test/pact"

	extentserver "github.com/Apurer/wfs-temporal/go"
	temporalmemory "github.com/Apurer/wfs-temporal/internal/domains/temporal/adapters/memory"
	temporalobs "github.com/Apurer/wfs-temporal/internal/domains/temporal/adapters/observability"
	temporalworkflows "github.com/Apurer/wfs-temporal/internal/domains/temporal/adapters/workflows"
	temporalapp "github.com/Apurer/wfs-temporal/internal/domains/temporal/application"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/ports"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestWFSTemporalProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateRoadsSampled: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			if setup {
				app.seedRoads(t)
			}
			return nil, nil
		},
		pacttest.StateLakesUntracked: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			return nil, nil
		},
		pacttest.StateParserReady: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset()
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	service ports.Service
	schema  *temporalmemory.SchemaRegistry
	samples *temporalmemory.SampleStore
	server  *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	schema := temporalmemory.NewSchemaRegistry()
	samples := temporalmemory.NewSampleStore()
	service := temporalobs.New(temporalapp.NewService(schema, samples))
	surveys := temporalworkflows.NewInlineExtentWorkflows(service, 2)

	handlers := extentserver.ApiHandleFunctions{
		ExtentAPI: extentserver.NewExtentAPI(service, surveys),
		GMLAPI:    extentserver.NewGMLAPI(service, false),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router = extentserver.NewRouterWithGinEngine(router, handlers)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{service: service, schema: schema, samples: samples, server: server}
}

func (a *contractProviderApp) reset() {
	a.schema.Reset()
	a.samples.Reset()
}

func (a *contractProviderApp) seedRoads(t testing.TB) {
	t.Helper()
	ctx := context.Background()
	roads := domain.NewQName(pacttest.AppNamespace, pacttest.SampledTypeName)
	validity := domain.NewQName(pacttest.AppNamespace, pacttest.PropertyName)
	require.NoError(t, a.service.RegisterTemporalProperties(ctx, roads, []domain.PropertyDescriptor{{Name: validity}}))
	_, err := a.service.RecordSample(ctx, roads, validity, []byte(pacttest.ExamplePeriodGML))
	require.NoError(t, err)
}
