//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "wfs-temporal-api"
	ConsumerName = "catalog-indexer"

	StateRoadsSampled   = "feature type Roads has recorded validity samples"
	StateLakesUntracked = "feature type Lakes declares no temporal property"
	StateParserReady    = "gml parser available"
)

const (
	AppNamespace      = "http://example.com/app"
	SampledTypeName   = "Roads"
	UntrackedTypeName = "Lakes"
	PropertyName      = "validity"
)

// ExampleInstantGML is a TimeInstant accepted by the default parser.
const ExampleInstantGML = `<gml:TimeInstant xmlns:gml="http://www.opengis.net/gml/3.2" frame="#ISO-8601"><gml:timePosition>2020-03-01T12:00:00Z</gml:timePosition></gml:TimeInstant>`

// ExamplePeriodGML spans the first quarter of 2020.
const ExamplePeriodGML = `<gml:TimePeriod xmlns:gml="http://www.opengis.net/gml/3.2">
  <gml:begin><gml:TimeInstant><gml:timePosition>2020-01-01T00:00:00Z</gml:timePosition></gml:TimeInstant></gml:begin>
  <gml:end><gml:TimeInstant><gml:timePosition>2020-03-31T00:00:00Z</gml:timePosition></gml:TimeInstant></gml:end>
</gml:TimePeriod>`

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the catalog indexer consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
