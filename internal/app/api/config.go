package api

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	temporalapp "github.com/Apurer/wfs-temporal/internal/domains/temporal/application"
	platformobservability "github.com/Apurer/wfs-temporal/internal/platform/observability"
)

// Config carries environment-driven settings for the API and worker processes.
type Config struct {
	Port                 string
	LogLevel             slog.Level
	PostgresDSN          string
	TemporalAddress      string
	TemporalNamespace    string
	TemporalDisabled     bool
	WFSBaseURL           string
	WFSTimeout           time.Duration
	WFSRequestsPerSecond float64
	WFSMaxFeatures       int
	Pairing              temporalapp.Pairing
	GMLStrict            bool
	SurveyConcurrency    int
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:                 envDefault("PORT", "8080"),
		PostgresDSN:          strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:      envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:    envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:     isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		WFSBaseURL:           strings.TrimSpace(os.Getenv("WFS_BASE_URL")),
		WFSTimeout:           30 * time.Second,
		WFSRequestsPerSecond: 5,
		WFSMaxFeatures:       100,
		GMLStrict:            isTruthy(os.Getenv("GML_STRICT")),
		SurveyConcurrency:    4,
	}
	level, err := platformobservability.ParseLogLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level
	pairing, err := temporalapp.ParsePairing(os.Getenv("EXTENT_PAIRING"))
	if err != nil {
		return Config{}, fmt.Errorf("EXTENT_PAIRING: %w", err)
	}
	cfg.Pairing = pairing
	if seconds, ok, err := positiveInt("WFS_TIMEOUT_SECONDS"); err != nil {
		return Config{}, err
	} else if ok {
		cfg.WFSTimeout = time.Duration(seconds) * time.Second
	}
	if raw := strings.TrimSpace(os.Getenv("WFS_REQUESTS_PER_SECOND")); raw != "" {
		rps, err := strconv.ParseFloat(raw, 64)
		if err != nil || rps < 0 {
			return Config{}, fmt.Errorf("WFS_REQUESTS_PER_SECOND must be a non-negative number")
		}
		cfg.WFSRequestsPerSecond = rps
	}
	if n, ok, err := positiveInt("WFS_MAX_FEATURES"); err != nil {
		return Config{}, err
	} else if ok {
		cfg.WFSMaxFeatures = n
	}
	if n, ok, err := positiveInt("SURVEY_CONCURRENCY"); err != nil {
		return Config{}, err
	} else if ok {
		cfg.SurveyConcurrency = n
	}
	return cfg, nil
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	return ":" + c.Port
}

func positiveInt(key string) (int, bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, true, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
