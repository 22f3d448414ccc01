package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"outage-scraper/services/outage"
	"outage-scraper/services/outage/db"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.json5")
	err := os.WriteFile(path, []byte(content), 0600)
	require.NoError(t, err)
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
		// local database for development
		"database": { "file": "outages.db" },
		"scraper": { "timeout_seconds": 30 },
		"pushgateway": { "url": "http://localhost:9091" },
	}`)
	t.Setenv(envDbUrl, "")
	t.Setenv(envDbAuthToken, "")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "outages.db", cfg.Database.File)
	require.False(t, cfg.Database.IsRemote())
	require.Equal(t, 30, cfg.Scraper.TimeoutSeconds)
	require.Equal(t, "http://localhost:9091", cfg.Pushgateway.Url)
}

func TestLoadConfigEnvironment(t *testing.T) {
	path := writeConfig(t, `{
		"database": { "file": "outages.db", "url": "libsql://from-file.turso.io" },
	}`)
	t.Setenv(envDbUrl, "libsql://from-env.turso.io")
	t.Setenv(envDbAuthToken, "token")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.True(t, cfg.Database.IsRemote())
	require.Equal(t, "libsql://from-env.turso.io", cfg.Database.Url)
	require.Equal(t, "token", cfg.Database.AuthToken)
}

func TestLoadConfigEnvironmentSections(t *testing.T) {
	path := writeConfig(t, `{
		"database": { "file": "outages.db" },
		"scraper": { "url": "https://example.com/outages" },
		"telemetry": { "otlp": { "traces": { "grpc_endpoint": "http://localhost:4317" } } },
	}`)
	t.Setenv(envDbUrl, "")
	t.Setenv(envDbAuthToken, "")
	t.Setenv("OUTAGE_SCRAPER_SAVE_DIR", "pages")
	t.Setenv("OUTAGE_PUSHGATEWAY_URL", "http://pushgateway:9091")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "http://collector:4318/v1/metrics")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/outages", cfg.Scraper.Url)
	require.Equal(t, "pages", cfg.Scraper.SaveDir)
	require.Equal(t, "http://pushgateway:9091", cfg.Pushgateway.Url)
	require.Equal(t, "http://localhost:4317", cfg.Telemetry.Otlp.Traces.GrpcEndpoint)
	require.Equal(t, "http://collector:4318/v1/metrics", cfg.Telemetry.Otlp.Metrics.HttpEndpoint)
	require.True(t, cfg.Telemetry.Enabled())
}

func TestLoadConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")

	t.Setenv(envDbUrl, "")
	t.Setenv(envDbAuthToken, "")
	_, err := loadConfig(path)
	require.Error(t, err)

	t.Setenv(envDbUrl, "libsql://from-env.turso.io")
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "libsql://from-env.turso.io", cfg.Database.Url)
}

func TestRunCollectors(t *testing.T) {
	collectors := runCollectors(outage.Result{Status: outage.StatusStale})
	require.Len(t, collectors, 2)

	status := collectors[0].(*prometheus.GaugeVec)
	require.Equal(t, 1.0, promtestutil.ToFloat64(status.WithLabelValues(string(outage.StatusStale))))
	require.Equal(t, 0.0, promtestutil.ToFloat64(status.WithLabelValues(string(outage.StatusInserted))))

	collectors = runCollectors(outage.Result{Status: outage.StatusInserted})
	require.Len(t, collectors, 3)
}

func TestRegionPrefixes(t *testing.T) {
	prefixes := regionPrefixes([]string{
		"id",
		"sanjuan_restored_customers",
		"sanjuan_total_customers",
		"arecibo_restored_customers",
		"published_timestamp",
		"timestamp",
	})
	require.Equal(t, []string{"arecibo", "sanjuan"}, prefixes)
}

func TestRenderHistoryMissingColumn(t *testing.T) {
	rows := db.OutageRows{
		Columns: []string{
			"id",
			"sanjuan_restored_customers",
			"sanjuan_percent_restored",
			"published_timestamp",
			"timestamp",
		},
		Rows: [][]any{
			{int64(1), int64(90), nil, "2024-01-02T10:00:00", "2024-01-02T10:05:00.000000-04:00"},
		},
	}

	var out bytes.Buffer
	require.NotPanics(t, func() { renderHistory(&out, rows) })
	require.Contains(t, out.String(), "90/- (-%)")
	require.Contains(t, out.String(), "2024-01-02T10:00:00")
}
