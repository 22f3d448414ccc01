package commands

import (
	"errors"
	"log/slog"
	"os"

	"outage-scraper/internal/scrapers/luma"
	"outage-scraper/lib/configutil"
	configlibsql "outage-scraper/lib/configutil/libsql"
	"outage-scraper/lib/telemetry"
)

const (
	envDbUrl       = "OUTAGE_DB_URL"
	envDbAuthToken = "OUTAGE_DB_AUTH_TOKEN"
)

// Config is read from the config file, its .local override and then the
// environment, ex. OUTAGE_DB_URL, OUTAGE_SCRAPER_URL or
// OTEL_EXPORTER_OTLP_TRACES_ENDPOINT.
type Config struct {
	Database    configlibsql.Struct         `json:"database" env:"OUTAGE_DB"`
	Scraper     luma.ClientOptions          `json:"scraper" env:"OUTAGE_SCRAPER"`
	Pushgateway telemetry.PushgatewayConfig `json:"pushgateway" env:"OUTAGE_PUSHGATEWAY"`
	Telemetry   telemetry.Config            `json:"telemetry" env:""`
}

// loadConfig reads `path` with its .local override and the environment on
// top. A missing config file is fine as long as the environment names a
// database.
func loadConfig(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no config file or environment", "path", path)
	} else if err != nil {
		return Config{}, err
	}

	if cfg.Database.Url == "" && cfg.Database.File == "" {
		return Config{}, errors.New("no database configured, set " + envDbUrl + " or database.file")
	}
	return cfg, nil
}
