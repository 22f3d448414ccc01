package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"outage-scraper/internal/chrono"
	"outage-scraper/internal/scrapers/luma"
	"outage-scraper/internal/telemetry"
	libtelemetry "outage-scraper/lib/telemetry"
	"outage-scraper/services/outage"
	"outage-scraper/services/outage/db"

	"github.com/spf13/cobra"
)

var (
	configPath string
	dryRun     bool
	debug      bool
	saveDir    string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "The config file to read, config.local.json5 next to it overrides it.")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log debug output.")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run every check but do not write to the database.")
	rootCmd.Flags().StringVar(&saveDir, "save-page", "", "Keep a copy of the fetched page in this directory.")
}

var rootCmd = &cobra.Command{
	Use:   "outage-scraper",
	Short: "outage-scraper stores the restoration status published on the LUMA outage page.",
	Long: "Fetches the LUMA outage page once, validates the region table and inserts it " +
		"into the database if it was published after the last stored row.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		libtelemetry.InitSlog(debug)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}

		ctx := cmd.Context()
		otel, err := libtelemetry.Setup(ctx, "outage-scraper", cfg.Telemetry)
		if err != nil {
			slog.Warn("failed to setup telemetry", "err", err)
		}
		defer func() {
			// the run context may already be cancelled
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
			defer cancel()
			if err := otel.Shutdown(shutdownCtx); err != nil {
				slog.Warn("failed to flush telemetry", "err", err)
			}
		}()

		if saveDir != "" {
			cfg.Scraper.SaveDir = saveDir
		}

		database, err := cfg.Database.OpenDB(db.Schema)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer database.Close()

		tel := telemetry.SlogAPI{}
		client := luma.NewClient(cfg.Scraper, telemetry.NewScopedAPI("luma", tel))
		store := outage.NewSQLStore(database, telemetry.NewScopedAPI("outage", tel))
		service := outage.NewService(
			client,
			store,
			chrono.NewStandardTime(),
			telemetry.NewScopedAPI("outage", tel),
			outage.Options{DryRun: dryRun},
		)

		res, runErr := service.Run(ctx)
		logResult(res)

		// metrics are pushed for failed runs too
		pushCtx := context.WithoutCancel(ctx)
		if err := pushRunMetrics(pushCtx, cfg.Pushgateway, res); err != nil {
			slog.Warn("failed to push metrics", "err", err)
		}

		return runErr
	},
}

func logResult(res outage.Result) {
	attrs := []any{
		"run_id", res.RunID,
		"status", string(res.Status),
		"regions", len(res.Snapshot.Regions),
	}
	if res.Snapshot.PublishedTimestamp != "" {
		attrs = append(attrs, "published", res.Snapshot.PublishedTimestamp)
	}
	if res.Reason != nil {
		attrs = append(attrs, "reason", res.Reason.Error())
	}

	switch res.Status {
	case outage.StatusInserted:
		slog.Info("data inserted into the database", attrs...)
	case outage.StatusWouldInsert:
		slog.Info("dry run, data would have been inserted", append(attrs, "timestamp", res.Row.Timestamp)...)
	case outage.StatusStale:
		slog.Info("data is not new, nothing inserted", attrs...)
	case outage.StatusInvalid:
		slog.Warn("data is not valid, nothing inserted", attrs...)
	default:
		slog.Error("run failed", attrs...)
	}
}

func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
