package commands

import (
	"context"

	"outage-scraper/lib/telemetry"
	"outage-scraper/services/outage"

	"github.com/prometheus/client_golang/prometheus"
)

var allStatuses = []outage.Status{
	outage.StatusInserted,
	outage.StatusStale,
	outage.StatusInvalid,
	outage.StatusFailed,
	outage.StatusWouldInsert,
}

// runCollectors builds the gauges describing a single run. The status
// gauge has one series per status so the last outcome is the series set
// to 1.
func runCollectors(res outage.Result) []prometheus.Collector {
	status := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "outage_scraper_last_run_status",
		Help: "Outcome of the last run, the series for the outcome is 1.",
	}, []string{"status"})
	for _, s := range allStatuses {
		value := 0.0
		if s == res.Status {
			value = 1
		}
		status.WithLabelValues(string(s)).Set(value)
	}

	regions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "outage_scraper_regions",
		Help: "Regions read from the outage page on the last run.",
	})
	regions.Set(float64(len(res.Snapshot.Regions)))

	collectors := []prometheus.Collector{status, regions}

	if res.Status == outage.StatusInserted {
		lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "outage_scraper_last_success_timestamp_seconds",
			Help: "Unix time of the last run that inserted a row.",
		})
		lastSuccess.SetToCurrentTime()
		collectors = append(collectors, lastSuccess)
	}

	return collectors
}

func pushRunMetrics(ctx context.Context, config telemetry.PushgatewayConfig, res outage.Result) error {
	return config.Push(ctx, runCollectors(res)...)
}
