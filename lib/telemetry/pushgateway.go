package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// PushgatewayConfig points batch jobs at a Prometheus Pushgateway, jobs
// that exit before a scrape can happen report through it instead.
type PushgatewayConfig struct {
	Url string `json:"url" env:"URL"`
	Job string `json:"job" env:"JOB"`
}

// Push sends the collectors to the gateway. Metrics of the job that are
// not part of this push keep their last value. It is a no-op when no url
// is configured.
func (c PushgatewayConfig) Push(ctx context.Context, collectors ...prometheus.Collector) error {
	if c.Url == "" {
		return nil
	}
	job := c.Job
	if job == "" {
		job = "outage-scraper"
	}

	pusher := push.New(c.Url, job)
	for _, col := range collectors {
		pusher = pusher.Collector(col)
	}
	return pusher.AddContext(ctx)
}
