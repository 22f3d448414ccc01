package outage

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const library_name = "outage-scraper.services.outage"

var tracer = otel.Tracer(library_name)
var meter = otel.Meter(library_name)

var runsCounter, _ = meter.Int64Counter(
	"outage.runs",
	metric.WithDescription("Pipeline runs by outcome."),
)
var regionsCounter, _ = meter.Int64Counter(
	"outage.regions",
	metric.WithDescription("Region rows read from the outage page."),
)
