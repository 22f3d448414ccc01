package main

import (
	"outage-scraper/cmd/outage-scraper/commands"
	"outage-scraper/lib/serviceutil"
	"outage-scraper/lib/telemetry"
)

func main() {
	telemetry.InitSlog(false)
	ctx := serviceutil.SignalContext()

	err := commands.ExecuteContext(ctx)
	if err != nil {
		serviceutil.Fatal("outage-scraper failed", err)
	}
}
