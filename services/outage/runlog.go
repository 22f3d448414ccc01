package outage

import (
	"database/sql"

	"outage-scraper/services/outage/db"
)

type Status string

const (
	StatusInserted Status = "inserted"
	StatusStale    Status = "stale"
	StatusInvalid  Status = "invalid"
	StatusFailed   Status = "failed"
	// StatusWouldInsert is returned by dry runs that passed both gates.
	StatusWouldInsert Status = "would_insert"
)

// RunLog is the record kept in scrape_runs for every run.
type RunLog struct {
	RunID              string
	StartedAt          string
	FinishedAt         string
	Status             Status
	PublishedTimestamp string
	Error              string
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r RunLog) params() db.CreateScrapeRunParams {
	return db.CreateScrapeRunParams{
		RunID:              r.RunID,
		StartedAt:          r.StartedAt,
		FinishedAt:         r.FinishedAt,
		Status:             string(r.Status),
		PublishedTimestamp: nullString(r.PublishedTimestamp),
		Error:              nullString(r.Error),
	}
}

func runLogFromRow(row db.ScrapeRun) RunLog {
	return RunLog{
		RunID:              row.RunID,
		StartedAt:          row.StartedAt,
		FinishedAt:         row.FinishedAt,
		Status:             Status(row.Status),
		PublishedTimestamp: row.PublishedTimestamp.String,
		Error:              row.Error.String,
	}
}
