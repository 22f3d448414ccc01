package luma

import (
	"time"

	"outage-scraper/lib/timezone"
)

// RegionRecord is one row of the restoration table, every field is the
// trimmed cell text as it appeared on the page.
type RegionRecord struct {
	Region            string
	CustomersRestored string // ex. "1,234"
	TotalCustomers    string // ex. "2,000"
	PercentRestored   string // ex. "62%"
}

// Snapshot is the result of a single fetch and parse of the outage page.
type Snapshot struct {
	Regions []RegionRecord
	// PublishedTimestamp is naive ISO 8601, ex. "2024-07-14T15:45:00".
	PublishedTimestamp string
	// Label is the raw "Information updated as of ..." text.
	Label string
}

// Published interprets PublishedTimestamp in Puerto Rico civil time.
func (s Snapshot) Published() (time.Time, error) {
	parsed, err := time.Parse(PublishedFormat, s.PublishedTimestamp)
	if err != nil {
		return time.Time{}, err
	}
	return timezone.InLocal(parsed), nil
}
