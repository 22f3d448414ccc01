package outage

import (
	"fmt"
	"sort"
	"time"

	"outage-scraper/internal/scrapers/luma"
	"outage-scraper/lib/textutil"
	"outage-scraper/lib/timezone"
)

const (
	ColumnPublishedTimestamp = "published_timestamp"
	ColumnTimestamp          = "timestamp"

	suffixRestored = "_restored_customers"
	suffixTotal    = "_total_customers"
	suffixPercent  = "_percent_restored"

	// TimestampFormat is how capture times are written, ex.
	// "2025-01-01T13:05:00.000000-04:00".
	TimestampFormat = "2006-01-02T15:04:05.000000-07:00"
)

// StoredRow is one wide row of outage_by_region.
type StoredRow struct {
	Counts             map[string]int64
	PublishedTimestamp string
	Timestamp          string
}

// Columns returns the row's column names and values in a stable order:
// the count columns sorted by name followed by the two timestamps.
func (r StoredRow) Columns() ([]string, []any) {
	names := make([]string, 0, len(r.Counts))
	for name := range r.Counts {
		names = append(names, name)
	}
	sort.Strings(names)

	columns := make([]string, 0, len(names)+2)
	values := make([]any, 0, len(names)+2)
	for _, name := range names {
		columns = append(columns, name)
		values = append(values, r.Counts[name])
	}
	columns = append(columns, ColumnPublishedTimestamp, ColumnTimestamp)
	values = append(values, r.PublishedTimestamp, r.Timestamp)

	return columns, values
}

// Transform flattens a snapshot into a StoredRow captured at `now`. A
// region that appears twice keeps the values of its last row.
func Transform(snapshot luma.Snapshot, now time.Time) (StoredRow, error) {
	row := StoredRow{
		Counts:             make(map[string]int64, len(snapshot.Regions)*3),
		PublishedTimestamp: snapshot.PublishedTimestamp,
		Timestamp:          FormatTimestamp(now),
	}

	for _, r := range snapshot.Regions {
		prefix := textutil.ColumnPrefix(r.Region)
		cells := []struct {
			column string
			value  string
		}{
			{prefix + suffixRestored, r.CustomersRestored},
			{prefix + suffixTotal, r.TotalCustomers},
			{prefix + suffixPercent, r.PercentRestored},
		}
		for _, c := range cells {
			n, err := textutil.ParseCount(c.value)
			if err != nil {
				return StoredRow{}, fmt.Errorf("transform %s: %w", c.column, err)
			}
			row.Counts[c.column] = n
		}
	}

	return row, nil
}

// FormatTimestamp formats t in Puerto Rico time with microseconds and
// its offset.
func FormatTimestamp(t time.Time) string {
	return t.In(timezone.Location).Format(TimestampFormat)
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
}

// ParseStoredTimestamp reads a timestamp column value. Values without an
// offset are taken as Puerto Rico time.
func ParseStoredTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		parsed, perr := time.ParseInLocation(layout, value, timezone.Location)
		if perr == nil {
			return parsed, nil
		}
	}
	return time.Time{}, err
}
