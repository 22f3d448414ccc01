package luma

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"outage-scraper/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	// TableAnchor selects the body of the restoration table.
	TableAnchor = "tbody.row-hover"
	// UpdatedMarker is the text that identifies the publication label.
	UpdatedMarker = "Information updated as of"

	// PublishedFormat is the naive ISO 8601 form of the publication time.
	PublishedFormat = "2006-01-02T15:04:05"

	labelLayout = "January 2, 2006, 3:04 PM"
)

var asOfRegex = regexp.MustCompile(`as of (.+)`)

// ParseRegions reads every four cell row of the restoration table, rows
// with any other number of cells (headers, separators) are skipped.
func ParseRegions(doc *goquery.Document) ([]RegionRecord, error) {
	tbody := doc.Find(TableAnchor).First()
	if tbody.Length() == 0 {
		return nil, &ExtractionError{Anchor: TableAnchor}
	}

	var records []RegionRecord
	tbody.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() != 4 {
			return
		}
		text := func(i int) string {
			return strings.TrimSpace(cells.Eq(i).Text())
		}
		records = append(records, RegionRecord{
			Region:            text(0),
			CustomersRestored: text(1),
			TotalCustomers:    text(2),
			PercentRestored:   text(3),
		})
	})

	return records, nil
}

// FindUpdatedLabel returns the trimmed text of the first span containing
// UpdatedMarker.
func FindUpdatedLabel(ctx context.Context, doc *goquery.Document) (string, error) {
	node, ok := htmlutil.FindContaining(ctx, doc.Find("span"), UpdatedMarker)
	if !ok {
		return "", &TimestampNotFoundError{Marker: UpdatedMarker}
	}
	return strings.TrimSpace(htmlutil.GetText(node)), nil
}

// ParsePublishedTimestamp turns a label like
// "Information updated as of July 14, 2024, at 3:45 p.m." into the wall
// clock time it names. The returned time is in UTC but carries no zone
// meaning, see Snapshot.Published.
func ParsePublishedTimestamp(label string) (time.Time, error) {
	normalized := htmlutil.NormalizeSpace(label)

	groups := asOfRegex.FindStringSubmatch(normalized)
	if len(groups) < 2 {
		return time.Time{}, &TimestampParseError{
			Label: label,
			Err:   errors.New(`missing "as of "`),
		}
	}

	date := strings.ReplaceAll(groups[1], "at ", "")
	date = strings.ReplaceAll(date, "a.m.", "AM")
	date = strings.ReplaceAll(date, "p.m.", "PM")
	date = strings.TrimSpace(date)

	parsed, err := time.Parse(labelLayout, date)
	if err != nil {
		return time.Time{}, &TimestampParseError{Label: label, Err: err}
	}
	return parsed, nil
}

// ParseSnapshot extracts the restoration table and its publication time
// from the page's html.
func ParseSnapshot(ctx context.Context, page string) (Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return Snapshot{}, err
	}

	regions, err := ParseRegions(doc)
	if err != nil {
		return Snapshot{}, err
	}

	label, err := FindUpdatedLabel(ctx, doc)
	if err != nil {
		return Snapshot{}, err
	}

	published, err := ParsePublishedTimestamp(label)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Regions:            regions,
		PublishedTimestamp: published.Format(PublishedFormat),
		Label:              label,
	}, nil
}
