package luma

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	_ "embed"
)

//go:embed testdata/outages.html
var outagesPage string

func mustDoc(t testing.TB, page string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestParseRegions(t *testing.T) {
	records, err := ParseRegions(mustDoc(t, outagesPage))
	require.NoError(t, err)

	expect := []RegionRecord{
		{Region: "Arecibo", CustomersRestored: "178,520", TotalCustomers: "180,004", PercentRestored: "99%"},
		{Region: "Bayamón", CustomersRestored: "213,118", TotalCustomers: "214,990", PercentRestored: "99%"},
		{Region: "Caguas", CustomersRestored: "190,201", TotalCustomers: "195,874", PercentRestored: "97%"},
		{Region: "Carolina", CustomersRestored: "205,312", TotalCustomers: "206,118", PercentRestored: "100%"},
		{Region: "Mayagüez", CustomersRestored: "160,004", TotalCustomers: "171,220", PercentRestored: "93%"},
		{Region: "Ponce", CustomersRestored: "177,456", TotalCustomers: "190,001", PercentRestored: "93%"},
		{Region: "San Juan", CustomersRestored: "305,877", TotalCustomers: "306,002", PercentRestored: "100%"},
	}
	if diff := cmp.Diff(expect, records); diff != "" {
		t.Fatalf("unexpected records (-want +got):\n%s", diff)
	}
}

func TestParseRegionsRowShapes(t *testing.T) {
	cases := []struct {
		name   string
		rows   string
		expect []RegionRecord
	}{
		{
			name: "trimmed four cell row",
			rows: `<tr><td>  San Juan </td><td>1,000</td><td>
				2,000</td><td>50% </td></tr>`,
			expect: []RegionRecord{
				{Region: "San Juan", CustomersRestored: "1,000", TotalCustomers: "2,000", PercentRestored: "50%"},
			},
		},
		{
			name: "two cell header row is skipped",
			rows: `<tr><td>Region</td><td>Status</td></tr>`,
		},
		{
			name: "five cell row is skipped",
			rows: `<tr><td>a</td><td>1</td><td>2</td><td>3%</td><td>extra</td></tr>`,
		},
		{
			name: "header cells are not data cells",
			rows: `<tr><th>Region</th><th>Restored</th><th>Total</th><th>%</th></tr>
				<tr><td>Ponce</td><td>1</td><td>2</td><td>50%</td></tr>`,
			expect: []RegionRecord{
				{Region: "Ponce", CustomersRestored: "1", TotalCustomers: "2", PercentRestored: "50%"},
			},
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			page := `<table><tbody class="row-hover">` + test.rows + `</tbody></table>`
			records, err := ParseRegions(mustDoc(t, page))
			require.NoError(t, err)
			require.Equal(t, test.expect, records)
		})
	}
}

func TestParseRegionsMissingTable(t *testing.T) {
	_, err := ParseRegions(mustDoc(t, `<table><tbody><tr><td>x</td></tr></tbody></table>`))

	var extractErr *ExtractionError
	require.True(t, errors.As(err, &extractErr))
	require.Equal(t, TableAnchor, extractErr.Anchor)
}

func TestFindUpdatedLabel(t *testing.T) {
	label, err := FindUpdatedLabel(context.Background(), mustDoc(t, outagesPage))
	require.NoError(t, err)
	// the page separates the time and meridiem with a non-breaking space
	require.Equal(t, "Information updated as of July 14, 2024, at 3:45\u00a0p.m.", label)

	_, err = FindUpdatedLabel(context.Background(), mustDoc(t, `<span>information updated as of today</span>`))
	var notFound *TimestampNotFoundError
	require.True(t, errors.As(err, &notFound))
}

func TestParsePublishedTimestamp(t *testing.T) {
	cases := []struct {
		label  string
		expect string
	}{
		{label: "Information updated as of July 14, 2024, at 3:45 p.m.", expect: "2024-07-14T15:45:00"},
		{label: "Information updated as of January 1, 2025, at 1:00 p.m.", expect: "2025-01-01T13:00:00"},
		{label: "Information updated as of March 3, 2025, at 12:05 a.m.", expect: "2025-03-03T00:05:00"},
		{label: "Information updated as of December 31, 2024, at 11:59 p.m.", expect: "2024-12-31T23:59:00"},
		{label: "Information updated as of August 9, 2024, 9:30 AM", expect: "2024-08-09T09:30:00"},
		{label: "  Information updated as of July 4, 2024, at 10:15 a.m. ", expect: "2024-07-04T10:15:00"},
	}

	for _, test := range cases {
		parsed, err := ParsePublishedTimestamp(test.label)
		require.NoError(t, err, test.label)
		require.Equal(t, test.expect, parsed.Format(PublishedFormat), test.label)
	}
}

func TestParsePublishedTimestampErrors(t *testing.T) {
	labels := []string{
		"Information updated recently",
		"Information updated as of yesterday",
		"Information updated as of July 14, 2024 at 3:45 p.m.",
		"Information updated as of 2024-07-14 15:45",
	}

	for _, label := range labels {
		_, err := ParsePublishedTimestamp(label)
		var parseErr *TimestampParseError
		require.True(t, errors.As(err, &parseErr), label)
		require.Equal(t, label, parseErr.Label)
	}
}

func TestParseSnapshot(t *testing.T) {
	snapshot, err := ParseSnapshot(context.Background(), outagesPage)
	require.NoError(t, err)
	require.Len(t, snapshot.Regions, 7)
	require.Equal(t, "2024-07-14T15:45:00", snapshot.PublishedTimestamp)

	published, err := snapshot.Published()
	require.NoError(t, err)
	require.True(t, published.Equal(time.Date(2024, time.July, 14, 19, 45, 0, 0, time.UTC)))
}

func TestParseSnapshotErrorOrder(t *testing.T) {
	// the table is looked for before the label
	_, err := ParseSnapshot(context.Background(), `<p>nothing here</p>`)
	var extractErr *ExtractionError
	require.True(t, errors.As(err, &extractErr))

	_, err = ParseSnapshot(context.Background(), `<table><tbody class="row-hover"></tbody></table>`)
	var notFound *TimestampNotFoundError
	require.True(t, errors.As(err, &notFound))
}
