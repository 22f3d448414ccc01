package outage

import (
	"context"
	"errors"
	"testing"
	"time"

	"outage-scraper/internal/telemetry"
	"outage-scraper/lib/testutil"
	"outage-scraper/services/outage/db"

	"github.com/stretchr/testify/require"
)

func setupStore(t testing.TB) (SQLStore, *telemetry.Recorder) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/outage",
		DbSchema: db.Schema,
	})
	t.Cleanup(cleanup)

	rec := telemetry.NewRecorder()
	return NewSQLStore(setup.DB, rec), rec
}

func TestSQLStore(t *testing.T) {
	store, rec := setupStore(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	_, ok, err := store.LatestTimestamp(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	rows := []StoredRow{
		{
			Counts: map[string]int64{
				"sanjuan_restored_customers": 1000,
				"sanjuan_total_customers":    2000,
				"sanjuan_percent_restored":   50,
			},
			PublishedTimestamp: "2025-01-01T13:00:00",
			Timestamp:          "2025-01-01T13:05:00.000000-04:00",
		},
		{
			Counts: map[string]int64{
				"ponce_restored_customers": 1,
			},
			PublishedTimestamp: "2025-01-01T14:00:00",
			Timestamp:          "2025-01-01T14:05:00.000000-04:00",
		},
	}
	for _, row := range rows {
		require.NoError(t, store.Insert(ctx, row))
	}
	require.Empty(t, rec.Reports("warning", report_sql_store_drift))

	latest, ok, err := store.LatestTimestamp(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2025-01-01T14:05:00.000000-04:00", latest)

	recent, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent.Rows, 1)
	require.Contains(t, recent.Columns, "sanjuan_percent_restored")
}

func TestSQLStoreUnknownColumn(t *testing.T) {
	store, rec := setupStore(t)
	ctx := context.Background()

	err := store.Insert(ctx, StoredRow{
		Counts: map[string]int64{
			"sanjuans_restored_customers": 1,
		},
		PublishedTimestamp: "2025-01-01T13:00:00",
		Timestamp:          "2025-01-01T13:05:00.000000-04:00",
	})

	var writeErr *StoreWriteError
	require.True(t, errors.As(err, &writeErr))
	require.Len(t, rec.Reports("broken", report_sql_store_insert), 1)

	drift := rec.Reports("warning", report_sql_store_drift)
	require.Len(t, drift, 1)
	require.Contains(t, drift[0].Params, "sanjuan_restored_customers")

	_, ok, err := store.LatestTimestamp(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSQLStoreRunLog(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	_, ok, err := store.LastRun(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	runs := []RunLog{
		{
			RunID:              "aaaaaaaa",
			StartedAt:          "2025-01-01T13:05:00.000000-04:00",
			FinishedAt:         "2025-01-01T13:05:01.000000-04:00",
			Status:             StatusInserted,
			PublishedTimestamp: "2025-01-01T13:00:00",
		},
		{
			RunID:      "bbbbbbbb",
			StartedAt:  "2025-01-01T14:05:00.000000-04:00",
			FinishedAt: "2025-01-01T14:05:01.000000-04:00",
			Status:     StatusFailed,
			Error:      "fetch: unexpected status 403",
		},
	}
	for _, run := range runs {
		require.NoError(t, store.RecordRun(ctx, run))
	}

	last, ok, err := store.LastRun(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, runs[1], last)
}
