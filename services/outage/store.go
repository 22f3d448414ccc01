package outage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"outage-scraper/internal/telemetry"
	"outage-scraper/lib/textutil"
	"outage-scraper/services/outage/db"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_sql_store_insert = "sql_store.insert"
	report_sql_store_drift  = "sql_store.schema-drift"
)

// Store is what the pipeline needs from persistence.
//
// note: fault injection point
type Store interface {
	// LatestTimestamp returns the newest capture timestamp, ok is false
	// when nothing has been stored yet.
	LatestTimestamp(ctx context.Context) (value string, ok bool, err error)
	Insert(ctx context.Context, row StoredRow) error
	RecordRun(ctx context.Context, run RunLog) error
}

type SQLStore struct {
	db  *sql.DB
	qry *db.Queries
	tel telemetry.API
}

func NewSQLStore(database *sql.DB, tel telemetry.API) SQLStore {
	return SQLStore{
		db:  database,
		qry: db.New(database),
		tel: tel,
	}
}

func (s SQLStore) LatestTimestamp(ctx context.Context) (string, bool, error) {
	ctx, span := tracer.Start(ctx, "SQLStore.LatestTimestamp")
	defer span.End()

	value, err := s.qry.GetLatestTimestamp(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", false, &StoreReadError{Err: err}
	}

	span.SetAttributes(attribute.String("timestamp", value))
	return value, true, nil
}

// Columns lists the columns of outage_by_region.
func (s SQLStore) Columns(ctx context.Context) ([]string, error) {
	columns, err := s.qry.GetOutageColumns(ctx)
	if err != nil {
		return nil, &StoreReadError{Err: err}
	}
	return columns, nil
}

// warnDrift reports every row column the table does not have along with
// the closest existing column, this usually means a region was renamed
// on the page.
func (s SQLStore) warnDrift(ctx context.Context, columns []string) {
	known, err := s.Columns(ctx)
	if err != nil {
		s.tel.ReportWarning(report_sql_store_drift, fmt.Errorf("list columns: %w", err))
		return
	}
	if len(known) == 0 {
		return
	}

	existing := make(map[string]struct{}, len(known))
	for _, c := range known {
		existing[c] = struct{}{}
	}
	for _, c := range columns {
		if _, ok := existing[c]; ok {
			continue
		}
		closest, score := textutil.MostSimilar(c, known)
		s.tel.ReportWarning(
			report_sql_store_drift,
			fmt.Sprintf("unknown column %q", c),
			"closest", closest,
			"similarity", score,
		)
	}
}

func (s SQLStore) Insert(ctx context.Context, row StoredRow) error {
	ctx, span := tracer.Start(ctx, "SQLStore.Insert")
	defer span.End()

	columns, values := row.Columns()
	span.SetAttributes(attribute.Int("columns", len(columns)))

	s.warnDrift(ctx, columns)

	err := s.qry.InsertOutageRow(ctx, columns, values)
	if err != nil {
		s.tel.ReportBroken(report_sql_store_insert, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return &StoreWriteError{Err: err}
	}
	return nil
}

func (s SQLStore) RecordRun(ctx context.Context, run RunLog) error {
	ctx, span := tracer.Start(ctx, "SQLStore.RecordRun")
	defer span.End()

	err := s.qry.CreateScrapeRun(ctx, run.params())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return &StoreWriteError{Err: err}
	}
	return nil
}

// LastRun returns the most recently recorded run.
func (s SQLStore) LastRun(ctx context.Context) (RunLog, bool, error) {
	row, err := s.qry.GetLastScrapeRun(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return RunLog{}, false, nil
	}
	if err != nil {
		return RunLog{}, false, &StoreReadError{Err: err}
	}
	return runLogFromRow(row), true, nil
}

// Recent returns up to n of the newest stored rows.
func (s SQLStore) Recent(ctx context.Context, n int) (db.OutageRows, error) {
	rows, err := s.qry.ListRecentOutageRows(ctx, n)
	if err != nil {
		return db.OutageRows{}, &StoreReadError{Err: err}
	}
	return rows, nil
}
