package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const getLatestTimestamp = `-- name: GetLatestTimestamp :one
select timestamp from outage_by_region
order by timestamp desc
limit 1
`

func (q *Queries) GetLatestTimestamp(ctx context.Context) (string, error) {
	row := q.db.QueryRowContext(ctx, getLatestTimestamp)
	var timestamp string
	err := row.Scan(&timestamp)
	return timestamp, err
}

const getOutageColumns = `-- name: GetOutageColumns :many
select name from pragma_table_info('outage_by_region')
`

func (q *Queries) GetOutageColumns(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, getOutageColumns)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		items = append(items, name)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// QuoteIdent quotes a column name for use in a statement.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// InsertOutageRow inserts one row with the given columns, the column set is
// not known ahead of time so the statement is built per call.
func (q *Queries) InsertOutageRow(ctx context.Context, columns []string, values []any) error {
	if len(columns) != len(values) {
		return fmt.Errorf("%d columns but %d values", len(columns), len(values))
	}
	if len(columns) == 0 {
		return fmt.Errorf("no columns to insert")
	}

	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = QuoteIdent(c)
		placeholders[i] = "?"
	}

	stmt := fmt.Sprintf(
		"insert into outage_by_region (%s) values (%s)",
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)
	_, err := q.db.ExecContext(ctx, stmt, values...)
	return err
}

type OutageRows struct {
	Columns []string
	Rows    [][]any
}

const listRecentOutageRows = `-- name: ListRecentOutageRows :many
select * from outage_by_region
order by timestamp desc
limit ?
`

func (q *Queries) ListRecentOutageRows(ctx context.Context, limit int) (OutageRows, error) {
	rows, err := q.db.QueryContext(ctx, listRecentOutageRows, limit)
	if err != nil {
		return OutageRows{}, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return OutageRows{}, err
	}

	out := OutageRows{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return OutageRows{}, err
		}
		out.Rows = append(out.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return OutageRows{}, err
	}
	return out, nil
}

const createScrapeRun = `-- name: CreateScrapeRun :exec
insert into scrape_runs (run_id, started_at, finished_at, status, published_timestamp, error)
values (?, ?, ?, ?, ?, ?)
`

type CreateScrapeRunParams struct {
	RunID              string
	StartedAt          string
	FinishedAt         string
	Status             string
	PublishedTimestamp sql.NullString
	Error              sql.NullString
}

func (q *Queries) CreateScrapeRun(ctx context.Context, arg CreateScrapeRunParams) error {
	_, err := q.db.ExecContext(ctx, createScrapeRun,
		arg.RunID,
		arg.StartedAt,
		arg.FinishedAt,
		arg.Status,
		arg.PublishedTimestamp,
		arg.Error,
	)
	return err
}

const getLastScrapeRun = `-- name: GetLastScrapeRun :one
select run_id, started_at, finished_at, status, published_timestamp, error from scrape_runs
order by id desc
limit 1
`

type ScrapeRun struct {
	RunID              string
	StartedAt          string
	FinishedAt         string
	Status             string
	PublishedTimestamp sql.NullString
	Error              sql.NullString
}

func (q *Queries) GetLastScrapeRun(ctx context.Context) (ScrapeRun, error) {
	row := q.db.QueryRowContext(ctx, getLastScrapeRun)
	var i ScrapeRun
	err := row.Scan(
		&i.RunID,
		&i.StartedAt,
		&i.FinishedAt,
		&i.Status,
		&i.PublishedTimestamp,
		&i.Error,
	)
	return i, err
}
