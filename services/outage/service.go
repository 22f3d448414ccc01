package outage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"outage-scraper/internal/chrono"
	"outage-scraper/internal/scrapers/luma"
	"outage-scraper/internal/telemetry"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

const (
	report_service_run      = "service.run"
	report_service_run_log  = "service.run-log"
	report_service_is_fresh = "service.is-fresh"
	report_service_validate = "service.validate"
)

// Fetcher produces a snapshot of the outage page.
//
// note: fault injection point
type Fetcher interface {
	Scrape(ctx context.Context) (luma.Snapshot, error)
}

// Result is the outcome of a single run. Status is StatusFailed exactly
// when Run also returns an error.
type Result struct {
	RunID    string
	Status   Status
	Snapshot luma.Snapshot
	// Row is set when the snapshot passed both gates.
	Row StoredRow
	// Reason explains an invalid or stale outcome.
	Reason error
}

type Options struct {
	// DryRun skips the insert and the run log.
	DryRun bool
}

type Service struct {
	fetcher Fetcher
	store   Store
	time    chrono.TimeAPI
	tel     telemetry.API
	opts    Options
}

func NewService(fetcher Fetcher, store Store, clock chrono.TimeAPI, tel telemetry.API, opts Options) Service {
	return Service{
		fetcher: fetcher,
		store:   store,
		time:    clock,
		tel:     tel,
		opts:    opts,
	}
}

// IsFresh reports whether the published time is strictly after the newest
// stored capture time, an empty store is always fresh.
func (s Service) IsFresh(ctx context.Context, published string) (bool, error) {
	ctx, span := tracer.Start(ctx, "IsFresh")
	defer span.End()

	latest, ok, err := s.store.LatestTimestamp(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	if !ok {
		s.tel.ReportDebug("no stored rows yet")
		return true, nil
	}

	stored, err := ParseStoredTimestamp(latest)
	if err != nil {
		err = &StoreReadError{Err: fmt.Errorf("parse stored timestamp %q: %w", latest, err)}
		s.tel.ReportBroken(report_service_is_fresh, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	pub, err := luma.Snapshot{PublishedTimestamp: published}.Published()
	if err != nil {
		err = &luma.TimestampParseError{Label: published, Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	s.tel.ReportDebug("last stored timestamp", latest)
	fresh := pub.After(stored)
	span.SetAttributes(
		attribute.String("stored", latest),
		attribute.String("published", published),
		attribute.Bool("fresh", fresh),
	)
	return fresh, nil
}

// Run performs one pass of fetch, validate, freshness check, transform
// and insert. Invalid or stale data is an expected outcome and is
// returned with a nil error.
func (s Service) Run(ctx context.Context) (Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	runID, err := random.String(8)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to generate run id")
		return Result{Status: StatusFailed}, err
	}
	span.SetAttributes(attribute.String("run_id", runID))

	started := s.time.Now()
	result, err := s.run(ctx, runID)
	result.RunID = runID

	span.SetAttributes(attribute.String("status", string(result.Status)))
	if err != nil {
		s.tel.ReportBroken(report_service_run, err, runID)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	runsCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", string(result.Status)),
	))

	if !s.opts.DryRun {
		s.recordRun(ctx, started, result, err)
	}
	return result, err
}

func (s Service) run(ctx context.Context, runID string) (Result, error) {
	s.tel.ReportDebug("starting run", runID)

	snapshot, err := s.fetcher.Scrape(ctx)
	if err != nil {
		return Result{Status: StatusFailed}, err
	}
	result := Result{Snapshot: snapshot}
	regionsCounter.Add(ctx, int64(len(snapshot.Regions)))

	validErr := Validate(snapshot.Regions)
	if validErr != nil {
		s.tel.ReportWarning(report_service_validate, validErr)
	} else {
		s.tel.ReportDebug("data validated", len(snapshot.Regions))
	}

	fresh, err := s.IsFresh(ctx, snapshot.PublishedTimestamp)
	if err != nil {
		result.Status = StatusFailed
		return result, err
	}
	if fresh {
		s.tel.ReportDebug("data is new", snapshot.PublishedTimestamp)
	} else {
		s.tel.ReportDebug("data is not new", snapshot.PublishedTimestamp)
	}

	if validErr != nil {
		result.Status = StatusInvalid
		result.Reason = validErr
		return result, nil
	}
	if !fresh {
		result.Status = StatusStale
		result.Reason = fmt.Errorf("published %s is not newer than the last stored row", snapshot.PublishedTimestamp)
		return result, nil
	}

	row, err := Transform(snapshot, s.time.Now())
	if err != nil {
		result.Status = StatusFailed
		return result, err
	}
	result.Row = row

	if s.opts.DryRun {
		result.Status = StatusWouldInsert
		return result, nil
	}

	err = s.store.Insert(ctx, row)
	if err != nil {
		result.Status = StatusFailed
		return result, err
	}
	s.tel.ReportDebug("inserted row", row.PublishedTimestamp, row.Timestamp)

	result.Status = StatusInserted
	return result, nil
}

// recordRun writes the run log, failing to do so does not change the
// outcome of the run.
func (s Service) recordRun(ctx context.Context, started time.Time, result Result, runErr error) {
	log := RunLog{
		RunID:              result.RunID,
		StartedAt:          FormatTimestamp(started),
		FinishedAt:         FormatTimestamp(s.time.Now()),
		Status:             result.Status,
		PublishedTimestamp: result.Snapshot.PublishedTimestamp,
	}
	switch {
	case runErr != nil:
		log.Error = runErr.Error()
	case result.Reason != nil:
		log.Error = result.Reason.Error()
	}

	// the run log is written even when ctx was cancelled mid run
	err := s.store.RecordRun(context.WithoutCancel(ctx), log)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.tel.ReportWarning(report_service_run_log, err)
	}
}
