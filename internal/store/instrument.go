package store

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/dwsmith1983/causeway/pkg/types"
)

const scopeName = "github.com/dwsmith1983/causeway/internal/store"

// instrumented wraps a Store with OpenTelemetry spans and counters.
type instrumented struct {
	next    Store
	tracer  trace.Tracer
	lists   metric.Int64Counter
	appends metric.Int64Counter
}

// Instrument returns a Store that traces every call and counts record
// reads/appends. It uses the globally registered providers, so it is a
// no-op passthrough until telemetry.Init has run.
func Instrument(next Store) Store {
	meter := otel.Meter(scopeName)
	lists, _ := meter.Int64Counter("causeway.store.record_lists")
	appends, _ := meter.Int64Counter("causeway.store.record_appends")
	return &instrumented{
		next:    next,
		tracer:  otel.Tracer(scopeName),
		lists:   lists,
		appends: appends,
	}
}

func (s *instrumented) span(ctx context.Context, name, runID string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("run.id", runID)))
}

func (s *instrumented) ListCauseRecords(ctx context.Context, runID string) ([]types.CauseRecord, error) {
	ctx, span := s.span(ctx, "store.ListCauseRecords", runID)
	defer span.End()
	recs, err := s.next.ListCauseRecords(ctx, runID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.lists.Add(ctx, 1)
	return recs, nil
}

func (s *instrumented) AppendCauseRecord(ctx context.Context, runID string, rec types.CauseRecord) error {
	ctx, span := s.span(ctx, "store.AppendCauseRecord", runID)
	defer span.End()
	if err := s.next.AppendCauseRecord(ctx, runID, rec); err != nil {
		span.RecordError(err)
		return err
	}
	s.appends.Add(ctx, 1, metric.WithAttributes(attribute.Int("causes", len(rec.Causes))))
	return nil
}

func (s *instrumented) GetRunStatus(ctx context.Context, runID string) (types.TerminalStatus, error) {
	ctx, span := s.span(ctx, "store.GetRunStatus", runID)
	defer span.End()
	return s.next.GetRunStatus(ctx, runID)
}

func (s *instrumented) PutRunStatus(ctx context.Context, runID string, status types.TerminalStatus) error {
	ctx, span := s.span(ctx, "store.PutRunStatus", runID)
	defer span.End()
	if err := s.next.PutRunStatus(ctx, runID, status); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (s *instrumented) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ctx, span := s.span(ctx, "store.AcquireLock", key)
	defer span.End()
	return s.next.AcquireLock(ctx, key, ttl)
}

func (s *instrumented) ReleaseLock(ctx context.Context, key string) error {
	ctx, span := s.span(ctx, "store.ReleaseLock", key)
	defer span.End()
	return s.next.ReleaseLock(ctx, key)
}

func (s *instrumented) Start(ctx context.Context) error { return s.next.Start(ctx) }
func (s *instrumented) Stop(ctx context.Context) error  { return s.next.Stop(ctx) }
func (s *instrumented) Ping(ctx context.Context) error  { return s.next.Ping(ctx) }
