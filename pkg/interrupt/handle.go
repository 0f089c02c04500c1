package interrupt

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/dwsmith1983/causeway/pkg/types"
)

// Run is the view of a run the reconciliation protocol needs: read access
// to its previously recorded cause records and a way to append one more.
//
// Append must be effectively atomic with respect to concurrent handlers of
// the same run (per-run lock or transactional append); a reader computing
// the already-recorded union must see a consistent snapshot. The store
// collaborator provides that guarantee, not this package.
type Run interface {
	ListCauseRecords(ctx context.Context) ([]types.CauseRecord, error)
	AppendCauseRecord(ctx context.Context, rec types.CauseRecord) error
}

// NewCauseRecord builds an append-ready record from causes, preserving
// their order.
func NewCauseRecord(causes []Cause) types.CauseRecord {
	rec := types.CauseRecord{
		ID:         ulid.Make().String(),
		RecordedAt: time.Now().UTC(),
		Causes:     make([]types.RecordedCause, 0, len(causes)),
	}
	for _, c := range causes {
		rec.Causes = append(rec.Causes, Identity(c))
	}
	return rec
}

// Handle reconciles the signal against the run's permanent record. A run
// that catches a signal should call this exactly once per raise, though
// repeated calls are harmless for causes: only causes not yet bound to the
// run are appended, as a single new record, and printed to the sink in
// their original order. The underlying and suppressed errors are printed
// on every call.
//
// Store failures from the run collaborator propagate to the caller
// unchanged in meaning; nothing is retried or swallowed here.
func (s *Signal) Handle(ctx context.Context, run Run, sink LogSink) error {
	records, err := run.ListCauseRecords(ctx)
	if err != nil {
		return fmt.Errorf("listing cause records: %w", err)
	}

	bound := make(map[string]struct{})
	for _, rec := range records {
		for _, c := range rec.Causes {
			bound[c.Key()] = struct{}{}
		}
	}

	// Ordered set difference. Duplicates within the signal itself
	// collapse to their first occurrence.
	var fresh []Cause
	seen := make(map[string]struct{})
	for _, c := range s.causes {
		k := causeKey(c)
		if _, ok := bound[k]; ok {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		fresh = append(fresh, c)
	}

	if len(fresh) > 0 {
		if err := run.AppendCauseRecord(ctx, NewCauseRecord(fresh)); err != nil {
			return fmt.Errorf("appending cause record: %w", err)
		}
		for _, c := range fresh {
			c.Print(sink)
		}
	}

	PrintError(s.underlying, sink)
	for _, e := range s.suppressed {
		PrintError(e, sink)
	}
	return nil
}
