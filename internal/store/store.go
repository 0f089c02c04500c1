// Package store defines the cause-record storage backend interface for
// Causeway. Backends keep each run's append-only cause records, its merged
// terminal status, and the per-run locks finalization relies on.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/dwsmith1983/causeway/pkg/interrupt"
	"github.com/dwsmith1983/causeway/pkg/types"
)

// ErrNotFound is returned when a run has no stored value for the requested
// item (e.g. no terminal status applied yet).
var ErrNotFound = errors.New("not found")

// Store is the storage backend interface. Implementations must make
// AppendCauseRecord durable and must make Acquire/ReleaseLock provide
// mutual exclusion so that list-diff-append against one run is never
// interleaved with another handler's.
type Store interface {
	// Cause records — append-only per run, listed in append order.
	ListCauseRecords(ctx context.Context, runID string) ([]types.CauseRecord, error)
	AppendCauseRecord(ctx context.Context, runID string, rec types.CauseRecord) error

	// Terminal status. GetRunStatus returns ErrNotFound until a status
	// has been applied.
	GetRunStatus(ctx context.Context, runID string) (types.TerminalStatus, error)
	PutRunStatus(ctx context.Context, runID string, status types.TerminalStatus) error

	// Per-run locking for finalization.
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error

	// Lifecycle
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Ping(ctx context.Context) error
}

// boundRun adapts one run of a Store to the reconciliation protocol's Run
// interface.
type boundRun struct {
	store Store
	runID string
}

// BindRun returns the interrupt.Run view of a single run.
func BindRun(s Store, runID string) interrupt.Run {
	return boundRun{store: s, runID: runID}
}

func (r boundRun) ListCauseRecords(ctx context.Context) ([]types.CauseRecord, error) {
	return r.store.ListCauseRecords(ctx, r.runID)
}

func (r boundRun) AppendCauseRecord(ctx context.Context, rec types.CauseRecord) error {
	return r.store.AppendCauseRecord(ctx, r.runID, rec)
}
