// Package finalize implements the run-finalization boundary: the single
// place where a propagated interruption signal is recovered, reconciled
// into the run's permanent record, and turned into a terminal status.
package finalize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dwsmith1983/causeway/internal/metrics"
	"github.com/dwsmith1983/causeway/internal/notify"
	"github.com/dwsmith1983/causeway/internal/store"
	"github.com/dwsmith1983/causeway/pkg/interrupt"
	"github.com/dwsmith1983/causeway/pkg/types"
)

// Finalization defaults.
const (
	defaultLockTTL  = 30 * time.Second
	defaultLockWait = 5 * time.Second
	lockRetryPause  = 100 * time.Millisecond
)

// Finalizer reconciles interruption signals against runs. It owns the
// per-run locking the reconciliation protocol requires: list-diff-append
// never interleaves with another finalizer of the same run.
type Finalizer struct {
	store      store.Store
	sink       interrupt.LogSink
	dispatcher *notify.Dispatcher
	logger     *slog.Logger
	lockTTL    time.Duration
	lockWait   time.Duration
}

// Option configures a Finalizer.
type Option func(*Finalizer)

// WithDispatcher enables notifications for newly recorded causes.
func WithDispatcher(d *notify.Dispatcher) Option {
	return func(f *Finalizer) { f.dispatcher = d }
}

// WithLockTTL overrides how long a finalization lock may be held.
func WithLockTTL(ttl time.Duration) Option {
	return func(f *Finalizer) { f.lockTTL = ttl }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Finalizer) { f.logger = l }
}

// New creates a Finalizer over the given store and run log sink.
func New(s store.Store, sink interrupt.LogSink, opts ...Option) *Finalizer {
	f := &Finalizer{
		store:    s,
		sink:     sink,
		logger:   slog.Default(),
		lockTTL:  defaultLockTTL,
		lockWait: defaultLockWait,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Finalize converts the error a run unwound with into its permanent record
// and terminal status, and returns the status now applied to the run.
//
// A *interrupt.Signal anywhere in the error chain is reconciled per the
// dedup protocol. Any other non-nil error is treated as an unexpected
// fault: FAILURE, with the error itself reported through the log sink. A
// nil error finalizes as SUCCESS. In every case the applied status is the
// most severe of the requested status and whatever an earlier finalization
// already applied.
func (f *Finalizer) Finalize(ctx context.Context, runID string, cause error) (types.TerminalStatus, error) {
	var sig *interrupt.Signal
	switch {
	case cause == nil:
		sig = interrupt.New(types.StatusSuccess)
	case !errors.As(cause, &sig):
		sig = interrupt.Wrap(types.StatusFailure, cause)
	}

	if err := f.acquireLock(ctx, runID); err != nil {
		return "", err
	}
	defer func() {
		if err := f.store.ReleaseLock(ctx, runID); err != nil {
			f.logger.Warn("releasing finalization lock", "runID", runID, "error", err)
		}
	}()

	before, err := f.store.ListCauseRecords(ctx, runID)
	if err != nil {
		return "", fmt.Errorf("listing cause records: %w", err)
	}

	run := store.BindRun(f.store, runID)
	if err := sig.Handle(ctx, run, f.sink); err != nil {
		return "", fmt.Errorf("handling interruption for run %s: %w", runID, err)
	}
	metrics.SignalsHandled.Add(1)

	status, err := f.applyStatus(ctx, runID, sig.Status())
	if err != nil {
		return "", err
	}

	f.report(ctx, runID, status, sig, len(before))
	return status, nil
}

// acquireLock takes the per-run lock, retrying briefly on contention.
func (f *Finalizer) acquireLock(ctx context.Context, runID string) error {
	deadline := time.Now().Add(f.lockWait)
	for {
		ok, err := f.store.AcquireLock(ctx, runID, f.lockTTL)
		if err != nil {
			return fmt.Errorf("acquiring finalization lock: %w", err)
		}
		if ok {
			return nil
		}
		metrics.LockContention.Add(1)
		if time.Now().After(deadline) {
			return fmt.Errorf("finalization lock for run %s held elsewhere", runID)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryPause):
		}
	}
}

// applyStatus merges the requested status with any previously applied one;
// the most severe status wins.
func (f *Finalizer) applyStatus(ctx context.Context, runID string, requested types.TerminalStatus) (types.TerminalStatus, error) {
	status := requested
	current, err := f.store.GetRunStatus(ctx, runID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// first finalization of this run
	case err != nil:
		return "", fmt.Errorf("getting run status: %w", err)
	default:
		status = types.WorseOf(current, requested)
	}

	if err := f.store.PutRunStatus(ctx, runID, status); err != nil {
		return "", fmt.Errorf("putting run status: %w", err)
	}
	return status, nil
}

// report updates counters and, when a new record landed, notifies.
func (f *Finalizer) report(ctx context.Context, runID string, status types.TerminalStatus, sig *interrupt.Signal, recordsBefore int) {
	after, err := f.store.ListCauseRecords(ctx, runID)
	if err != nil {
		f.logger.Warn("listing cause records after handle", "runID", runID, "error", err)
		return
	}
	if len(after) <= recordsBefore {
		metrics.CausesDeduplicated.Add(int64(len(sig.Causes())))
		return
	}

	newest := after[len(after)-1]
	metrics.RecordsAppended.Add(1)
	metrics.CausesRecorded.Add(int64(len(newest.Causes)))
	metrics.CausesDeduplicated.Add(int64(len(sig.Causes()) - len(newest.Causes)))

	f.logger.Info("recorded interruption causes",
		"runID", runID,
		"status", status,
		"causes", len(newest.Causes),
	)

	if f.dispatcher != nil {
		f.dispatcher.Dispatch(ctx, types.Notification{
			RunID:     runID,
			Status:    status,
			Causes:    newest.Causes,
			Timestamp: newest.RecordedAt,
		})
	}
}
