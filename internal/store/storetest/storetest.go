// Package storetest provides shared conformance tests for store.Store
// implementations. Call RunAll from a test function to verify a backend
// satisfies the behavioral contract finalization depends on.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dwsmith1983/causeway/internal/store"
	"github.com/dwsmith1983/causeway/pkg/interrupt"
	"github.com/dwsmith1983/causeway/pkg/types"
)

// RunAll runs the complete store conformance suite as subtests.
func RunAll(t *testing.T, s store.Store) {
	t.Helper()

	t.Run("RecordAppendAndList", func(t *testing.T) { TestRecordAppendAndList(t, s) })
	t.Run("RecordIsolationBetweenRuns", func(t *testing.T) { TestRecordIsolationBetweenRuns(t, s) })
	t.Run("StatusPutGet", func(t *testing.T) { TestStatusPutGet(t, s) })
	t.Run("StatusMissing", func(t *testing.T) { TestStatusMissing(t, s) })
	t.Run("Locking", func(t *testing.T) { TestLocking(t, s) })
	t.Run("LockExpiry", func(t *testing.T) { TestLockExpiry(t, s) })
	t.Run("ConcurrentLockExclusion", func(t *testing.T) { TestConcurrentLockExclusion(t, s) })
	t.Run("BoundRunRoundTrip", func(t *testing.T) { TestBoundRunRoundTrip(t, s) })
}

func runID(name string) string {
	return fmt.Sprintf("storetest-%s-%d", name, time.Now().UnixNano())
}

func record(causes ...types.RecordedCause) types.CauseRecord {
	rec := interrupt.NewCauseRecord(nil)
	rec.Causes = causes
	return rec
}

// TestRecordAppendAndList verifies append order is preserved on listing.
func TestRecordAppendAndList(t *testing.T, s store.Store) {
	ctx := context.Background()
	id := runID("append")

	recs, err := s.ListCauseRecords(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, recs)

	first := record(types.RecordedCause{Kind: "user-interruption", Summary: "Aborted by alice"})
	second := record(
		types.RecordedCause{Kind: "timeout", Summary: "Timed out after 5m0s"},
		types.RecordedCause{Kind: "upstream-failure", Summary: "Upstream run r-9 failed"},
	)

	require.NoError(t, s.AppendCauseRecord(ctx, id, first))
	require.NoError(t, s.AppendCauseRecord(ctx, id, second))

	recs, err = s.ListCauseRecords(ctx, id)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, first.ID, recs[0].ID)
	assert.Equal(t, first.Causes, recs[0].Causes)
	assert.Equal(t, second.ID, recs[1].ID)
	assert.Equal(t, second.Causes, recs[1].Causes)
}

// TestRecordIsolationBetweenRuns verifies records never leak across runs.
func TestRecordIsolationBetweenRuns(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := runID("iso-a")
	b := runID("iso-b")

	require.NoError(t, s.AppendCauseRecord(ctx, a, record(types.RecordedCause{Kind: "k", Summary: "only in a"})))

	recs, err := s.ListCauseRecords(ctx, b)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

// TestStatusPutGet verifies terminal status round-trips and overwrites.
func TestStatusPutGet(t *testing.T, s store.Store) {
	ctx := context.Background()
	id := runID("status")

	require.NoError(t, s.PutRunStatus(ctx, id, types.StatusFailure))
	got, err := s.GetRunStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.StatusFailure, got)

	require.NoError(t, s.PutRunStatus(ctx, id, types.StatusAborted))
	got, err = s.GetRunStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.StatusAborted, got)
}

// TestStatusMissing verifies the ErrNotFound contract.
func TestStatusMissing(t *testing.T, s store.Store) {
	_, err := s.GetRunStatus(context.Background(), runID("missing"))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// TestLocking verifies a held lock excludes other acquirers until released.
func TestLocking(t *testing.T, s store.Store) {
	ctx := context.Background()
	key := runID("lock")

	ok, err := s.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.ReleaseLock(ctx, key))

	ok, err = s.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, s.ReleaseLock(ctx, key))
}

// TestLockExpiry verifies an expired lock can be retaken.
func TestLockExpiry(t *testing.T, s store.Store) {
	ctx := context.Background()
	key := runID("expiry")

	ok, err := s.AcquireLock(ctx, key, 50*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(1100 * time.Millisecond) // past second-resolution TTLs

	ok, err = s.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, s.ReleaseLock(ctx, key))
}

// TestConcurrentLockExclusion verifies at most one of N concurrent
// acquirers wins.
func TestConcurrentLockExclusion(t *testing.T, s store.Store) {
	ctx := context.Background()
	key := runID("race")

	const n = 8
	wins := make(chan struct{}, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			ok, err := s.AcquireLock(ctx, key, time.Minute)
			if err != nil {
				return err
			}
			if ok {
				wins <- struct{}{}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	close(wins)

	count := 0
	for range wins {
		count++
	}
	assert.Equal(t, 1, count)
	require.NoError(t, s.ReleaseLock(ctx, key))
}

// TestBoundRunRoundTrip drives the reconciliation protocol end to end
// against the backend.
func TestBoundRunRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	id := runID("bound")
	run := store.BindRun(s, id)

	rec := record(types.RecordedCause{Kind: "service-shutdown", Summary: "Interrupted by service shutdown"})
	require.NoError(t, run.AppendCauseRecord(ctx, rec))

	recs, err := run.ListCauseRecords(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, rec.Causes, recs[0].Causes)
}
