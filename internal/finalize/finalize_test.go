package finalize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwsmith1983/causeway/internal/notify"
	"github.com/dwsmith1983/causeway/internal/store/memory"
	"github.com/dwsmith1983/causeway/pkg/cause"
	"github.com/dwsmith1983/causeway/pkg/interrupt"
	"github.com/dwsmith1983/causeway/pkg/types"
)

type bufferSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *bufferSink) WriteLine(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
}

func (s *bufferSink) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

func TestFinalizeRecordsAndAppliesStatus(t *testing.T) {
	mem := memory.New()
	sink := &bufferSink{}
	f := New(mem, sink)
	ctx := context.Background()

	sig := interrupt.New(types.StatusAborted, cause.UserInterruption{User: "alice"})
	status, err := f.Finalize(ctx, "run-1", fmt.Errorf("step 3: %w", sig))
	require.NoError(t, err)
	assert.Equal(t, types.StatusAborted, status)

	recs, err := mem.ListCauseRecords(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, []types.RecordedCause{{Kind: "user-interruption", Summary: "Aborted by alice"}}, recs[0].Causes)
	assert.Equal(t, []string{"Aborted by alice"}, sink.all())

	got, err := mem.GetRunStatus(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, types.StatusAborted, got)
}

func TestFinalizeIsIdempotentForCauses(t *testing.T) {
	mem := memory.New()
	sink := &bufferSink{}
	f := New(mem, sink)
	ctx := context.Background()

	sig := interrupt.New(types.StatusAborted, cause.Timeout{After: time.Minute})
	_, err := f.Finalize(ctx, "run-2", sig)
	require.NoError(t, err)
	_, err = f.Finalize(ctx, "run-2", sig)
	require.NoError(t, err)

	recs, err := mem.ListCauseRecords(ctx, "run-2")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, []string{"Timed out after 1m0s"}, sink.all())
}

func TestFinalizeMergesMostSevereStatus(t *testing.T) {
	mem := memory.New()
	f := New(mem, &bufferSink{})
	ctx := context.Background()

	status, err := f.Finalize(ctx, "run-3", interrupt.New(types.StatusAborted, cause.UserInterruption{User: "bob"}))
	require.NoError(t, err)
	assert.Equal(t, types.StatusAborted, status)

	// A milder concurrent interruption must not downgrade the run.
	status, err = f.Finalize(ctx, "run-3", interrupt.New(types.StatusUnstable, cause.Timeout{After: time.Second}))
	require.NoError(t, err)
	assert.Equal(t, types.StatusAborted, status)
}

func TestFinalizeNonSignalErrorIsFailure(t *testing.T) {
	mem := memory.New()
	sink := &bufferSink{}
	f := New(mem, sink)

	status, err := f.Finalize(context.Background(), "run-4", errors.New("worker crashed"))
	require.NoError(t, err)
	assert.Equal(t, types.StatusFailure, status)

	lines := sink.all()
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "worker crashed"))
}

func TestFinalizeNilErrorIsSuccess(t *testing.T) {
	mem := memory.New()
	f := New(mem, &bufferSink{})
	ctx := context.Background()

	status, err := f.Finalize(ctx, "run-5", nil)
	require.NoError(t, err)
	assert.Equal(t, types.StatusSuccess, status)

	recs, err := mem.ListCauseRecords(ctx, "run-5")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestFinalizeUnderlyingPrintedEveryTime(t *testing.T) {
	mem := memory.New()
	sink := &bufferSink{}
	f := New(mem, sink)
	ctx := context.Background()

	sig := interrupt.Wrap(types.StatusFailure, interrupt.NewAbort("disk full"), cause.ServiceShutdown{})
	_, err := f.Finalize(ctx, "run-6", sig)
	require.NoError(t, err)
	_, err = f.Finalize(ctx, "run-6", sig)
	require.NoError(t, err)

	assert.Equal(t, []string{"Interrupted by service shutdown", "disk full", "disk full"}, sink.all())
}

func TestFinalizeNotifiesOnNewCausesOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notify.jsonl")
	d, err := notify.NewDispatcher([]types.NotifyConfig{{Type: types.NotifyFile, Path: path}})
	require.NoError(t, err)

	mem := memory.New()
	f := New(mem, &bufferSink{}, WithDispatcher(d))
	ctx := context.Background()

	sig := interrupt.New(types.StatusAborted, cause.UserInterruption{User: "alice"})
	_, err = f.Finalize(ctx, "run-9", sig)
	require.NoError(t, err)
	_, err = f.Finalize(ctx, "run-9", sig)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var n types.Notification
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &n))
	assert.Equal(t, "run-9", n.RunID)
	assert.Equal(t, types.StatusAborted, n.Status)
	require.Len(t, n.Causes, 1)
	assert.Equal(t, "Aborted by alice", n.Causes[0].Summary)
}

func TestFinalizeConcurrentSameCauses(t *testing.T) {
	mem := memory.New()
	f := New(mem, &bufferSink{})
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sig := interrupt.New(types.StatusAborted, cause.UserInterruption{User: "alice"})
			_, errs[i] = f.Finalize(ctx, "run-7", sig)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	recs, err := mem.ListCauseRecords(ctx, "run-7")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestFinalizeLockHeldElsewhere(t *testing.T) {
	mem := memory.New()
	ctx := context.Background()

	ok, err := mem.AcquireLock(ctx, "run-8", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	f := New(mem, &bufferSink{})
	f.lockWait = 50 * time.Millisecond

	_, err = f.Finalize(ctx, "run-8", interrupt.New(types.StatusAborted))
	assert.ErrorContains(t, err, "lock")
}
