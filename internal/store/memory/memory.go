// Package memory implements the Store interface with in-process maps.
// It backs tests and the single-process CLI path.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dwsmith1983/causeway/internal/store"
	"github.com/dwsmith1983/causeway/pkg/types"
)

// Compile-time interface satisfaction check.
var _ store.Store = (*MemoryStore)(nil)

// MemoryStore is a mutex-guarded in-memory Store.
type MemoryStore struct {
	mu       sync.Mutex
	records  map[string][]types.CauseRecord
	statuses map[string]types.TerminalStatus
	locks    map[string]time.Time // lock key -> expiry
}

// New creates an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{
		records:  make(map[string][]types.CauseRecord),
		statuses: make(map[string]types.TerminalStatus),
		locks:    make(map[string]time.Time),
	}
}

// ListCauseRecords returns the run's records in append order.
func (m *MemoryStore) ListCauseRecords(_ context.Context, runID string) ([]types.CauseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recs := m.records[runID]
	out := make([]types.CauseRecord, len(recs))
	copy(out, recs)
	return out, nil
}

// AppendCauseRecord appends one record to the run.
func (m *MemoryStore) AppendCauseRecord(_ context.Context, runID string, rec types.CauseRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[runID] = append(m.records[runID], rec)
	return nil
}

// GetRunStatus returns the run's terminal status, or ErrNotFound.
func (m *MemoryStore) GetRunStatus(_ context.Context, runID string) (types.TerminalStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status, ok := m.statuses[runID]
	if !ok {
		return "", store.ErrNotFound
	}
	return status, nil
}

// PutRunStatus applies a terminal status to the run.
func (m *MemoryStore) PutRunStatus(_ context.Context, runID string, status types.TerminalStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[runID] = status
	return nil
}

// AcquireLock takes the named lock if free or expired.
func (m *MemoryStore) AcquireLock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if expiry, held := m.locks[key]; held && time.Now().Before(expiry) {
		return false, nil
	}
	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

// ReleaseLock frees the named lock.
func (m *MemoryStore) ReleaseLock(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, key)
	return nil
}

// Start is a no-op.
func (m *MemoryStore) Start(_ context.Context) error { return nil }

// Stop is a no-op.
func (m *MemoryStore) Stop(_ context.Context) error { return nil }

// Ping is a no-op.
func (m *MemoryStore) Ping(_ context.Context) error { return nil }
