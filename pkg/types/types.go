package types

import "time"

// RecordedCause is the serializable identity of an interruption cause.
// Two causes are the same cause iff their Kind and Summary are equal;
// this is the structural equality used for deduplication.
type RecordedCause struct {
	Kind    string `json:"kind"`
	Summary string `json:"summary"`
}

// Key returns the dedup key for the cause.
func (c RecordedCause) Key() string {
	return c.Kind + "\x1f" + c.Summary
}

// CauseRecord is one append-only entry in a run's permanent interruption
// record. Records are never rewritten or reordered once appended.
type CauseRecord struct {
	ID         string          `json:"id"`
	RecordedAt time.Time       `json:"recorded_at"`
	Causes     []RecordedCause `json:"causes"`
}

// Notification is dispatched to notify sinks when reconciliation binds
// new causes to a run.
type Notification struct {
	RunID     string          `json:"run_id"`
	Status    TerminalStatus  `json:"status"`
	Causes    []RecordedCause `json:"causes"`
	Timestamp time.Time       `json:"timestamp"`
}
