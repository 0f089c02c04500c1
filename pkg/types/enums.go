// Package types defines the public domain types for Causeway.
package types

// TerminalStatus represents the final outcome classification applied to a run.
type TerminalStatus string

// TerminalStatus values, ordered from best to worst outcome.
const (
	StatusSuccess  TerminalStatus = "SUCCESS"
	StatusUnstable TerminalStatus = "UNSTABLE"
	StatusFailure  TerminalStatus = "FAILURE"
	StatusNotBuilt TerminalStatus = "NOT_BUILT"
	StatusAborted  TerminalStatus = "ABORTED"
)

// severity table; higher is worse.
var severities = map[TerminalStatus]int{
	StatusSuccess:  0,
	StatusUnstable: 1,
	StatusFailure:  2,
	StatusNotBuilt: 3,
	StatusAborted:  4,
}

// Severity returns the badness rank of a status. Unknown statuses rank
// below SUCCESS so they never win a merge.
func (s TerminalStatus) Severity() int {
	if sev, ok := severities[s]; ok {
		return sev
	}
	return -1
}

// IsValid reports whether s is one of the defined terminal statuses.
func (s TerminalStatus) IsValid() bool {
	_, ok := severities[s]
	return ok
}

// WorseOf returns the more severe of two statuses. When two concurrent
// interruptions request different statuses for the same run, the most
// severe one wins.
func WorseOf(a, b TerminalStatus) TerminalStatus {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}

// StoreType selects the cause-record storage backend.
type StoreType string

// StoreType values enumerate the supported storage backends.
const (
	StoreMemory   StoreType = "memory"
	StoreRedis    StoreType = "redis"
	StoreDynamoDB StoreType = "dynamodb"
)

// SinkType selects the run log sink backend.
type SinkType string

// SinkType values enumerate the supported log sink backends.
const (
	SinkConsole    SinkType = "console"
	SinkFile       SinkType = "file"
	SinkCloudWatch SinkType = "cloudwatch"
)

// NotifyType selects a notification sink backend.
type NotifyType string

// NotifyType values enumerate the supported notification sinks.
const (
	NotifyConsole NotifyType = "console"
	NotifyFile    NotifyType = "file"
	NotifyWebhook NotifyType = "webhook"
	NotifySNS     NotifyType = "sns"
)
