// Package cause provides the built-in interruption cause variants.
// Anything satisfying interrupt.Cause works; these cover the common
// reasons a run gets stopped.
package cause

import (
	"fmt"
	"time"

	"github.com/dwsmith1983/causeway/pkg/interrupt"
)

// UserInterruption records that a named user stopped the run.
type UserInterruption struct {
	User string
}

// Kind returns the cause type identifier.
func (c UserInterruption) Kind() string { return "user-interruption" }

// Summary returns the one-line description used for dedup and display.
func (c UserInterruption) Summary() string {
	return fmt.Sprintf("Aborted by %s", c.User)
}

// Print writes the explanation to the run log.
func (c UserInterruption) Print(sink interrupt.LogSink) {
	sink.WriteLine(c.Summary())
}

// Timeout records that the run exceeded its allotted time.
type Timeout struct {
	After time.Duration
}

func (c Timeout) Kind() string { return "timeout" }

func (c Timeout) Summary() string {
	return fmt.Sprintf("Timed out after %s", c.After)
}

func (c Timeout) Print(sink interrupt.LogSink) {
	sink.WriteLine(c.Summary())
}

// UpstreamFailure records that an upstream run this one depends on failed
// or was itself interrupted.
type UpstreamFailure struct {
	RunID string
}

func (c UpstreamFailure) Kind() string { return "upstream-failure" }

func (c UpstreamFailure) Summary() string {
	return fmt.Sprintf("Upstream run %s failed", c.RunID)
}

func (c UpstreamFailure) Print(sink interrupt.LogSink) {
	sink.WriteLine(c.Summary())
}

// ServiceShutdown records that the host service was shutting down and
// interrupted the run to drain cleanly.
type ServiceShutdown struct{}

func (c ServiceShutdown) Kind() string { return "service-shutdown" }

func (c ServiceShutdown) Summary() string {
	return "Interrupted by service shutdown"
}

func (c ServiceShutdown) Print(sink interrupt.LogSink) {
	sink.WriteLine(c.Summary())
}

// Custom builds a cause from a raw kind and summary, mainly for
// reconstructing causes received over the wire.
func Custom(kind, summary string) interrupt.Cause {
	return custom{kind: kind, summary: summary}
}

type custom struct {
	kind, summary string
}

func (c custom) Kind() string    { return c.kind }
func (c custom) Summary() string { return c.summary }
func (c custom) Print(sink interrupt.LogSink) {
	sink.WriteLine(c.summary)
}
